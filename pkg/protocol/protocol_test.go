package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseRequestData(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    map[string]any
	}{
		{
			name:    "object",
			payload: `{"sceneName":"Main","sceneItemId":5}`,
			want:    map[string]any{"sceneName": "Main", "sceneItemId": float64(5)},
		},
		{
			name:    "empty object",
			payload: `{}`,
			want:    map[string]any{},
		},
		{name: "absent", payload: ""},
		{name: "null", payload: `null`},
		{name: "array", payload: `[1,2,3]`},
		{name: "string", payload: `"hello"`},
		{name: "number", payload: `42`},
		{name: "malformed", payload: `{broken`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := RequestMessage{RequestData: json.RawMessage(tt.payload)}
			got := msg.ParseRequestData()

			if tt.want == nil {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected document, got nil")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("key %q = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestDecodeRequest(t *testing.T) {
	msg, err := DecodeRequest([]byte(`{"requestId":"r1","requestType":"GetVersion"}`))
	if err != nil {
		t.Fatalf("DecodeRequest failed: %v", err)
	}
	if msg.RequestID != "r1" || msg.RequestType != "GetVersion" {
		t.Errorf("unexpected envelope: %+v", msg)
	}
	if msg.ParseRequestData() != nil {
		t.Error("expected nil data for absent payload")
	}
}

func TestDecodeRequest_MissingRequestID(t *testing.T) {
	_, err := DecodeRequest([]byte(`{"requestType":"GetVersion"}`))
	if err == nil {
		t.Fatal("expected error for missing requestId")
	}
	if !strings.Contains(err.Error(), "requestId") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecodeRequest_Malformed(t *testing.T) {
	if _, err := DecodeRequest([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed envelope")
	}
}

func TestEncodeResponse(t *testing.T) {
	out, err := EncodeResponse(&ResponseMessage{
		RequestID:   "r1",
		RequestType: "GetVersion",
		RequestStatus: RequestStatus{
			Result: true,
			Code:   100,
		},
		ResponseData: map[string]any{"rpcVersion": 1},
	})
	if err != nil {
		t.Fatalf("EncodeResponse failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["requestId"] != "r1" {
		t.Errorf("requestId = %v", decoded["requestId"])
	}
	status := decoded["requestStatus"].(map[string]any)
	if status["result"] != true || status["code"] != float64(100) {
		t.Errorf("unexpected status: %v", status)
	}
	if _, present := status["comment"]; present {
		t.Error("empty comment should be omitted")
	}
}

func TestEncodeResponse_FailureOmitsData(t *testing.T) {
	out, err := EncodeResponse(&ResponseMessage{
		RequestID:   "r2",
		RequestType: "GetSceneList",
		RequestStatus: RequestStatus{
			Result:  false,
			Code:    600,
			Comment: "No source was found by the name of `x`.",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "responseData") {
		t.Error("responseData should be omitted on failure")
	}
}
