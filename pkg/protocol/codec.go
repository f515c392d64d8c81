package protocol

import (
	"encoding/json"
	"fmt"
)

// DecodeRequest deserializes a request envelope from its wire format.
// The envelope must be a JSON object with a non-empty requestId;
// requestType and requestData are validated downstream by the request
// layer so their failures surface as protocol status codes, not
// transport errors.
func DecodeRequest(data []byte) (*RequestMessage, error) {
	var msg RequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("malformed request envelope: %w", err)
	}
	if msg.RequestID == "" {
		return nil, fmt.Errorf("request envelope is missing requestId")
	}
	return &msg, nil
}

// EncodeResponse serializes a response envelope to its wire format.
func EncodeResponse(msg *ResponseMessage) ([]byte, error) {
	return json.Marshal(msg)
}
