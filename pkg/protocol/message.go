// Package protocol defines the wire types of the SceneCast control
// protocol: the handshake exchange and the request/response envelopes
// carried over the transport.
package protocol

import "encoding/json"

// RPCVersion is the control protocol version this build speaks.
// Clients must negotiate this exact version at handshake.
const RPCVersion = 1

// HandshakeRequest opens a session. RPCVersion 0 asks for the latest
// version the server supports.
type HandshakeRequest struct {
	// Password authenticates the client. Ignored when the server has no
	// password configured.
	Password string `json:"password,omitempty"`

	// RPCVersion is the protocol version the client wants to speak.
	RPCVersion int `json:"rpcVersion,omitempty"`

	// IgnoreNonFatalRequestChecks asks the server not to block requests
	// on non-fatal validation failures.
	IgnoreNonFatalRequestChecks bool `json:"ignoreNonFatalRequestChecks,omitempty"`
}

// HandshakeResponse confirms a session.
type HandshakeResponse struct {
	// SessionID is the bearer token for subsequent requests.
	SessionID string `json:"sessionId"`

	// NegotiatedRPCVersion is the protocol version in effect.
	NegotiatedRPCVersion int `json:"negotiatedRpcVersion"`
}

// RequestMessage is the envelope a client submits for one operation.
type RequestMessage struct {
	// RequestID is an opaque client-chosen correlation ID, echoed back
	// unchanged in the response.
	RequestID string `json:"requestId"`

	// RequestType names the operation to perform.
	RequestType string `json:"requestType"`

	// RequestData is the loosely-structured parameter document.
	// May be absent, null, or any JSON value; the server normalizes
	// non-object payloads to an empty document.
	RequestData json.RawMessage `json:"requestData,omitempty"`
}

// RequestStatus reports the outcome of a request.
type RequestStatus struct {
	// Result is true when the request succeeded.
	Result bool `json:"result"`

	// Code is the protocol status code. Meaningful on failure;
	// Success (100) on success.
	Code int `json:"code"`

	// Comment is a human-readable description of a failure.
	// Empty on success.
	Comment string `json:"comment,omitempty"`
}

// ResponseMessage is the envelope returned for a RequestMessage.
type ResponseMessage struct {
	RequestID     string        `json:"requestId"`
	RequestType   string        `json:"requestType"`
	RequestStatus RequestStatus `json:"requestStatus"`

	// ResponseData carries operation-specific results, omitted when the
	// operation produces none or failed.
	ResponseData any `json:"responseData,omitempty"`
}

// ErrorResponse is the body returned for transport-level failures
// (bad JSON, missing session, authentication failure).
type ErrorResponse struct {
	Error string `json:"error"`
}

// ParseRequestData decodes the raw request data into a generic
// key-value document. Any payload that is not a JSON object (absent,
// null, array, scalar, or malformed) yields nil; the request layer
// normalizes nil to an empty document.
func (m *RequestMessage) ParseRequestData() map[string]any {
	if len(m.RequestData) == 0 {
		return nil
	}
	var data map[string]any
	if err := json.Unmarshal(m.RequestData, &data); err != nil {
		return nil
	}
	return data
}
