package requesthandler

import "github.com/scenecast/scenecast/pkg/protocol"

// GetVersion reports the application version, the protocol version,
// and the available request types.
func (h *Handler) GetVersion(req *Request) (any, error) {
	return map[string]any{
		"scenecastVersion":  h.appVersion,
		"rpcVersion":        protocol.RPCVersion,
		"availableRequests": h.RequestTypes(),
	}, nil
}
