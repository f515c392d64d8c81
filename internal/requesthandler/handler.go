package requesthandler

import (
	"errors"
	"sort"

	"github.com/scenecast/scenecast/internal/domain/resource"
	"github.com/scenecast/scenecast/internal/domain/session"
)

// HandlerFunc executes one request against the studio. On success it
// returns the response data document (or nil when the operation
// produces none). Failures are reported as *Error values; any other
// error is mapped to RequestProcessingFailed.
type HandlerFunc func(*Request) (any, error)

// Result is the outcome of processing a request, ready to be placed in
// a response envelope.
type Result struct {
	Status       Status
	Comment      string
	ResponseData any
}

// OK reports whether the request succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Handler dispatches requests to the registered request handlers.
type Handler struct {
	resources  *resource.Registry
	appVersion string
	handlers   map[string]HandlerFunc
}

// NewHandler creates a Handler with all built-in request types
// registered.
func NewHandler(resources *resource.Registry, appVersion string) *Handler {
	h := &Handler{
		resources:  resources,
		appVersion: appVersion,
	}
	h.handlers = map[string]HandlerFunc{
		// General
		"GetVersion": h.GetVersion,

		// Scenes
		"GetSceneList":           h.GetSceneList,
		"GetGroupList":           h.GetGroupList,
		"GetCurrentProgramScene": h.GetCurrentProgramScene,
		"SetCurrentProgramScene": h.SetCurrentProgramScene,
		"CreateScene":            h.CreateScene,
		"RemoveScene":            h.RemoveScene,
		"SetSceneName":           h.SetSceneName,

		// Inputs
		"GetInputList":     h.GetInputList,
		"CreateInput":      h.CreateInput,
		"GetInputSettings": h.GetInputSettings,
		"SetInputSettings": h.SetInputSettings,
		"GetInputMute":     h.GetInputMute,
		"SetInputMute":     h.SetInputMute,

		// Scene items
		"GetSceneItemList":    h.GetSceneItemList,
		"CreateSceneItem":     h.CreateSceneItem,
		"RemoveSceneItem":     h.RemoveSceneItem,
		"GetSceneItemEnabled": h.GetSceneItemEnabled,
		"SetSceneItemEnabled": h.SetSceneItemEnabled,
		"SetSceneItemIndex":   h.SetSceneItemIndex,
	}
	return h
}

// RequestTypes returns the sorted list of registered request types.
func (h *Handler) RequestTypes() []string {
	types := make([]string, 0, len(h.handlers))
	for t := range h.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Handle builds the request context for a session and processes it.
func (h *Handler) Handle(sess *session.Session, requestType string, data map[string]any) Result {
	return h.Process(New(sess, requestType, data, h.resources))
}

// Process dispatches a request to its handler and maps the outcome to
// a protocol result. Validation failures surface with their own status
// and comment; unclassified handler errors become
// RequestProcessingFailed.
func (h *Handler) Process(req *Request) Result {
	if req.Type == "" {
		return Result{
			Status:  StatusMissingRequestType,
			Comment: "Your request is missing a request type.",
		}
	}

	handler, ok := h.handlers[req.Type]
	if !ok {
		return Result{
			Status:  StatusUnknownRequestType,
			Comment: "The request type `" + req.Type + "` is not valid.",
		}
	}

	data, err := handler(req)
	if err != nil {
		var reqErr *Error
		if errors.As(err, &reqErr) {
			return Result{Status: reqErr.Status, Comment: reqErr.Comment}
		}
		return Result{
			Status:  StatusRequestProcessingFailed,
			Comment: err.Error(),
		}
	}

	return Result{Status: StatusSuccess, ResponseData: data}
}
