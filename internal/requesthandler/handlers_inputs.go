package requesthandler

import (
	"errors"

	"github.com/scenecast/scenecast/internal/domain/resource"
)

// GetInputList lists all inputs.
func (h *Handler) GetInputList(req *Request) (any, error) {
	inputs := make([]map[string]any, 0)
	for _, info := range h.resources.Inputs() {
		inputs = append(inputs, map[string]any{
			"inputName": info.Name,
			"inputUuid": info.UUID.String(),
		})
	}
	return map[string]any{"inputs": inputs}, nil
}

// CreateInput creates a new input, optionally with initial settings.
func (h *Handler) CreateInput(req *Request) (any, error) {
	if err := req.ValidateString("inputName", false); err != nil {
		return nil, err
	}
	name := req.String("inputName")

	var settings map[string]any
	if _, present := req.Data["inputSettings"]; present {
		if err := req.ValidateObject("inputSettings", true); err != nil {
			return nil, err
		}
		settings = req.Object("inputSettings")
	}

	input, err := h.resources.CreateInput(name, settings)
	if err != nil {
		if errors.Is(err, resource.ErrSourceExists) {
			return nil, NewError(StatusResourceAlreadyExists, "A source already exists by the name of `%s`.", name)
		}
		return nil, NewError(StatusResourceCreationFailed, "Failed to create the input `%s`.", name)
	}

	return map[string]any{"inputUuid": input.UUID().String()}, nil
}

// GetInputSettings reports the settings document of an input.
func (h *Handler) GetInputSettings(req *Request) (any, error) {
	input, err := req.ValidateInput("inputName")
	if err != nil {
		return nil, err
	}
	defer input.Release()

	return map[string]any{
		"inputSettings": input.Settings(),
	}, nil
}

// SetInputSettings merges a settings document into an input. With
// overlay=false the document replaces the existing settings instead.
func (h *Handler) SetInputSettings(req *Request) (any, error) {
	input, err := req.ValidateInput("inputName")
	if err != nil {
		return nil, err
	}
	defer input.Release()

	if err := req.ValidateObject("inputSettings", true); err != nil {
		return nil, err
	}
	settings := req.Object("inputSettings")

	overlay := true
	if _, present := req.Data["overlay"]; present {
		if err := req.ValidateBoolean("overlay"); err != nil {
			return nil, err
		}
		overlay = req.Boolean("overlay")
	}

	if overlay {
		input.ApplySettings(settings)
	} else {
		input.ReplaceSettings(settings)
	}
	return nil, nil
}

// GetInputMute reports the mute state of an input.
func (h *Handler) GetInputMute(req *Request) (any, error) {
	input, err := req.ValidateInput("inputName")
	if err != nil {
		return nil, err
	}
	defer input.Release()

	return map[string]any{"inputMuted": input.Muted()}, nil
}

// SetInputMute sets the mute state of an input.
func (h *Handler) SetInputMute(req *Request) (any, error) {
	input, err := req.ValidateInput("inputName")
	if err != nil {
		return nil, err
	}
	defer input.Release()

	if err := req.ValidateBoolean("inputMuted"); err != nil {
		return nil, err
	}

	input.SetMuted(req.Boolean("inputMuted"))
	return nil, nil
}
