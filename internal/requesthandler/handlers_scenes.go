package requesthandler

import (
	"errors"

	"github.com/scenecast/scenecast/internal/domain/resource"
)

// GetSceneList lists all scenes and the current program scene.
func (h *Handler) GetSceneList(req *Request) (any, error) {
	scenes := make([]map[string]any, 0)
	for _, info := range h.resources.Scenes() {
		scenes = append(scenes, map[string]any{
			"sceneName": info.Name,
			"sceneUuid": info.UUID.String(),
		})
	}

	programName := ""
	if program := h.resources.CurrentProgramScene(); program != nil {
		programName = program.Name()
		program.Release()
	}

	return map[string]any{
		"scenes":                  scenes,
		"currentProgramSceneName": programName,
	}, nil
}

// GetGroupList lists the names of all groups.
func (h *Handler) GetGroupList(req *Request) (any, error) {
	groups := make([]string, 0)
	for _, info := range h.resources.Groups() {
		groups = append(groups, info.Name)
	}
	return map[string]any{"groups": groups}, nil
}

// GetCurrentProgramScene reports the active program scene.
func (h *Handler) GetCurrentProgramScene(req *Request) (any, error) {
	program := h.resources.CurrentProgramScene()
	if program == nil {
		return nil, NewError(StatusResourceNotFound, "There is no current program scene.")
	}
	defer program.Release()

	return map[string]any{
		"currentProgramSceneName": program.Name(),
		"currentProgramSceneUuid": program.UUID().String(),
	}, nil
}

// SetCurrentProgramScene switches the program output to the named
// scene. Groups are not valid program scenes.
func (h *Handler) SetCurrentProgramScene(req *Request) (any, error) {
	scene, err := req.ValidateScene("sceneName", SceneOnly)
	if err != nil {
		return nil, err
	}
	defer scene.Release()

	if err := h.resources.SetCurrentProgramScene(scene.Name()); err != nil {
		return nil, NewError(StatusResourceActionFailed, "Failed to set the current program scene.")
	}
	return nil, nil
}

// CreateScene creates a new empty scene.
func (h *Handler) CreateScene(req *Request) (any, error) {
	if err := req.ValidateString("sceneName", false); err != nil {
		return nil, err
	}
	name := req.String("sceneName")

	scene, err := h.resources.CreateScene(name)
	if err != nil {
		if errors.Is(err, resource.ErrSourceExists) {
			return nil, NewError(StatusResourceAlreadyExists, "A source already exists by the name of `%s`.", name)
		}
		return nil, NewError(StatusResourceCreationFailed, "Failed to create the scene `%s`.", name)
	}

	return map[string]any{"sceneUuid": scene.UUID().String()}, nil
}

// RemoveScene removes the named scene. Scene items of the scene are
// released with it.
func (h *Handler) RemoveScene(req *Request) (any, error) {
	scene, err := req.ValidateScene("sceneName", SceneOrGroup)
	if err != nil {
		return nil, err
	}
	name := scene.Name()
	scene.Release()

	if err := h.resources.RemoveSource(name); err != nil {
		return nil, NewError(StatusResourceActionFailed, "Failed to remove the scene `%s`.", name)
	}
	return nil, nil
}

// SetSceneName renames a scene.
func (h *Handler) SetSceneName(req *Request) (any, error) {
	scene, err := req.ValidateScene("sceneName", SceneOrGroup)
	if err != nil {
		return nil, err
	}
	defer scene.Release()

	if err := req.ValidateString("newSceneName", false); err != nil {
		return nil, err
	}
	newName := req.String("newSceneName")

	if err := h.resources.RenameSource(scene.Name(), newName); err != nil {
		if errors.Is(err, resource.ErrSourceExists) {
			return nil, NewError(StatusResourceAlreadyExists, "A source already exists by the name of `%s`.", newName)
		}
		return nil, NewError(StatusResourceActionFailed, "Failed to rename the scene.")
	}
	return nil, nil
}
