package requesthandler

import (
	"testing"

	"github.com/scenecast/scenecast/internal/domain/resource"
)

func process(t *testing.T, h *Handler, reg *resource.Registry, requestType string, data map[string]any) Result {
	t.Helper()
	return h.Process(New(testSession(), requestType, data, reg))
}

func TestHandler_MissingRequestType(t *testing.T) {
	reg := resource.NewRegistry()
	h := NewHandler(reg, "test")

	result := process(t, h, reg, "", nil)
	if result.Status != StatusMissingRequestType {
		t.Errorf("expected MissingRequestType, got %v", result.Status)
	}
}

func TestHandler_UnknownRequestType(t *testing.T) {
	reg := resource.NewRegistry()
	h := NewHandler(reg, "test")

	result := process(t, h, reg, "DoesNotExist", nil)
	if result.Status != StatusUnknownRequestType {
		t.Errorf("expected UnknownRequestType, got %v", result.Status)
	}
}

func TestHandler_GetVersion(t *testing.T) {
	reg := resource.NewRegistry()
	h := NewHandler(reg, "1.2.3")

	result := process(t, h, reg, "GetVersion", nil)
	if !result.OK() {
		t.Fatalf("expected success, got %v: %s", result.Status, result.Comment)
	}

	data, ok := result.ResponseData.(map[string]any)
	if !ok {
		t.Fatalf("expected document response, got %T", result.ResponseData)
	}
	if data["scenecastVersion"] != "1.2.3" {
		t.Errorf("unexpected version: %v", data["scenecastVersion"])
	}
	if requests, ok := data["availableRequests"].([]string); !ok || len(requests) == 0 {
		t.Error("expected non-empty availableRequests")
	}
}

func TestHandler_SceneLifecycle(t *testing.T) {
	reg := resource.NewRegistry()
	h := NewHandler(reg, "test")

	result := process(t, h, reg, "CreateScene", map[string]any{"sceneName": "Scene 1"})
	if !result.OK() {
		t.Fatalf("CreateScene failed: %v %s", result.Status, result.Comment)
	}

	// Duplicate creation is rejected.
	result = process(t, h, reg, "CreateScene", map[string]any{"sceneName": "Scene 1"})
	if result.Status != StatusResourceAlreadyExists {
		t.Errorf("expected ResourceAlreadyExists, got %v", result.Status)
	}

	result = process(t, h, reg, "SetCurrentProgramScene", map[string]any{"sceneName": "Scene 1"})
	if !result.OK() {
		t.Fatalf("SetCurrentProgramScene failed: %v %s", result.Status, result.Comment)
	}

	result = process(t, h, reg, "GetSceneList", nil)
	if !result.OK() {
		t.Fatalf("GetSceneList failed: %v", result.Status)
	}
	data := result.ResponseData.(map[string]any)
	if data["currentProgramSceneName"] != "Scene 1" {
		t.Errorf("unexpected program scene: %v", data["currentProgramSceneName"])
	}
	if scenes := data["scenes"].([]map[string]any); len(scenes) != 1 {
		t.Errorf("expected one scene, got %d", len(scenes))
	}

	result = process(t, h, reg, "SetSceneName", map[string]any{
		"sceneName":    "Scene 1",
		"newSceneName": "Main",
	})
	if !result.OK() {
		t.Fatalf("SetSceneName failed: %v %s", result.Status, result.Comment)
	}

	result = process(t, h, reg, "RemoveScene", map[string]any{"sceneName": "Main"})
	if !result.OK() {
		t.Fatalf("RemoveScene failed: %v %s", result.Status, result.Comment)
	}

	result = process(t, h, reg, "RemoveScene", map[string]any{"sceneName": "Main"})
	if result.Status != StatusResourceNotFound {
		t.Errorf("expected ResourceNotFound after removal, got %v", result.Status)
	}
}

func TestHandler_InputSettings(t *testing.T) {
	reg := resource.NewRegistry()
	h := NewHandler(reg, "test")

	result := process(t, h, reg, "CreateInput", map[string]any{
		"inputName":     "Mic",
		"inputSettings": map[string]any{"device": "default"},
	})
	if !result.OK() {
		t.Fatalf("CreateInput failed: %v %s", result.Status, result.Comment)
	}

	result = process(t, h, reg, "SetInputSettings", map[string]any{
		"inputName":     "Mic",
		"inputSettings": map[string]any{"gain": float64(3)},
	})
	if !result.OK() {
		t.Fatalf("SetInputSettings failed: %v %s", result.Status, result.Comment)
	}

	result = process(t, h, reg, "GetInputSettings", map[string]any{"inputName": "Mic"})
	if !result.OK() {
		t.Fatalf("GetInputSettings failed: %v", result.Status)
	}
	settings := result.ResponseData.(map[string]any)["inputSettings"].(map[string]any)
	// Overlay mode merges: both keys present.
	if settings["device"] != "default" || settings["gain"] != float64(3) {
		t.Errorf("unexpected settings after overlay: %v", settings)
	}

	// Non-overlay replaces the document.
	result = process(t, h, reg, "SetInputSettings", map[string]any{
		"inputName":     "Mic",
		"inputSettings": map[string]any{"fresh": true},
		"overlay":       false,
	})
	if !result.OK() {
		t.Fatalf("SetInputSettings (replace) failed: %v", result.Status)
	}
	result = process(t, h, reg, "GetInputSettings", map[string]any{"inputName": "Mic"})
	settings = result.ResponseData.(map[string]any)["inputSettings"].(map[string]any)
	if len(settings) != 1 || settings["fresh"] != true {
		t.Errorf("unexpected settings after replace: %v", settings)
	}
}

func TestHandler_InputMute(t *testing.T) {
	reg := resource.NewRegistry()
	h := NewHandler(reg, "test")

	process(t, h, reg, "CreateInput", map[string]any{"inputName": "Mic"})

	result := process(t, h, reg, "SetInputMute", map[string]any{
		"inputName":  "Mic",
		"inputMuted": true,
	})
	if !result.OK() {
		t.Fatalf("SetInputMute failed: %v %s", result.Status, result.Comment)
	}

	result = process(t, h, reg, "GetInputMute", map[string]any{"inputName": "Mic"})
	if !result.OK() {
		t.Fatalf("GetInputMute failed: %v", result.Status)
	}
	if muted := result.ResponseData.(map[string]any)["inputMuted"]; muted != true {
		t.Errorf("expected muted=true, got %v", muted)
	}

	// Wrong parameter type propagates the validator's status.
	result = process(t, h, reg, "SetInputMute", map[string]any{
		"inputName":  "Mic",
		"inputMuted": "yes",
	})
	if result.Status != StatusInvalidRequestParameterType {
		t.Errorf("expected InvalidRequestParameterType, got %v", result.Status)
	}
}

func TestHandler_SceneItems(t *testing.T) {
	reg := resource.NewRegistry()
	h := NewHandler(reg, "test")

	process(t, h, reg, "CreateScene", map[string]any{"sceneName": "Scene 1"})
	process(t, h, reg, "CreateInput", map[string]any{"inputName": "Mic"})

	result := process(t, h, reg, "CreateSceneItem", map[string]any{
		"sceneName":  "Scene 1",
		"sourceName": "Mic",
	})
	if !result.OK() {
		t.Fatalf("CreateSceneItem failed: %v %s", result.Status, result.Comment)
	}
	itemID := result.ResponseData.(map[string]any)["sceneItemId"].(int64)

	result = process(t, h, reg, "SetSceneItemEnabled", map[string]any{
		"sceneName":        "Scene 1",
		"sceneItemId":      float64(itemID),
		"sceneItemEnabled": false,
	})
	if !result.OK() {
		t.Fatalf("SetSceneItemEnabled failed: %v %s", result.Status, result.Comment)
	}

	result = process(t, h, reg, "GetSceneItemEnabled", map[string]any{
		"sceneName":   "Scene 1",
		"sceneItemId": float64(itemID),
	})
	if !result.OK() {
		t.Fatalf("GetSceneItemEnabled failed: %v", result.Status)
	}
	if enabled := result.ResponseData.(map[string]any)["sceneItemEnabled"]; enabled != false {
		t.Errorf("expected enabled=false, got %v", enabled)
	}

	result = process(t, h, reg, "GetSceneItemList", map[string]any{"sceneName": "Scene 1"})
	if !result.OK() {
		t.Fatalf("GetSceneItemList failed: %v", result.Status)
	}
	items := result.ResponseData.(map[string]any)["sceneItems"].([]map[string]any)
	if len(items) != 1 || items[0]["sourceName"] != "Mic" {
		t.Errorf("unexpected scene item list: %v", items)
	}

	result = process(t, h, reg, "RemoveSceneItem", map[string]any{
		"sceneName":   "Scene 1",
		"sceneItemId": float64(itemID),
	})
	if !result.OK() {
		t.Fatalf("RemoveSceneItem failed: %v %s", result.Status, result.Comment)
	}

	result = process(t, h, reg, "GetSceneItemEnabled", map[string]any{
		"sceneName":   "Scene 1",
		"sceneItemId": float64(itemID),
	})
	if result.Status != StatusResourceNotFound {
		t.Errorf("expected ResourceNotFound after removal, got %v", result.Status)
	}
}

func TestHandler_NoReferenceLeaks(t *testing.T) {
	reg := resource.NewRegistry()
	h := NewHandler(reg, "test")

	process(t, h, reg, "CreateScene", map[string]any{"sceneName": "Scene 1"})
	process(t, h, reg, "CreateInput", map[string]any{"inputName": "Mic"})
	process(t, h, reg, "CreateSceneItem", map[string]any{"sceneName": "Scene 1", "sourceName": "Mic"})

	// A mix of succeeding and failing requests touching the same resources.
	requests := []struct {
		requestType string
		data        map[string]any
	}{
		{"GetSceneItemEnabled", map[string]any{"sceneName": "Scene 1", "sceneItemId": float64(0)}},
		{"GetSceneItemEnabled", map[string]any{"sceneName": "Scene 1", "sceneItemId": float64(42)}},
		{"SetSceneItemIndex", map[string]any{"sceneName": "Scene 1", "sceneItemId": float64(0), "sceneItemIndex": float64(0)}},
		{"SetSceneItemIndex", map[string]any{"sceneName": "Scene 1", "sceneItemId": float64(0), "sceneItemIndex": float64(-3)}},
		{"GetInputSettings", map[string]any{"inputName": "Mic"}},
		{"GetInputSettings", map[string]any{"inputName": "Scene 1"}},
		{"GetSceneItemList", map[string]any{"sceneName": "Scene 1"}},
	}
	for _, r := range requests {
		process(t, h, reg, r.requestType, r.data)
	}

	scene := reg.LookupSourceByName("Scene 1")
	defer scene.Release()
	// Registry ref + our lookup ref; anything more is a leak.
	if scene.Refs() != 2 {
		t.Errorf("scene reference leaked: %d", scene.Refs())
	}

	input := reg.LookupSourceByName("Mic")
	defer input.Release()
	// Registry ref + scene item ref + our lookup ref.
	if input.Refs() != 3 {
		t.Errorf("input reference leaked: %d", input.Refs())
	}
}
