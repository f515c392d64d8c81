package requesthandler

// GetSceneItemList lists the items of a scene in render order.
func (h *Handler) GetSceneItemList(req *Request) (any, error) {
	scene, err := req.ValidateScene("sceneName", SceneOrGroup)
	if err != nil {
		return nil, err
	}
	defer scene.Release()

	items := make([]map[string]any, 0)
	for i, item := range scene.Scene().Items() {
		items = append(items, map[string]any{
			"sceneItemId":      item.ID(),
			"sceneItemIndex":   i,
			"sceneItemEnabled": item.Enabled(),
			"sourceName":       item.SourceName(),
		})
	}
	return map[string]any{"sceneItems": items}, nil
}

// CreateSceneItem places a source into a scene.
func (h *Handler) CreateSceneItem(req *Request) (any, error) {
	scene, err := req.ValidateScene("sceneName", SceneOrGroup)
	if err != nil {
		return nil, err
	}
	defer scene.Release()

	source, err := req.ValidateSource("sourceName")
	if err != nil {
		return nil, err
	}
	defer source.Release()

	enabled := true
	if _, present := req.Data["sceneItemEnabled"]; present {
		if err := req.ValidateBoolean("sceneItemEnabled"); err != nil {
			return nil, err
		}
		enabled = req.Boolean("sceneItemEnabled")
	}

	item := scene.Scene().AddItem(source, enabled)
	return map[string]any{"sceneItemId": item.ID()}, nil
}

// RemoveSceneItem removes an item from a scene.
func (h *Handler) RemoveSceneItem(req *Request) (any, error) {
	item, err := req.ValidateSceneItem("sceneName", "sceneItemId", SceneOrGroup)
	if err != nil {
		return nil, err
	}
	defer item.Release()

	if err := item.Scene().RemoveItem(item.ID()); err != nil {
		return nil, NewError(StatusResourceActionFailed, "Failed to remove the scene item.")
	}
	return nil, nil
}

// GetSceneItemEnabled reports whether a scene item is rendered.
func (h *Handler) GetSceneItemEnabled(req *Request) (any, error) {
	item, err := req.ValidateSceneItem("sceneName", "sceneItemId", SceneOrGroup)
	if err != nil {
		return nil, err
	}
	defer item.Release()

	return map[string]any{"sceneItemEnabled": item.Enabled()}, nil
}

// SetSceneItemEnabled toggles whether a scene item is rendered.
func (h *Handler) SetSceneItemEnabled(req *Request) (any, error) {
	item, err := req.ValidateSceneItem("sceneName", "sceneItemId", SceneOrGroup)
	if err != nil {
		return nil, err
	}
	defer item.Release()

	if err := req.ValidateBoolean("sceneItemEnabled"); err != nil {
		return nil, err
	}

	item.SetEnabled(req.Boolean("sceneItemEnabled"))
	return nil, nil
}

// SetSceneItemIndex moves a scene item to a new render position.
func (h *Handler) SetSceneItemIndex(req *Request) (any, error) {
	item, err := req.ValidateSceneItem("sceneName", "sceneItemId", SceneOrGroup)
	if err != nil {
		return nil, err
	}
	defer item.Release()

	if err := req.ValidateNumber("sceneItemIndex", 0, 8192); err != nil {
		return nil, err
	}

	if err := item.Scene().SetItemIndex(item.ID(), int(req.Int("sceneItemIndex"))); err != nil {
		return nil, NewError(StatusResourceActionFailed, "Failed to set the scene item index.")
	}
	return nil, nil
}
