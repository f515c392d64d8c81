package requesthandler

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/scenecast/scenecast/internal/domain/resource"
	"github.com/scenecast/scenecast/internal/domain/session"
)

// Unbounded range markers for ValidateNumber.
var (
	// NoMin accepts any value at the low end.
	NoMin = math.Inf(-1)
	// NoMax accepts any value at the high end.
	NoMax = math.Inf(1)
)

// SceneFilter restricts which scene sources ValidateScene accepts.
type SceneFilter int

const (
	// SceneOrGroup accepts both plain scenes and groups.
	SceneOrGroup SceneFilter = iota
	// SceneOnly rejects groups.
	SceneOnly
	// GroupOnly rejects plain scenes.
	GroupOnly
)

// Request is the per-request validation context: the session-scoped
// protocol settings plus the normalized request data document. All
// validators are pure functions of (request, key, parameters) against
// the resolver; a Request is never shared across goroutines.
type Request struct {
	// RPCVersion is the protocol version negotiated for the session.
	RPCVersion int

	// IgnoreNonFatalRequestChecks carries the session's leniency flag.
	// The validators never consult it; whether non-fatal failures block
	// the request is dispatch-level policy.
	IgnoreNonFatalRequestChecks bool

	// Type is the request type identifier.
	Type string

	// Data is the request data document, normalized to a non-nil map.
	Data map[string]any

	resolver resource.Resolver
}

// New builds a Request from a session, a request type, and the raw
// data document. A nil document (the decode layer yields nil for any
// non-object payload) is normalized to an empty map so every key
// lookup is safe without null-checking the container.
func New(sess *session.Session, requestType string, data map[string]any, resolver resource.Resolver) *Request {
	if data == nil {
		data = map[string]any{}
	}
	return &Request{
		RPCVersion:                  sess.RPCVersion,
		IgnoreNonFatalRequestChecks: sess.IgnoreNonFatalRequestChecks,
		Type:                        requestType,
		Data:                        data,
		resolver:                    resolver,
	}
}

// ValidateBasic checks that the key exists in the request data and is
// non-null. It is the entry gate of every other validator; failures
// propagate upward unchanged.
func (r *Request) ValidateBasic(key string) error {
	if r.Data == nil {
		return NewError(StatusMissingRequestData, "Your request data is missing or invalid (non-object)")
	}

	if v, ok := r.Data[key]; !ok || v == nil {
		return NewError(StatusMissingRequestParameter, "Your request is missing the `%s` parameter.", key)
	}

	return nil
}

// ValidateNumber checks that the key holds a number within the
// inclusive [minValue, maxValue] range. Use NoMin/NoMax for an
// unbounded side.
func (r *Request) ValidateNumber(key string, minValue, maxValue float64) error {
	if err := r.ValidateBasic(key); err != nil {
		return err
	}

	value, ok := toNumber(r.Data[key])
	if !ok {
		return NewError(StatusInvalidRequestParameterType, "The parameter `%s` must be a number.", key)
	}

	if value < minValue {
		return NewError(StatusRequestParameterOutOfRange, "The parameter `%s` is below the minimum of `%s`.", key, formatNumber(minValue))
	}
	if value > maxValue {
		return NewError(StatusRequestParameterOutOfRange, "The parameter `%s` is above the maximum of `%s`.", key, formatNumber(maxValue))
	}

	return nil
}

// ValidateString checks that the key holds a string. Unless allowEmpty
// is set, a zero-length string fails with RequestParameterEmpty.
func (r *Request) ValidateString(key string, allowEmpty bool) error {
	if err := r.ValidateBasic(key); err != nil {
		return err
	}

	value, ok := r.Data[key].(string)
	if !ok {
		return NewError(StatusInvalidRequestParameterType, "The parameter `%s` must be a string.", key)
	}

	if value == "" && !allowEmpty {
		return NewError(StatusRequestParameterEmpty, "The parameter `%s` must not be empty.", key)
	}

	return nil
}

// ValidateBoolean checks that the key holds a boolean.
func (r *Request) ValidateBoolean(key string) error {
	if err := r.ValidateBasic(key); err != nil {
		return err
	}

	if _, ok := r.Data[key].(bool); !ok {
		return NewError(StatusInvalidRequestParameterType, "The parameter `%s` must be boolean.", key)
	}

	return nil
}

// ValidateObject checks that the key holds an object. Unless
// allowEmpty is set, an object with no keys fails with
// RequestParameterEmpty.
func (r *Request) ValidateObject(key string, allowEmpty bool) error {
	if err := r.ValidateBasic(key); err != nil {
		return err
	}

	value, ok := r.Data[key].(map[string]any)
	if !ok {
		return NewError(StatusInvalidRequestParameterType, "The parameter `%s` must be an object.", key)
	}

	if len(value) == 0 && !allowEmpty {
		return NewError(StatusRequestParameterEmpty, "The parameter `%s` must not be empty.", key)
	}

	return nil
}

// ValidateArray checks that the key holds an array. Unless allowEmpty
// is set, an array with no elements fails with RequestParameterEmpty.
func (r *Request) ValidateArray(key string, allowEmpty bool) error {
	if err := r.ValidateBasic(key); err != nil {
		return err
	}

	value, ok := r.Data[key].([]any)
	if !ok {
		return NewError(StatusInvalidRequestParameterType, "The parameter `%s` must be an array.", key)
	}

	if len(value) == 0 && !allowEmpty {
		return NewError(StatusRequestParameterEmpty, "The parameter `%s` must not be empty.", key)
	}

	return nil
}

// ValidateSource resolves the source named by the key. The returned
// handle carries a reference the caller must release.
func (r *Request) ValidateSource(key string) (*resource.Source, error) {
	if err := r.ValidateString(key, false); err != nil {
		return nil, err
	}

	name := r.String(key)

	src := r.resolver.LookupSourceByName(name)
	if src == nil {
		return nil, NewError(StatusResourceNotFound, "No source was found by the name of `%s`.", name)
	}

	return src, nil
}

// ValidateScene resolves the scene named by the key, applying the
// given filter. The returned handle carries a reference the caller
// must release.
func (r *Request) ValidateScene(key string, filter SceneFilter) (*resource.Source, error) {
	src, err := r.ValidateSource(key)
	if err != nil {
		return nil, err
	}

	// Release on every failure exit below.
	ok := false
	defer func() {
		if !ok {
			src.Release()
		}
	}()

	if src.Kind() != resource.KindScene {
		return nil, NewError(StatusInvalidResourceType, "The specified source is not a scene.")
	}

	isGroup := src.IsGroup()
	if filter == SceneOnly && isGroup {
		return nil, NewError(StatusInvalidResourceType, "The specified source is not a scene.")
	}
	if filter == GroupOnly && !isGroup {
		return nil, NewError(StatusInvalidResourceType, "The specified source is not a group.")
	}

	ok = true
	return src, nil
}

// ValidateInput resolves the input named by the key. The returned
// handle carries a reference the caller must release.
func (r *Request) ValidateInput(key string) (*resource.Source, error) {
	src, err := r.ValidateSource(key)
	if err != nil {
		return nil, err
	}

	if src.Kind() != resource.KindInput {
		src.Release()
		return nil, NewError(StatusInvalidResourceType, "The specified source is not an input.")
	}

	return src, nil
}

// ValidateSceneItem resolves a scene item addressed by a scene-name
// key and a numeric item-ID key. The returned item carries a reference
// the caller must release.
func (r *Request) ValidateSceneItem(sceneKey, itemIDKey string, filter SceneFilter) (*resource.SceneItem, error) {
	scn, err := r.ValidateScene(sceneKey, filter)
	if err != nil {
		return nil, err
	}

	// Only the container is needed past this point, not a held handle.
	scene := scn.Scene()
	sceneName := scn.Name()
	scn.Release()

	if err := r.ValidateNumber(itemIDKey, 0, NoMax); err != nil {
		return nil, err
	}

	itemID := r.Int(itemIDKey)

	item := scene.ItemByID(itemID)
	if item == nil {
		return nil, NewError(StatusResourceNotFound, "No scene items were found in scene `%s` with the ID `%d`.", sceneName, itemID)
	}

	return item.Acquire(), nil
}

// Number returns the value under key as a float64, or 0 if the key is
// missing or not numeric. Call after ValidateNumber.
func (r *Request) Number(key string) float64 {
	v, _ := toNumber(r.Data[key])
	return v
}

// Int returns the value under key truncated to an int64.
// Call after ValidateNumber.
func (r *Request) Int(key string) int64 {
	return int64(r.Number(key))
}

// String returns the value under key as a string, or "" if the key is
// missing or not a string. Call after ValidateString.
func (r *Request) String(key string) string {
	v, _ := r.Data[key].(string)
	return v
}

// Boolean returns the value under key as a bool, or false if the key
// is missing or not boolean. Call after ValidateBoolean.
func (r *Request) Boolean(key string) bool {
	v, _ := r.Data[key].(bool)
	return v
}

// Object returns the value under key as a document, or nil if the key
// is missing or not an object. Call after ValidateObject.
func (r *Request) Object(key string) map[string]any {
	v, _ := r.Data[key].(map[string]any)
	return v
}

// Array returns the value under key as a slice, or nil if the key is
// missing or not an array. Call after ValidateArray.
func (r *Request) Array(key string) []any {
	v, _ := r.Data[key].([]any)
	return v
}

// toNumber reports whether the value is numeric and returns it as a
// float64. JSON decoding yields float64, but documents built in-process
// may carry native integer types.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// formatNumber renders a bound for a comment: integral values without
// a fractional part, infinities as the unbounded marker.
func formatNumber(v float64) string {
	if math.IsInf(v, -1) {
		return "-Infinity"
	}
	if math.IsInf(v, 1) {
		return "Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
