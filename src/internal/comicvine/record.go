package comicvine

import (
	"encoding/json"
	"strconv"
)

// Record is a JSON object decoded from a Comic Vine response. Its shape
// depends on the endpoint; accessors tolerate missing or mistyped fields.
type Record map[string]any

// Has reports whether key is present, even when its value is null.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// String returns the value at key in its textual form. Numbers keep the
// exact digits the service sent. Missing and null values yield "".
func (r Record) String(key string) string {
	return stringify(r[key])
}

// Record returns the nested object at key.
func (r Record) Record(key string) (Record, bool) {
	return asRecord(r[key])
}

// List returns the array at key, or nil.
func (r Record) List(key string) []any {
	l, _ := r[key].([]any)
	return l
}

func asRecord(v any) (Record, bool) {
	switch t := v.(type) {
	case Record:
		return t, t != nil
	case map[string]any:
		return Record(t), t != nil
	}
	return nil, false
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// present reports whether v carries a value: not null, not an empty string,
// object or array.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case map[string]any:
		return len(t) > 0
	case Record:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	return true
}
