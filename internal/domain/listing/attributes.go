package listing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Attributes holds the category-specific key/value pairs of a listing.
// Values are JSON scalars or string arrays.
type Attributes map[string]any

// Clone returns a shallow copy
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// String returns the attribute as a string; numbers are formatted without decimals
func (a Attributes) String(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// Int returns the attribute as an integer
func (a Attributes) Int(key string) (int, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}

// Normalize round-trips the map through JSON so every value has the type
// encoding/json produces (float64 numbers, []any arrays)
func (a Attributes) Normalize() (Attributes, error) {
	if len(a) == 0 {
		return Attributes{}, nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	out := Attributes{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
