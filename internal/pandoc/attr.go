package pandoc

import (
	"encoding/json"
)

// KeyValue is one entry of an element's attribute list.
type KeyValue struct {
	Key   string
	Value string
}

// Attr is pandoc's (identifier, classes, key-value pairs) triple.
type Attr struct {
	ID         string
	Classes    []string
	Attributes []KeyValue
}

// MarshalJSON encodes the triple form ["id", ["class"], [["k", "v"]]].
func (a Attr) MarshalJSON() ([]byte, error) {
	classes := a.Classes
	if classes == nil {
		classes = []string{}
	}
	kvs := make([][2]string, 0, len(a.Attributes))
	for _, kv := range a.Attributes {
		kvs = append(kvs, [2]string{kv.Key, kv.Value})
	}
	return json.Marshal([]any{a.ID, classes, kvs})
}

// ParseAttr reads an Attr from decoded JSON. It also accepts an Attr value so trees
// holding freshly built elements can be inspected.
func ParseAttr(v any) (Attr, bool) {
	switch x := v.(type) {
	case Attr:
		return x, true
	case []any:
		if len(x) != 3 {
			return Attr{}, false
		}
		id, ok := x[0].(string)
		if !ok {
			return Attr{}, false
		}
		attr := Attr{ID: id}
		if classes, ok := x[1].([]any); ok {
			for _, c := range classes {
				if s, ok := c.(string); ok {
					attr.Classes = append(attr.Classes, s)
				}
			}
		}
		if kvs, ok := x[2].([]any); ok {
			for _, kv := range kvs {
				pair, ok := kv.([]any)
				if !ok || len(pair) != 2 {
					continue
				}
				k, _ := pair[0].(string)
				val, _ := pair[1].(string)
				attr.Attributes = append(attr.Attributes, KeyValue{Key: k, Value: val})
			}
		}
		return attr, true
	default:
		return Attr{}, false
	}
}
