// Package diagram holds the host-independent model of a diagram block and assembles
// the figure and header elements that replace it.
package diagram

import "slices"

// KeyValue is one free-form attribute. Order matters to document formats, so
// attributes are kept as a list rather than a map.
type KeyValue struct {
	Key   string
	Value string
}

// Attributes is an ordered attribute list.
type Attributes []KeyValue

// Lookup returns the value of the first attribute named key.
func (a Attributes) Lookup(key string) (string, bool) {
	for _, kv := range a {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	return slices.Clone(a)
}

// Block is a code block tagged as a diagram, as read from the document.
type Block struct {
	Source     string
	ID         string
	Classes    []string
	Attributes Attributes
}

// HasClass reports whether the block carries class.
func (b Block) HasClass(class string) bool {
	return slices.Contains(b.Classes, class)
}
