package pandoc

import "sort"

// Action is called for every element that sits in a list (all blocks and inlines).
// Returning replace=true substitutes the element with replacement, which may be empty
// or hold several elements.
type Action func(e Element) (replacement []any, replace bool)

// Filter visits the metadata and then the blocks of doc, depth first. An element's
// children are visited before the element itself, and siblings in document order.
// Replacements are not walked again.
func Filter(doc *Document, fn Action) {
	keys := make([]string, 0, len(doc.Meta))
	for k := range doc.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		doc.Meta[k] = walkValue(doc.Meta[k], fn)
	}
	doc.Blocks = walkList(doc.Blocks, fn)
}

func walkValue(v any, fn Action) any {
	switch x := v.(type) {
	case []any:
		return walkList(x, fn)
	case map[string]any:
		if _, isElement := x["t"].(string); isElement {
			if c, ok := x["c"]; ok {
				x["c"] = walkValue(c, fn)
			}
			return x
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			x[k] = walkValue(x[k], fn)
		}
		return x
	default:
		return v
	}
}

func walkList(items []any, fn Action) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		item = walkValue(item, fn)
		if n, ok := item.(map[string]any); ok {
			if _, isElement := n["t"].(string); isElement {
				if repl, replace := fn(Element{node: n}); replace {
					out = append(out, repl...)
					continue
				}
			}
		}
		out = append(out, item)
	}
	return out
}
