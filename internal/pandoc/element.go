package pandoc

// attrIndex gives the position of the Attr inside "c" for elements that carry one.
var attrIndex = map[string]int{
	"CodeBlock": 0,
	"Header":    1,
	"Table":     0,
	"Figure":    0,
	"Div":       0,
	"Code":      0,
	"Link":      0,
	"Image":     0,
	"Span":      0,
}

// Element is a view over one decoded AST node ({"t": ..., "c": ...}).
type Element struct {
	node map[string]any
}

// Type returns the node's tag, e.g. "CodeBlock".
func (e Element) Type() string {
	t, _ := e.node["t"].(string)
	return t
}

// Attr returns the element's attributes, if its type carries any.
func (e Element) Attr() (Attr, bool) {
	idx, ok := attrIndex[e.Type()]
	if !ok {
		return Attr{}, false
	}
	c, ok := e.node["c"].([]any)
	if !ok || idx >= len(c) {
		return Attr{}, false
	}
	return ParseAttr(c[idx])
}

// Identifier returns the element's identifier, or "" if it has none.
func (e Element) Identifier() string {
	attr, ok := e.Attr()
	if !ok {
		return ""
	}
	return attr.ID
}

// CodeBlock is the typed form of a CodeBlock element.
type CodeBlock struct {
	Attr Attr
	Text string
}

// CodeBlock returns the typed view when e is a CodeBlock.
func (e Element) CodeBlock() (CodeBlock, bool) {
	if e.Type() != "CodeBlock" {
		return CodeBlock{}, false
	}
	c, ok := e.node["c"].([]any)
	if !ok || len(c) != 2 {
		return CodeBlock{}, false
	}
	attr, ok := ParseAttr(c[0])
	if !ok {
		return CodeBlock{}, false
	}
	text, ok := c[1].(string)
	if !ok {
		return CodeBlock{}, false
	}
	return CodeBlock{Attr: attr, Text: text}, true
}

func node(t string, c any) map[string]any {
	return map[string]any{"t": t, "c": c}
}

// Str builds a Str inline.
func Str(text string) map[string]any {
	return node("Str", text)
}

// Header builds a Header block.
func Header(level int, attr Attr, inlines []any) map[string]any {
	if inlines == nil {
		inlines = []any{}
	}
	return node("Header", []any{level, attr, inlines})
}

// Para builds a Para block.
func Para(inlines []any) map[string]any {
	if inlines == nil {
		inlines = []any{}
	}
	return node("Para", inlines)
}

// Image builds an Image inline.
func Image(attr Attr, caption []any, url, title string) map[string]any {
	if caption == nil {
		caption = []any{}
	}
	return node("Image", []any{attr, caption, []any{url, title}})
}

// NewCodeBlock builds a CodeBlock block.
func NewCodeBlock(attr Attr, text string) map[string]any {
	return node("CodeBlock", []any{attr, text})
}
