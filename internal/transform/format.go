package transform

// DefaultImageFormat is used for targets without an entry in the format table.
const DefaultImageFormat = "png"

// FormatTable maps a document's render target (pandoc's output format name) to the
// image format diagrams are rendered in.
type FormatTable struct {
	Targets map[string]string
	Default string
}

// DefaultFormatTable renders vector images for HTML, EPS for LaTeX and PNG otherwise.
func DefaultFormatTable() FormatTable {
	return FormatTable{
		Targets: map[string]string{
			"html":  "svg",
			"latex": "eps",
		},
		Default: DefaultImageFormat,
	}
}

// For returns the image format for target.
func (t FormatTable) For(target string) string {
	if f, ok := t.Targets[target]; ok && f != "" {
		return f
	}
	if t.Default != "" {
		return t.Default
	}
	return DefaultImageFormat
}
