package diagram

// Element is an output element produced for a diagram block: *Header or *Figure.
type Element interface {
	element()
}

// Header is a generated section header placed before a figure.
type Header struct {
	Level int
	Title string
	ID    string
}

// FigureMarker is the image title that marks a captioned figure.
const FigureMarker = "fig:"

// Figure is one rendered image.
type Figure struct {
	// Source is the image path.
	Source string
	ID     string
	// Caption is empty unless Captioned.
	Caption   string
	Captioned bool
	// Attributes are the diagram block's attributes, unchanged.
	Attributes Attributes
}

// Title returns the image title: FigureMarker for captioned figures, else empty.
func (f *Figure) Title() string {
	if f.Captioned {
		return FigureMarker
	}
	return ""
}

func (*Header) element() {}
func (*Figure) element() {}
