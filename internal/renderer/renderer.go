// Package renderer abstracts the external tool that turns diagram source files into
// images.
//
// Contract:
//
//	Render(ctx, sourcePath, format) error -> write one or more image files named after the
//	  source file's stem (optionally followed by a page suffix) with the extension format,
//	  into the directory containing sourcePath.
//
// A Render error means the tool failed; it does not imply that nothing was written.
// Callers discover outputs from the filesystem either way.
package renderer

import (
	"context"
	"errors"
	"strings"
)

// ErrRendererNotFound is returned when the configured executable cannot be located.
var ErrRendererNotFound = errors.New("renderer executable not found")

// ErrRenderFailed wraps a non-zero exit or timeout of the renderer process.
var ErrRenderFailed = errors.New("renderer execution failed")

// Renderer renders a diagram source file into image files.
type Renderer interface {
	Render(ctx context.Context, sourcePath, format string) error
}

// Func adapts a function to the Renderer interface.
type Func func(ctx context.Context, sourcePath, format string) error

func (f Func) Render(ctx context.Context, sourcePath, format string) error {
	return f(ctx, sourcePath, format)
}

// SourceFormat describes the on-disk form of diagram source the renderer expects.
type SourceFormat struct {
	// Ext is the source file extension, without the dot.
	Ext string
	// StartPrefix marks text that is already a complete diagram document.
	StartPrefix string
	// Begin and End wrap text that lacks StartPrefix.
	Begin string
	End   string
}

// PlantUMLSource is the dialect PlantUML reads.
var PlantUMLSource = SourceFormat{
	Ext:         "uml",
	StartPrefix: "@start",
	Begin:       "@startuml\n",
	End:         "\n@enduml\n",
}

// Normalize wraps text with the Begin/End markers unless it already starts with
// StartPrefix. Invalid UTF-8 sequences are dropped so the source file is always
// valid UTF-8.
func (s SourceFormat) Normalize(text string) string {
	text = strings.ToValidUTF8(text, "")
	if s.StartPrefix != "" && strings.HasPrefix(text, s.StartPrefix) {
		return text
	}
	return s.Begin + text + s.End
}
