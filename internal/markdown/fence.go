package markdown

import (
	"bytes"
	"fmt"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docdiagram/internal/diagram"
)

// fence is a fenced code block located in the source.
type fence struct {
	// Start and End delimit the fence from its opening marker to the end of the
	// closing marker, excluding the final newline.
	Start int
	End   int
	// Prefix is what precedes the opening marker on its line (blockquote markers,
	// list indentation).
	Prefix string
	Info   string
	Text   string
}

// continuationPrefix is the prefix for lines after the first: list markers become
// spaces, blockquote markers are kept.
func (f fence) continuationPrefix() string {
	b := []byte(f.Prefix)
	for i, c := range b {
		if c != '>' && c != '\t' {
			b[i] = ' '
		}
	}
	return string(b)
}

func locateFence(n *gmast.FencedCodeBlock, source []byte) (fence, bool) {
	if n.Info == nil {
		return fence{}, false
	}
	infoStart := n.Info.Segment.Start
	lineStart := bytes.LastIndexByte(source[:infoStart], '\n') + 1

	marker := infoStart
	for marker > lineStart && (source[marker-1] == ' ' || source[marker-1] == '\t') {
		marker--
	}
	markerEnd := marker
	for marker > lineStart && (source[marker-1] == '`' || source[marker-1] == '~') {
		marker--
	}
	if marker == markerEnd {
		return fence{}, false
	}
	markerChar := source[marker]
	markerLen := markerEnd - marker

	var body strings.Builder
	contentEnd := lineEnd(source, infoStart)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		body.Write(seg.Value(source))
		contentEnd = seg.Stop
	}

	end := contentEnd
	if contentEnd > 0 && contentEnd <= len(source) && source[contentEnd-1] == '\n' {
		end = contentEnd - 1
	}
	if contentEnd < len(source) {
		closing := source[contentEnd:lineEnd(source, contentEnd)]
		closing = bytes.TrimRight(closing, "\r\n")
		if isClosingMarker(closing, markerChar, markerLen) {
			end = contentEnd + len(closing)
		}
	}

	src := strings.ReplaceAll(body.String(), "\r\n", "\n")
	src = strings.TrimSuffix(src, "\n")

	return fence{
		Start:  marker,
		End:    end,
		Prefix: string(source[lineStart:marker]),
		Info:   strings.TrimSpace(string(n.Info.Segment.Value(source))),
		Text:   src,
	}, true
}

// lineEnd returns the offset just past the newline ending the line containing pos.
func lineEnd(source []byte, pos int) int {
	i := bytes.IndexByte(source[pos:], '\n')
	if i < 0 {
		return len(source)
	}
	return pos + i + 1
}

func isClosingMarker(line []byte, c byte, n int) bool {
	trimmed := bytes.TrimLeft(line, " \t>")
	run := 0
	for run < len(trimmed) && trimmed[run] == c {
		run++
	}
	return run >= n && len(bytes.TrimSpace(trimmed[run:])) == 0
}

// parseInfo reads the info string of a fence: either "lang ..." or a pandoc attribute
// block "{.lang #id key=value}", optionally after the language word.
func parseInfo(info string) (diagram.Block, error) {
	var b diagram.Block
	rest := info
	if !strings.HasPrefix(info, "{") {
		word, tail, _ := strings.Cut(info, " ")
		b.Classes = append(b.Classes, word)
		rest = strings.TrimSpace(tail)
		if !strings.HasPrefix(rest, "{") {
			return b, nil
		}
	}

	attrs, ok := parser.ParseAttributes(text.NewReader([]byte(rest)))
	if !ok {
		return b, fmt.Errorf("malformed attribute block %q", rest)
	}
	for _, a := range attrs {
		value := attributeValue(a.Value)
		switch string(a.Name) {
		case "id":
			b.ID = value
		case "class":
			b.Classes = append(b.Classes, strings.Fields(value)...)
		default:
			b.Attributes = append(b.Attributes, diagram.KeyValue{Key: string(a.Name), Value: value})
		}
	}
	return b, nil
}

func attributeValue(v any) string {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case string:
		return x
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
