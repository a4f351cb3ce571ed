package diagram

import (
	"regexp"
	"strconv"
	"strings"
)

// ParseHeaderAttr splits a "level,title" header attribute on the first comma.
// A missing, non-numeric or below-one level becomes 1. Without a comma the whole
// value is the title. With a non-numeric level the part before the comma is dropped.
func ParseHeaderAttr(value string) (level int, title string) {
	head, rest, found := strings.Cut(value, ",")
	if !found {
		return 1, value
	}
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || n < 1 {
		return 1, rest
	}
	return n, rest
}

var whitespaceRun = regexp.MustCompile(`[ \t\n]+`)

// HeaderIdentifier derives the identifier candidate for a generated header.
func HeaderIdentifier(title string) string {
	return whitespaceRun.ReplaceAllString(title, "-")
}
