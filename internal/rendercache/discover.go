package rendercache

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docdiagram/internal/fingerprint"
)

// Artifact is one rendered image file for a fingerprint.
type Artifact struct {
	Fingerprint fingerprint.Fingerprint
	// Suffix is the part of the file stem after the fingerprint, e.g. "_001" for the
	// second page PlantUML writes. It is empty for the unsuffixed file.
	Suffix string
	Format string
	// Path is the cache directory joined with the file name.
	Path string
}

// Name returns the artifact's file name.
func (a Artifact) Name() string { return filepath.Base(a.Path) }

// Discover lists the files named <fp><suffix>.<format> in the cache directory,
// sorted by name. A missing directory yields no artifacts and no error.
func (c *Cache) Discover(fp fingerprint.Fingerprint, format string) ([]Artifact, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	ext := "." + format
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, string(fp)) && strings.HasSuffix(name, ext) && len(name) >= len(fp)+len(ext) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	artifacts := make([]Artifact, 0, len(names))
	for _, name := range names {
		stem := strings.TrimSuffix(name, ext)
		artifacts = append(artifacts, Artifact{
			Fingerprint: fp,
			Suffix:      stem[len(fp):],
			Format:      format,
			Path:        filepath.Join(c.dir, name),
		})
	}
	return artifacts, nil
}
