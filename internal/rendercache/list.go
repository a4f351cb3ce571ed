package rendercache

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docdiagram/internal/fingerprint"
)

// Entry summarizes one cached diagram.
type Entry struct {
	Fingerprint fingerprint.Fingerprint
	Source      string
	// Artifacts holds every rendered file for the fingerprint across all formats, sorted.
	Artifacts []string
}

// List returns one entry per stored diagram source, sorted by fingerprint.
func (c *Cache) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	srcExt := "." + c.source.Ext
	var files []string
	var entries []Entry
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, srcExt) {
			entries = append(entries, Entry{
				Fingerprint: fingerprint.Fingerprint(strings.TrimSuffix(name, srcExt)),
				Source:      filepath.Join(c.dir, name),
			})
			continue
		}
		files = append(files, name)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Fingerprint < entries[j].Fingerprint })
	sort.Strings(files)

	for i := range entries {
		fp := string(entries[i].Fingerprint)
		for _, name := range files {
			if strings.HasPrefix(name, fp) {
				entries[i].Artifacts = append(entries[i].Artifacts, filepath.Join(c.dir, name))
			}
		}
	}
	return entries, nil
}
