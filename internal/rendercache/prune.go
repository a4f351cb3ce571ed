package rendercache

import (
	"context"
	"errors"
	"fmt"
	"os"

	"git.home.luguber.info/inful/docdiagram/internal/fingerprint"
	"git.home.luguber.info/inful/docdiagram/internal/logfields"
)

// Prune removes every cached diagram whose fingerprint is not in keep: its source
// file and all rendered files. With dryRun nothing is deleted. The affected entries
// are returned.
func (c *Cache) Prune(ctx context.Context, keep map[fingerprint.Fingerprint]bool, dryRun bool) ([]Entry, error) {
	entries, err := c.List()
	if err != nil {
		return nil, fmt.Errorf("list cache: %w", err)
	}

	var removed []Entry
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if keep[e.Fingerprint] {
			continue
		}
		removed = append(removed, e)
		if dryRun {
			continue
		}
		for _, path := range append([]string{e.Source}, e.Artifacts...) {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return removed, fmt.Errorf("remove %s: %w", path, err)
			}
		}
		c.logger.Debug("Pruned cached diagram", logfields.Fingerprint(string(e.Fingerprint)))
	}
	return removed, nil
}
