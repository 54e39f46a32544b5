/*
Package source defines the boundary to the export download collaborator.

PURPOSE:
  The calculation core is a pure function over a text table; something else
  (in production, browser automation driving the time-tracking system) is
  responsible for depositing that table as a file. This package only cares
  about the agreed contract: exactly one readable export at a known
  location. How the file was produced, renamed or deduplicated is not the
  engine's concern.

ABSENCE IS NOT FAILURE:
  Before the first download there is simply no export yet. Fetch returns
  flexcore.ErrSourceUnavailable for that state so callers can surface an
  absent result instead of an error.
*/
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/warp/flextime/flexcore"
)

// Source delivers the raw attendance export.
type Source interface {
	// Fetch returns the raw table text. When no export has been
	// deposited yet, the error wraps flexcore.ErrSourceUnavailable.
	Fetch(ctx context.Context) (string, error)
}

// =============================================================================
// DIRECTORY SOURCE
// =============================================================================

// DirSource reads the newest export matching Pattern inside Dir. Browsers
// deduplicate repeated downloads as "export (1).csv", "export (2).csv" and
// so on; taking the newest modification time picks the live copy without
// caring about the suffix scheme.
type DirSource struct {
	Dir     string
	Pattern string // glob, defaults to "*.csv"
}

func (s DirSource) Fetch(ctx context.Context) (string, error) {
	pattern := s.Pattern
	if pattern == "" {
		pattern = "*.csv"
	}

	matches, err := filepath.Glob(filepath.Join(s.Dir, pattern))
	if err != nil {
		return "", fmt.Errorf("bad export pattern %q: %w", pattern, err)
	}

	var newest string
	var newestMod time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest, newestMod = m, info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no export in %s: %w", s.Dir, flexcore.ErrSourceUnavailable)
	}

	data, err := os.ReadFile(newest)
	if err != nil {
		return "", fmt.Errorf("read export %s: %w", newest, err)
	}
	return string(data), nil
}

// =============================================================================
// STATIC SOURCE (tests, one-shot runs)
// =============================================================================

// Static is a Source that always returns the same text.
type Static string

func (s Static) Fetch(ctx context.Context) (string, error) {
	if s == "" {
		return "", flexcore.ErrSourceUnavailable
	}
	return string(s), nil
}
