/*
errors.go - Centralized error types for the calculation engine

PURPOSE:
  All engine error values in one place. Callers distinguish "no data yet"
  (an expected operating state) from real calculation failures.

ERROR CATEGORIES:
  1. Source errors - the export could not be obtained at all
  2. Parse errors  - the export was obtained but holds no usable rows

  Malformed rows are NOT errors: the parser recovers locally by skipping
  them, since trailing blank lines are common in real exports.

USAGE:
  Service layers map ErrSourceUnavailable to an absent result:

    if flexcore.IsAbsent(err) {
        return nil, nil // no result yet, not a failure
    }
*/
package flexcore

import "errors"

var (
	// ErrSourceUnavailable is returned when no export table could be read.
	// This is an expected state (e.g. first run before any download) and
	// should surface as an absent result, not a hard failure.
	ErrSourceUnavailable = errors.New("source table unavailable")

	// ErrEmptyTable is returned when the table has a header but no usable
	// data rows. This is a hard failure: the calculation has no
	// well-defined last date.
	ErrEmptyTable = errors.New("table has no data rows")
)

// IsAbsent reports whether the error means "no data yet" rather than a
// calculation failure.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}
