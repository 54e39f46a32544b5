/*
Package factory provides JSON to Go policy conversion.

PURPOSE:
  Converts a JSON policy document into a typed flexcore.Policy. The schema
  (what fields exist) is the PolicyJSON struct; the defaults (what happens
  when the file is missing) live separately in DefaultPolicyJSON, so the
  configuration file never doubles as its own schema.

JSON SCHEMA:
  {
    "weekly_hours": 40,
    "starting_balance_hours": -1.25,
    "period_start": "01.01.2022",
    "period_end": "yesterday"
  }

RELATIVE DATES:
  period_start/period_end accept "yesterday", "today" and "tomorrow" in
  addition to DD.MM.YYYY. Resolution to concrete dates happens here, before
  the calculation core runs; the core only ever sees resolved days.

USAGE:
  f := factory.NewPolicyFactory()
  policy, doc, err := f.Load("policy.json") // missing file => defaults

SEE ALSO:
  - flexcore/types.go: The typed Policy consumed by the calculator
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/flextime/flexcore"
)

// =============================================================================
// SCHEMA AND DEFAULTS
// =============================================================================

// PolicyJSON is the on-disk policy document.
type PolicyJSON struct {
	WeeklyHours          float64 `json:"weekly_hours"`
	StartingBalanceHours float64 `json:"starting_balance_hours"`
	PeriodStart          string  `json:"period_start,omitempty"`
	PeriodEnd            string  `json:"period_end,omitempty"`
}

// DefaultPolicyJSON is the fallback document used when no policy file
// exists yet: a 40-hour week with no starting balance and no period bounds.
func DefaultPolicyJSON() PolicyJSON {
	return PolicyJSON{WeeklyHours: 40}
}

// =============================================================================
// FACTORY
// =============================================================================

type PolicyFactory struct {
	// Now returns the current day; overridable for tests.
	Now func() flexcore.Day
}

func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{Now: flexcore.Today}
}

// Build validates a document and produces the typed policy.
func (f *PolicyFactory) Build(doc PolicyJSON) (flexcore.Policy, error) {
	if doc.WeeklyHours <= 0 {
		return flexcore.Policy{}, fmt.Errorf("weekly_hours must be positive, got %v", doc.WeeklyHours)
	}

	start, err := f.resolveDate(doc.PeriodStart)
	if err != nil {
		return flexcore.Policy{}, fmt.Errorf("period_start: %w", err)
	}
	end, err := f.resolveDate(doc.PeriodEnd)
	if err != nil {
		return flexcore.Policy{}, fmt.Errorf("period_end: %w", err)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return flexcore.Policy{}, fmt.Errorf("period_end %s before period_start %s", end, start)
	}

	return flexcore.Policy{
		WeeklyHours:          decimal.NewFromFloat(doc.WeeklyHours),
		StartingBalanceHours: decimal.NewFromFloat(doc.StartingBalanceHours),
		PeriodStart:          start,
		PeriodEnd:            end,
	}, nil
}

// resolveDate turns a document date into a concrete Day. Empty means
// unbounded; the relative tokens resolve against the factory clock.
func (f *PolicyFactory) resolveDate(s string) (flexcore.Day, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return flexcore.Day{}, nil
	case "yesterday":
		return f.now().AddDays(-1), nil
	case "today":
		return f.now(), nil
	case "tomorrow":
		return f.now().AddDays(1), nil
	}
	return flexcore.ParseDay(strings.TrimSpace(s))
}

func (f *PolicyFactory) now() flexcore.Day {
	if f.Now != nil {
		return f.Now()
	}
	return flexcore.Today()
}

// =============================================================================
// FILE LOADING
// =============================================================================

// Load reads and builds the policy at path. A missing file is not an
// error: the defaults apply until a policy is saved.
func (f *PolicyFactory) Load(path string) (flexcore.Policy, PolicyJSON, error) {
	doc := DefaultPolicyJSON()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// fall through to defaults
	case err != nil:
		return flexcore.Policy{}, doc, fmt.Errorf("read policy file: %w", err)
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return flexcore.Policy{}, doc, fmt.Errorf("parse policy file: %w", err)
		}
	}

	policy, err := f.Build(doc)
	return policy, doc, err
}

// Save writes the policy document back to disk.
func Save(path string, doc PolicyJSON) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
