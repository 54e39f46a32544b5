package flexcore

import "fmt"

// =============================================================================
// CALCULATOR - Records + policy -> balance
// =============================================================================

// Calculator folds attendance records into a CalculationResult. The zero
// strategy defaults to WeeklyAccrual; the per-week walk with holiday
// inference is the documented primary model for this engine.
type Calculator struct {
	Strategy AccrualStrategy
}

func NewCalculator() *Calculator {
	return &Calculator{Strategy: WeeklyAccrual{}}
}

// Calculate computes the flex-time balance for the given records under the
// given policy. The input is never mutated; calling twice with the same
// arguments yields the same result.
func (c *Calculator) Calculate(records []AttendanceRecord, policy Policy) (CalculationResult, error) {
	considered := filterPeriod(records, policy)
	if len(considered) == 0 {
		return CalculationResult{}, fmt.Errorf("no records in period: %w", ErrEmptyTable)
	}

	strategy := c.Strategy
	if strategy == nil {
		strategy = WeeklyAccrual{}
	}

	raw := strategy.Accrue(considered, policy)
	minutes := int(raw.Round(0).IntPart()) + policy.StartingBalanceMinutes()

	return CalculationResult{
		BalanceMinutes:     minutes,
		BalanceLabel:       FormatBalance(minutes),
		LastConsideredDate: lastWorkingDate(considered),
	}, nil
}

// filterPeriod narrows records to the policy's inclusive period bounds.
func filterPeriod(records []AttendanceRecord, policy Policy) []AttendanceRecord {
	considered := make([]AttendanceRecord, 0, len(records))
	for _, r := range records {
		if policy.Considers(r.Date) {
			considered = append(considered, r)
		}
	}
	return considered
}

// lastWorkingDate returns the latest date among non-vacation records.
// Input order does not matter.
func lastWorkingDate(records []AttendanceRecord) Day {
	var last Day
	for _, r := range records {
		if r.Code.IsVacation() {
			continue
		}
		if last.IsZero() || r.Date.After(last) {
			last = r.Date
		}
	}
	return last
}

// =============================================================================
// LABEL RENDERING
// =============================================================================

// FormatBalance renders a minute balance as a compact label: "-1h 15min",
// "2h", "45min", "0min". Negative balances carry a "-" prefix; non-negative
// balances carry no sign. The hour part is omitted at zero hours, the
// minute part only when hours are shown and minutes are zero.
func FormatBalance(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	hours, mins := minutes/60, minutes%60

	switch {
	case hours > 0 && mins == 0:
		return fmt.Sprintf("%s%dh", sign, hours)
	case hours > 0:
		return fmt.Sprintf("%s%dh %dmin", sign, hours, mins)
	default:
		return fmt.Sprintf("%s%dmin", sign, mins)
	}
}
