/*
Package flexcore provides the flex-time balance calculation engine.

PURPOSE:
  This package contains the pure calculation core: it turns a raw
  time-tracking export into attendance records and folds those records,
  under a policy, into a single signed overtime balance. It performs no
  I/O, keeps no state between invocations, and never mutates its input,
  so one calculator can be shared across concurrent calculations.

KEY CONCEPTS IN THIS FILE (types.go):
  - AttendanceRecord: One row of the source table (date, category, times)
  - CategoryCode: Tagged category variant (Vacation, FlexDay, Other)
  - Policy: Contracted weekly hours, starting balance, period bounds
  - CalculationResult: Signed minute balance + label + last considered date

DESIGN PRINCIPLES:
  1. Immutability: Records are values; the calculator only reads them
  2. Precision: Policy hours use decimal.Decimal, results are integer minutes
  3. Explicit categories: Known codes are named constants, not magic numbers

USAGE:
  records, err := flexcore.ParseTable(raw)
  result, err := flexcore.NewCalculator().Calculate(records, policy)

SEE ALSO:
  - parse.go: Table parser
  - accrual.go: Accrual strategies (weekly walk, daily quota)
  - calculator.go: Result assembly and label rendering
*/
package flexcore

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORY CODE - Closed set of known attendance categories
// =============================================================================

// CategoryCode is the numeric attendance category extracted from the
// export's free-text label. Two codes carry special meaning; everything
// else passes through as an ordinary working entry.
type CategoryCode int

const (
	// CodeVacation entries are excluded from "last working day" determination.
	CodeVacation CategoryCode = 9001

	// CodeFlexDay entries count as a present day but contribute no worked time.
	CodeFlexDay CategoryCode = 9003
)

func (c CategoryCode) IsVacation() bool { return c == CodeVacation }
func (c CategoryCode) IsFlexDay() bool  { return c == CodeFlexDay }

// =============================================================================
// ATTENDANCE RECORD - One row of the source table
// =============================================================================

type AttendanceRecord struct {
	Date  Day
	Code  CategoryCode
	Start ClockTime
	End   ClockTime
}

// WorkedMinutes returns the record's contribution to worked time.
// Flex days are present days without a working time range.
func (r AttendanceRecord) WorkedMinutes() int {
	if r.Code.IsFlexDay() {
		return 0
	}
	return MinutesBetween(r.Start, r.End)
}

// =============================================================================
// POLICY - Immutable configuration for one calculation run
// =============================================================================

type Policy struct {
	// WeeklyHours is the contracted hours per 7-day period.
	WeeklyHours decimal.Decimal

	// StartingBalanceHours is a signed offset applied once to the final
	// result, carrying account state from before the earliest record.
	StartingBalanceHours decimal.Decimal

	// PeriodStart/PeriodEnd are inclusive bounds narrowing which records
	// are considered. A zero Day leaves that side unbounded.
	PeriodStart Day
	PeriodEnd   Day
}

var (
	sixty = decimal.NewFromInt(60)
	five  = decimal.NewFromInt(5)
)

// WeeklyQuotaMinutes is the expected minutes per full week.
func (p Policy) WeeklyQuotaMinutes() decimal.Decimal {
	return p.WeeklyHours.Mul(sixty)
}

// DailyQuotaMinutes is one contracted day: a fifth of the weekly quota.
func (p Policy) DailyQuotaMinutes() decimal.Decimal {
	return p.WeeklyQuotaMinutes().Div(five)
}

// StartingBalanceMinutes rounds the starting offset to whole minutes.
func (p Policy) StartingBalanceMinutes() int {
	return int(p.StartingBalanceHours.Mul(sixty).Round(0).IntPart())
}

// Considers reports whether a date falls inside the policy's period bounds.
func (p Policy) Considers(d Day) bool {
	if !p.PeriodStart.IsZero() && d.Before(p.PeriodStart) {
		return false
	}
	if !p.PeriodEnd.IsZero() && d.After(p.PeriodEnd) {
		return false
	}
	return true
}

// =============================================================================
// CALCULATION RESULT
// =============================================================================

type CalculationResult struct {
	// BalanceMinutes is the accumulated overtime (positive) or undertime
	// (negative) in minutes, including the starting balance offset.
	BalanceMinutes int

	// BalanceLabel is the human-readable rendering, e.g. "-1h 15min".
	BalanceLabel string

	// LastConsideredDate is the latest non-vacation date folded into
	// the balance.
	LastConsideredDate Day
}
