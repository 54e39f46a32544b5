/*
accrual.go - Accrual strategy implementations

PURPOSE:
  Implements AccrualStrategy for the two quota models observed in the
  domain. They agree on ordinary full weeks but diverge near period
  boundaries and for weeks holding only weekend entries, so the choice is
  explicit and both stay testable side by side.

STRATEGIES:
  WeeklyAccrual (default):
    Walks every calendar day from the Monday on/before the earliest record
    through the Sunday on/after the last non-vacation record. A weekday
    without records is an inferred holiday and shrinks that week's quota
    by one contracted day. Each Sunday the week closes and contributes
    (worked - expected) to the balance.

  DailyQuotaAccrual:
    Consumes records in input order, grouping consecutive rows by date.
    Every date present in the input is charged a flat fifth of the weekly
    quota; absent weekdays never form a group, so there is no holiday
    inference. Processing stops after the last non-vacation record.

SEE ALSO:
  - calculator.go: Applies the starting balance and renders the result
*/
package flexcore

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccrualStrategy folds attendance records into a raw signed minute
// balance, before the starting-balance offset is applied.
type AccrualStrategy interface {
	Accrue(records []AttendanceRecord, policy Policy) decimal.Decimal

	// Name identifies the strategy in run records and API responses.
	Name() string
}

// =============================================================================
// WEEKLY ACCRUAL - Calendar-week walk with holiday inference
// =============================================================================

type WeeklyAccrual struct{}

func (WeeklyAccrual) Name() string { return "weekly" }

func (WeeklyAccrual) Accrue(records []AttendanceRecord, policy Policy) decimal.Decimal {
	first, last, ok := walkBounds(records)
	if !ok {
		return decimal.Zero
	}
	byDate := groupByDate(records)

	balance := decimal.Zero
	expected := policy.WeeklyQuotaMinutes()
	worked := decimal.Zero

	for day := first; day.BeforeOrEqual(last); day = day.AddDays(1) {
		recs := byDate[day]
		if len(recs) == 0 {
			if !day.IsWeekend() {
				// Inferred holiday: one contracted day off this week's quota.
				expected = expected.Sub(policy.DailyQuotaMinutes())
			}
		} else {
			for _, r := range recs {
				worked = worked.Add(decimal.NewFromInt(int64(r.WorkedMinutes())))
			}
		}

		if day.Weekday() == time.Sunday {
			balance = balance.Add(worked.Sub(expected))
			expected = policy.WeeklyQuotaMinutes()
			worked = decimal.Zero
		}
	}
	return balance
}

// walkBounds returns the Monday on/before the earliest record and the
// Sunday on/after the latest non-vacation record. ok is false when the
// input holds no non-vacation record, leaving the walk undefined.
func walkBounds(records []AttendanceRecord) (first, last Day, ok bool) {
	var earliest, lastWorking Day
	for _, r := range records {
		if earliest.IsZero() || r.Date.Before(earliest) {
			earliest = r.Date
		}
		if r.Code.IsVacation() {
			continue
		}
		if lastWorking.IsZero() || r.Date.After(lastWorking) {
			lastWorking = r.Date
		}
	}
	if lastWorking.IsZero() {
		return Day{}, Day{}, false
	}
	return earliest.StartOfWeek(), lastWorking.EndOfWeek(), true
}

func groupByDate(records []AttendanceRecord) map[Day][]AttendanceRecord {
	byDate := make(map[Day][]AttendanceRecord, len(records))
	for _, r := range records {
		byDate[r.Date] = append(byDate[r.Date], r)
	}
	return byDate
}

// =============================================================================
// DAILY QUOTA ACCRUAL - Flat per-date quota, input order
// =============================================================================

type DailyQuotaAccrual struct{}

func (DailyQuotaAccrual) Name() string { return "daily-quota" }

func (DailyQuotaAccrual) Accrue(records []AttendanceRecord, policy Policy) decimal.Decimal {
	// The last non-vacation record marks the end of processing; anything
	// after it in the input is ignored.
	end := -1
	for i, r := range records {
		if !r.Code.IsVacation() {
			end = i
		}
	}
	if end < 0 {
		return decimal.Zero
	}
	records = records[:end+1]

	daily := policy.DailyQuotaMinutes()
	balance := decimal.Zero
	daySum := decimal.Zero
	var current Day

	closeDay := func() {
		if current.IsZero() {
			return
		}
		balance = balance.Add(daySum.Sub(daily))
	}

	for _, r := range records {
		if !r.Date.Equal(current) {
			closeDay()
			current = r.Date
			daySum = decimal.Zero
		}
		daySum = daySum.Add(decimal.NewFromInt(int64(r.WorkedMinutes())))
	}
	closeDay()

	return balance
}
