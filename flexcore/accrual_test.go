package flexcore_test

import (
	"testing"

	"github.com/warp/flextime/flexcore"
)

// =============================================================================
// HOLIDAY INFERENCE (weekly strategy)
// =============================================================================

func TestWeeklyAccrual_EmptyWeekday_ReducesQuotaByOneDay(t *testing.T) {
	// GIVEN: Mon, Tue, Thu, Fri worked 8h; Wednesday has no record
	// WHEN: Accruing with the weekly strategy
	// THEN: Wednesday is an inferred holiday, quota shrinks by 480 min
	//       and the week lands exactly on zero

	records := []flexcore.AttendanceRecord{
		rec("03.01.2022", 1000, "08:00", "16:00"),
		rec("04.01.2022", 1000, "08:00", "16:00"),
		rec("06.01.2022", 1000, "08:00", "16:00"),
		rec("07.01.2022", 1000, "08:00", "16:00"),
	}

	balance := flexcore.WeeklyAccrual{}.Accrue(records, fortyHourPolicy())
	if !balance.IsZero() {
		t.Errorf("expected zero balance, got %s", balance)
	}
}

func TestWeeklyAccrual_EmptyWeekend_NoQuotaReduction(t *testing.T) {
	// GIVEN: A full Mon-Fri week; Sat and Sun have no records
	// WHEN: Accruing with the weekly strategy
	// THEN: The empty weekend days do not shrink the quota

	balance := flexcore.WeeklyAccrual{}.Accrue(fullWeek("08:00", "16:00"), fortyHourPolicy())
	if !balance.IsZero() {
		t.Errorf("expected zero balance, got %s", balance)
	}
}

func TestWeeklyAccrual_VacationOnlyInput_ZeroBalance(t *testing.T) {
	// With no non-vacation record the walk has no defined end.
	records := []flexcore.AttendanceRecord{
		rec("03.01.2022", flexcore.CodeVacation, "00:00", "00:00"),
	}

	balance := flexcore.WeeklyAccrual{}.Accrue(records, fortyHourPolicy())
	if !balance.IsZero() {
		t.Errorf("expected zero balance, got %s", balance)
	}
}

// =============================================================================
// STRATEGY DIVERGENCE
// =============================================================================

func TestStrategies_AgreeOnFullWeek(t *testing.T) {
	// GIVEN: An ordinary full Mon-Fri week
	// THEN: Both strategies yield +150 minutes

	records := fullWeek("08:00", "16:30")
	policy := fortyHourPolicy()

	weekly := flexcore.WeeklyAccrual{}.Accrue(records, policy)
	daily := flexcore.DailyQuotaAccrual{}.Accrue(records, policy)

	if !weekly.Equal(daily) {
		t.Fatalf("expected agreement, weekly=%s daily=%s", weekly, daily)
	}
	if weekly.IntPart() != 150 {
		t.Errorf("expected +150, got %s", weekly)
	}
}

func TestStrategies_DivergeOnWeekendOnlyWeek(t *testing.T) {
	// GIVEN: A week whose only entry is Saturday 08:00-12:00 (240 min)
	// WHEN: Accruing with both strategies
	// THEN: The weekly walk treats Mon-Fri as inferred holidays (+240),
	//       the daily quota charges the Saturday group a full day (-240).
	//       The divergence is intentional; the engine documents and keeps
	//       the weekly model as its primary.

	records := []flexcore.AttendanceRecord{
		rec("08.01.2022", 1000, "08:00", "12:00"),
	}
	policy := fortyHourPolicy()

	weekly := flexcore.WeeklyAccrual{}.Accrue(records, policy)
	daily := flexcore.DailyQuotaAccrual{}.Accrue(records, policy)

	if weekly.IntPart() != 240 {
		t.Errorf("weekly: expected +240, got %s", weekly)
	}
	if daily.IntPart() != -240 {
		t.Errorf("daily: expected -240, got %s", daily)
	}
}

func TestDailyQuotaAccrual_StopsAfterLastWorkingRecord(t *testing.T) {
	// GIVEN: A worked Monday followed by vacation rows in input order
	// WHEN: Accruing with the daily quota strategy
	// THEN: The trailing vacation rows are ignored entirely

	withVacation := []flexcore.AttendanceRecord{
		rec("03.01.2022", 1000, "08:00", "16:30"),
		rec("04.01.2022", flexcore.CodeVacation, "08:00", "16:00"),
		rec("05.01.2022", flexcore.CodeVacation, "08:00", "16:00"),
	}
	onlyWorking := withVacation[:1]
	policy := fortyHourPolicy()

	got := flexcore.DailyQuotaAccrual{}.Accrue(withVacation, policy)
	want := flexcore.DailyQuotaAccrual{}.Accrue(onlyWorking, policy)

	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}
