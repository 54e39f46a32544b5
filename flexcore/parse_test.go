package flexcore_test

import (
	"errors"
	"testing"

	"github.com/warp/flextime/flexcore"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

const header = "Datum;Kategorie;A;B;C;D;Von;Bis\n"

func row(date, label, start, end string) string {
	return date + ";" + label + ";;;;;" + start + ";" + end + "\n"
}

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestParseTable_HeaderDiscardedUnconditionally(t *testing.T) {
	// GIVEN: A first line that would itself parse as a valid row
	// WHEN: Parsing the table
	// THEN: Only the second line becomes a record

	raw := row("03.01.2022", "1000 Normal", "08:00", "16:30") +
		row("04.01.2022", "1000 Normal", "08:00", "16:30")

	records, err := flexcore.ParseTable(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if got := records[0].Date.String(); got != "04.01.2022" {
		t.Errorf("expected 04.01.2022, got %s", got)
	}
}

func TestParseTable_SkipsTrailingBlankAndShortLines(t *testing.T) {
	// GIVEN: An export with trailing blank lines and a malformed row
	// WHEN: Parsing the table
	// THEN: Bad rows are skipped, good rows survive

	raw := header +
		row("03.01.2022", "1000 Normal", "08:00", "16:30") +
		"05.01.2022;too;few;columns\n" +
		"\n" +
		"\n"

	records, err := flexcore.ParseTable(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestParseTable_EmptyInput_ReturnsEmptyTableError(t *testing.T) {
	for _, raw := range []string{"", header, header + "\n\n"} {
		_, err := flexcore.ParseTable(raw)
		if !errors.Is(err, flexcore.ErrEmptyTable) {
			t.Errorf("raw %q: expected ErrEmptyTable, got %v", raw, err)
		}
	}
}

func TestParseTable_CRLFLineEndings(t *testing.T) {
	raw := "header\r\n" + "03.01.2022;1000 Normal;;;;;08:00;16:30\r\n"

	records, err := flexcore.ParseTable(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].End != (flexcore.ClockTime{Hour: 16, Minute: 30}) {
		t.Errorf("unexpected end time: %+v", records[0].End)
	}
}

func TestParseTable_BlankTimesOnNonWorkingCategories(t *testing.T) {
	// GIVEN: Vacation and flex-day rows exported without a time range
	// WHEN: Parsing the table
	// THEN: The rows survive as present days with zero worked minutes;
	//       working rows still need times

	raw := header +
		row("03.01.2022", "9003 Gleittag", "", "") +
		row("04.01.2022", "Urlaub(9001)", "", "") +
		row("05.01.2022", "1000 Normal", "", "")

	records, err := flexcore.ParseTable(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Code != flexcore.CodeFlexDay || records[0].WorkedMinutes() != 0 {
		t.Errorf("unexpected flex-day record: %+v", records[0])
	}
	if records[1].Code != flexcore.CodeVacation || records[1].WorkedMinutes() != 0 {
		t.Errorf("unexpected vacation record: %+v", records[1])
	}
}

func TestParseTable_UnparseableDateOrTime_RowSkipped(t *testing.T) {
	raw := header +
		row("2022-01-03", "1000 Normal", "08:00", "16:30") + // wrong date format
		row("04.01.2022", "1000 Normal", "late", "16:30") + // bad start time
		row("05.01.2022", "1000 Normal", "08:00", "16:30")

	records, err := flexcore.ParseTable(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

// =============================================================================
// CATEGORY CODE EXTRACTION TESTS
// =============================================================================

func TestExtractCategoryCode_DigitOnly(t *testing.T) {
	cases := []struct {
		label string
		want  flexcore.CategoryCode
	}{
		{"9001 Urlaub", 9001},
		{"Urlaub(9001)", 9001},
		{"9003 Gleittag", 9003},
		{"10-00 Normal", 1000}, // digit groups concatenate
		{"42", 42},
	}

	for _, tc := range cases {
		got, ok := flexcore.ExtractCategoryCode(tc.label)
		if !ok {
			t.Errorf("label %q: extraction failed", tc.label)
			continue
		}
		if got != tc.want {
			t.Errorf("label %q: expected %d, got %d", tc.label, tc.want, got)
		}
	}
}

func TestExtractCategoryCode_NoDigits_Fails(t *testing.T) {
	if _, ok := flexcore.ExtractCategoryCode("Urlaub"); ok {
		t.Error("expected extraction to fail for label without digits")
	}
}
