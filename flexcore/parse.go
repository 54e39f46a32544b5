package flexcore

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// TABLE PARSER - Semicolon-delimited export to attendance records
// =============================================================================

// Column positions are fixed by the export convention. Columns 2-5 carry
// descriptive data the engine does not use.
const (
	colDate     = 0
	colCategory = 1
	colStart    = 6
	colEnd      = 7

	minColumns = 8
)

// ParseTable turns a raw export into attendance records. The first line is
// a header and is discarded regardless of content. Rows that do not reach
// the minimum column count or whose date/time fields fail to parse are
// skipped, so trailing blank lines never break the calculation. Returns
// ErrEmptyTable when no usable rows remain.
func ParseTable(raw string) ([]AttendanceRecord, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}

	var records []AttendanceRecord
	for _, line := range lines {
		rec, ok := parseRow(line)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("parse table: %w", ErrEmptyTable)
	}
	return records, nil
}

func parseRow(line string) (AttendanceRecord, bool) {
	cols := strings.Split(line, ";")
	if len(cols) < minColumns {
		return AttendanceRecord{}, false
	}

	date, err := ParseDay(strings.TrimSpace(cols[colDate]))
	if err != nil {
		return AttendanceRecord{}, false
	}
	code, ok := ExtractCategoryCode(cols[colCategory])
	if !ok {
		return AttendanceRecord{}, false
	}
	start, err := parseClockCell(cols[colStart], code)
	if err != nil {
		return AttendanceRecord{}, false
	}
	end, err := parseClockCell(cols[colEnd], code)
	if err != nil {
		return AttendanceRecord{}, false
	}

	return AttendanceRecord{Date: date, Code: code, Start: start, End: end}, true
}

// parseClockCell parses a time cell. Vacation and flex-day rows are often
// exported without a working time range; an empty cell on those rows means
// midnight, so the row still marks its date as present instead of being
// skipped and read as an inferred holiday.
func parseClockCell(cell string, code CategoryCode) (ClockTime, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" && (code.IsVacation() || code.IsFlexDay()) {
		return ClockTime{}, nil
	}
	return ParseClock(cell)
}

// ExtractCategoryCode keeps only the digits of a category label and parses
// them as one integer. "9001 Urlaub" and "Urlaub(9001)" both yield 9001;
// separate digit groups concatenate. Unrecognized codes pass through.
func ExtractCategoryCode(label string) (CategoryCode, bool) {
	var digits strings.Builder
	for _, r := range label {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return CategoryCode(n), true
}
