package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var (
	// Year-first dates (2025-04-03) are unambiguous and accepted directly.
	isoDateRE = regexp.MustCompile(`(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})`)

	// Numeric day/month dates (03-04-2025, 3/4/25) need dual interpretation.
	numericDateRE = regexp.MustCompile(`(\d{1,2})[-/.](\d{1,2})[-/.](\d{4}|\d{2})`)

	// Named-month dates (3 April 2025, 03-Apr-2025) are unambiguous.
	namedMonthRE = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)?[ \-]([A-Za-z]{3,9})[,.]?[ \-](\d{4})`)

	clockRE = regexp.MustCompile(`(\d{1,2})[:.](\d{2})(?:[:.]\d{2})?\s*([AaPp]\.?[Mm]\.?)?`)
)

var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ResolveDateTime locates the date- and time-labeled lines in text and
// combines them into a single timestamp at minute precision. ref, when
// non-nil, is an independent timestamp (typically the PDF's creation date)
// consulted only to break a day-first vs month-first tie.
func ResolveDateTime(text string, ref *time.Time) (time.Time, error) {
	dateLine, timeLine := labeledLines(text)
	if dateLine == "" {
		return time.Time{}, &MissingFieldError{Field: "date"}
	}
	if timeLine == "" {
		return time.Time{}, &MissingFieldError{Field: "time"}
	}

	day, err := parseDate(dateLine, ref)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := parseClock(timeLine)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC), nil
}

// labeledLines returns the first line starting with "date" and the first
// starting with "time", case-insensitive. Either may be empty.
func labeledLines(text string) (dateLine, timeLine string) {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.ToLower(strings.TrimSpace(line))
		if dateLine == "" && strings.HasPrefix(trimmed, "date") {
			dateLine = line
		}
		if timeLine == "" && strings.HasPrefix(trimmed, "time") {
			timeLine = line
		}
		if dateLine != "" && timeLine != "" {
			break
		}
	}
	return dateLine, timeLine
}

// parseDate extracts a calendar date from a free-form line. Numeric
// day/month dates are parsed under both the day-first and month-first rule;
// the date is accepted only when the interpretations agree, when exactly one
// is a valid calendar date, or when ref matches one of the candidates.
func parseDate(line string, ref *time.Time) (time.Time, error) {
	if m := isoDateRE.FindStringSubmatch(line); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if d, ok := calendarDate(year, month, day); ok {
			return d, nil
		}
	}

	if m := namedMonthRE.FindStringSubmatch(line); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		key := strings.ToLower(m[2])
		if len(key) > 3 {
			key = key[:3]
		}
		if month, ok := monthsByName[key]; ok {
			if d, ok := calendarDate(year, int(month), day); ok {
				return d, nil
			}
		}
	}

	m := numericDateRE.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, eris.Errorf("extract: no date found in %q", line)
	}
	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}

	dayFirst, dayFirstOK := calendarDate(year, second, first)
	monthFirst, monthFirstOK := calendarDate(year, first, second)

	switch {
	case dayFirstOK && monthFirstOK:
		if dayFirst.Equal(monthFirst) {
			return dayFirst, nil
		}
	case dayFirstOK:
		return dayFirst, nil
	case monthFirstOK:
		return monthFirst, nil
	default:
		return time.Time{}, eris.Errorf("extract: no valid calendar date in %q", line)
	}

	zap.L().Warn("extract: ambiguous date, consulting reference timestamp",
		zap.String("line", strings.TrimSpace(line)),
	)
	if ref != nil {
		refDate := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
		if refDate.Equal(dayFirst) || refDate.Equal(monthFirst) {
			return refDate, nil
		}
	}
	return time.Time{}, &AmbiguousDateError{Line: strings.TrimSpace(line), DayFirst: dayFirst, MonthFirst: monthFirst}
}

// calendarDate builds a date and reports whether year/month/day denote a real
// calendar date (time.Date silently normalizes overflow, so round-trip check).
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// parseClock extracts a clock time from a free-form line. Accepts 24-hour
// and 12-hour with AM/PM markers.
func parseClock(line string) (hour, minute int, err error) {
	m := clockRE.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, &TimeParseError{Line: strings.TrimSpace(line)}
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])

	meridiem := strings.ToUpper(m[3])
	switch {
	case strings.HasPrefix(meridiem, "P") && hour < 12:
		hour += 12
	case strings.HasPrefix(meridiem, "A") && hour == 12:
		hour = 0
	}

	if hour > 23 || minute > 59 {
		return 0, 0, &TimeParseError{Line: strings.TrimSpace(line)}
	}
	return hour, minute, nil
}
