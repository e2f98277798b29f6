package extract

import (
	"fmt"
	"time"

	"github.com/sells-group/fx-ratekeeper/internal/model"
)

// MissingFieldError indicates the date- or time-labeled line was absent from
// the page text.
type MissingFieldError struct {
	Field string // "date" or "time"
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("extract: no line labeled %q found", e.Field)
}

// AmbiguousDateError indicates the day-first and month-first interpretations
// of a date disagree and no reference timestamp settled the tie. The resolver
// never guesses; callers fall back instead.
type AmbiguousDateError struct {
	Line       string
	DayFirst   time.Time
	MonthFirst time.Time
}

func (e *AmbiguousDateError) Error() string {
	return fmt.Sprintf("extract: ambiguous date in %q: %s (day-first) vs %s (month-first)",
		e.Line, e.DayFirst.Format(model.DateFormat), e.MonthFirst.Format(model.DateFormat))
}

// TimeParseError indicates the time-labeled line did not contain a
// recognizable clock time.
type TimeParseError struct {
	Line string
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("extract: unparseable time in %q", e.Line)
}

// ExtractionExhaustedError indicates both the text path and the vision
// fallback failed: no page of the document yielded an accepted rate table.
type ExtractionExhaustedError struct {
	Pages int
}

func (e *ExtractionExhaustedError) Error() string {
	return fmt.Sprintf("extract: none of %d pages yielded reference rates", e.Pages)
}
