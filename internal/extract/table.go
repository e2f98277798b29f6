package extract

import (
	"regexp"
	"strings"

	"github.com/sells-group/fx-ratekeeper/internal/model"
)

// Source PDFs are inconsistently spaced: there may be no whitespace at all
// between the currency code, the slash, and the first rate value. \s* absorbs
// every variant.
var currencyLineRE = regexp.MustCompile(`([A-Z]{3})\s*/\s*INR\s*((?:\d+(?:\.\d+)?\s?)+)`)

// ParseRateTable scans page text for currency rate lines and returns one
// observation per matching line, in document order. The numeric tokens are
// captured as-is; the count is not validated here. Lines that do not match
// are skipped, and an empty result is valid.
func ParseRateTable(text string) []model.RateObservation {
	var out []model.RateObservation
	for _, line := range strings.Split(text, "\n") {
		m := currencyLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, model.RateObservation{
			Currency: m[1],
			Rates:    strings.Fields(m[2]),
		})
	}
	return out
}
