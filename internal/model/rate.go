// Package model defines the data types shared across the extraction pipeline.
package model

import "time"

// Timestamp formats used throughout the series store. Minute precision.
const (
	DateFormat      = "2006-01-02"
	TimestampFormat = "2006-01-02 15:04"
)

// RateColumns is the fixed rate table schema, in column order. Both
// extraction paths are validated against it: the text path by position,
// the vision path by comparing the headers the model reports.
var RateColumns = []string{
	"TT BUY",
	"TT SELL",
	"BILL BUY",
	"BILL SELL",
	"FOREX TRAVEL CARD BUY",
	"FOREX TRAVEL CARD SELL",
	"CN BUY",
	"CN SELL",
}

// SeriesHeader returns the persisted CSV header: DATE, PDF FILE, then the
// rate columns.
func SeriesHeader() []string {
	return append([]string{"DATE", "PDF FILE"}, RateColumns...)
}

// RateObservation is one extracted currency line: the 3-letter code and the
// rate values exactly as they appeared, positionally matching RateColumns.
type RateObservation struct {
	Currency string
	Rates    []string
}

// ExtractionSource tags which pipeline path produced an Extraction.
type ExtractionSource string

const (
	SourceText   ExtractionSource = "text"
	SourceVision ExtractionSource = "vision"
)

// Extraction is the normalized output of one successful extraction pass.
// The shape is identical regardless of which path produced it.
type Extraction struct {
	Timestamp time.Time
	Source    ExtractionSource
	Rates     []RateObservation
}
