// Package series maintains the per-currency CSV time series and the PDF
// archive they are derived from.
package series

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fx-ratekeeper/internal/model"
)

// Writer merges extractions into one CSV file per currency.
type Writer struct {
	dir        string
	archiveDir string
	baseURL    string
}

// NewWriter creates a Writer. dir holds the CSV series, archiveDir the
// archived PDFs, and baseURL is the public prefix used to build provenance
// links into the archive.
func NewWriter(dir, archiveDir, baseURL string) *Writer {
	return &Writer{dir: dir, archiveDir: archiveDir, baseURL: baseURL}
}

func (w *Writer) seriesFile(currency string) string {
	return filepath.Join(w.dir, fmt.Sprintf("SBI_REFERENCE_RATES_%s.csv", currency))
}

// Merge folds an extraction into every affected currency series. A row with
// the same timestamp replaces the existing one, so re-processing a PDF is
// idempotent and corrections win. Each file is rewritten in full, sorted by
// timestamp ascending.
func (w *Writer) Merge(ex *model.Extraction) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return eris.Wrap(err, "series: create series dir")
	}

	link := w.ArchiveLink(ex.Timestamp)
	ts := ex.Timestamp.Format(model.TimestampFormat)

	for _, obs := range ex.Rates {
		row := append([]string{ts, link}, obs.Rates...)
		if err := w.mergeCurrency(obs.Currency, row); err != nil {
			return eris.Wrapf(err, "series: merge %s", obs.Currency)
		}
	}
	return nil
}

func (w *Writer) mergeCurrency(currency string, row []string) error {
	path := w.seriesFile(currency)

	rows, err := w.Load(currency)
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range rows {
		if len(existing) > 0 && existing[0] == row[0] {
			rows[i] = row
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ti, erri := time.Parse(model.TimestampFormat, rows[i][0])
		tj, errj := time.Parse(model.TimestampFormat, rows[j][0])
		if erri != nil || errj != nil {
			return rows[i][0] < rows[j][0]
		}
		return ti.Before(tj)
	})

	return w.writeFile(path, rows)
}

// Load reads the rows of a currency series, excluding the header. A missing
// file yields nil rows and no error.
func (w *Writer) Load(currency string) ([][]string, error) {
	f, err := os.Open(w.seriesFile(currency))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "series: open %s", currency)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "series: read %s", currency)
	}
	if len(all) <= 1 {
		return nil, nil
	}
	return all[1:], nil
}

// writeFile rewrites a series file atomically via a temp file in the same
// directory.
func (w *Writer) writeFile(path string, rows [][]string) error {
	tmp, err := os.CreateTemp(w.dir, ".series-*.csv")
	if err != nil {
		return eris.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	cw := csv.NewWriter(tmp)
	if err := cw.Write(model.SeriesHeader()); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrap(err, "write header")
	}
	if err := cw.WriteAll(rows); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrap(err, "write rows")
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrap(err, "flush rows")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "close temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return eris.Wrap(err, "rename temp file")
	}
	return nil
}
