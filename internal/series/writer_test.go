package series

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fx-ratekeeper/internal/model"
)

const testBaseURL = "https://example.com/archive"

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	dir := t.TempDir()
	return NewWriter(filepath.Join(dir, "csv"), filepath.Join(dir, "pdf"), testBaseURL)
}

func extraction(ts time.Time, rates ...model.RateObservation) *model.Extraction {
	return &model.Extraction{Timestamp: ts, Source: model.SourceText, Rates: rates}
}

func usd(vals ...string) model.RateObservation {
	return model.RateObservation{Currency: "USD", Rates: vals}
}

func readSeries(t *testing.T, w *Writer, currency string) [][]string {
	t.Helper()
	f, err := os.Open(w.seriesFile(currency))
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	require.NoError(t, err)
	return all
}

func TestMerge_CreatesFileWithHeader(t *testing.T) {
	w := newTestWriter(t)
	ts := time.Date(2025, 4, 25, 10, 30, 0, 0, time.UTC)

	require.NoError(t, w.Merge(extraction(ts, usd("83.10", "83.90"))))

	all := readSeries(t, w, "USD")
	require.Len(t, all, 2)
	assert.Equal(t, model.SeriesHeader(), all[0])
	assert.Equal(t, "2025-04-25 10:30", all[1][0])
	assert.Equal(t, testBaseURL+"/2025/4/2025-04-25.pdf", all[1][1])
	assert.Equal(t, []string{"83.10", "83.90"}, all[1][2:])
}

func TestMerge_Idempotent(t *testing.T) {
	w := newTestWriter(t)
	ts := time.Date(2025, 4, 25, 10, 30, 0, 0, time.UTC)
	ex := extraction(ts, usd("83.10", "83.90"))

	require.NoError(t, w.Merge(ex))
	require.NoError(t, w.Merge(ex))

	all := readSeries(t, w, "USD")
	assert.Len(t, all, 2, "header plus one row")
}

func TestMerge_ReplacementWins(t *testing.T) {
	w := newTestWriter(t)
	ts := time.Date(2025, 4, 25, 10, 30, 0, 0, time.UTC)

	require.NoError(t, w.Merge(extraction(ts, usd("83.10", "83.90"))))
	require.NoError(t, w.Merge(extraction(ts, usd("83.20", "83.95"))))

	all := readSeries(t, w, "USD")
	require.Len(t, all, 2)
	assert.Equal(t, "83.20", all[1][2])
}

func TestMerge_SortsByTimestamp(t *testing.T) {
	w := newTestWriter(t)
	t1 := time.Date(2025, 4, 25, 10, 30, 0, 0, time.UTC)
	t2 := time.Date(2025, 4, 24, 9, 0, 0, 0, time.UTC)
	t3 := time.Date(2025, 4, 26, 11, 0, 0, 0, time.UTC)

	for _, ts := range []time.Time{t1, t2, t3} {
		require.NoError(t, w.Merge(extraction(ts, usd("1", "2"))))
	}

	all := readSeries(t, w, "USD")
	require.Len(t, all, 4)
	assert.Equal(t, "2025-04-24 09:00", all[1][0])
	assert.Equal(t, "2025-04-25 10:30", all[2][0])
	assert.Equal(t, "2025-04-26 11:00", all[3][0])
}

func TestMerge_MultipleCurrencies(t *testing.T) {
	w := newTestWriter(t)
	ts := time.Date(2025, 4, 25, 10, 30, 0, 0, time.UTC)

	require.NoError(t, w.Merge(extraction(ts,
		usd("83.10", "83.90"),
		model.RateObservation{Currency: "EUR", Rates: []string{"90.20", "91.00"}},
	)))

	assert.FileExists(t, w.seriesFile("USD"))
	assert.FileExists(t, w.seriesFile("EUR"))
}

func TestLoad_MissingFile(t *testing.T) {
	w := newTestWriter(t)
	rows, err := w.Load("JPY")
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestArchive_Layout(t *testing.T) {
	w := newTestWriter(t)
	ts := time.Date(2025, 4, 25, 10, 30, 0, 0, time.UTC)

	path, err := w.Archive(ts, []byte("%PDF-1.4 content"))
	require.NoError(t, err)

	// Month directory is unpadded.
	assert.Equal(t, filepath.Join(w.archiveDir, "2025", "4", "2025-04-25.pdf"), path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 content"), content)
}

func TestArchive_OverwritesSameDate(t *testing.T) {
	w := newTestWriter(t)
	ts := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	_, err := w.Archive(ts, []byte("first"))
	require.NoError(t, err)
	path, err := w.Archive(ts, []byte("second"))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), content)
}

func TestArchiveLink(t *testing.T) {
	w := NewWriter("", "", testBaseURL)
	ts := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, testBaseURL+"/2025/11/2025-11-03.pdf", w.ArchiveLink(ts))
}
