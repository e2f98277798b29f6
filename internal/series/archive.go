package series

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fx-ratekeeper/internal/model"
)

// archivePath returns the relative archive location for a rate timestamp:
// <year>/<month>/<YYYY-MM-DD>.pdf with the month unpadded. The layout
// predates this tool and existing provenance links depend on it.
func archivePath(ts time.Time) string {
	return filepath.Join(
		fmt.Sprintf("%d", ts.Year()),
		fmt.Sprintf("%d", int(ts.Month())),
		ts.Format(model.DateFormat)+".pdf",
	)
}

// Archive stores the PDF under the year/month layout, overwriting any
// earlier capture for the same date.
func (w *Writer) Archive(ts time.Time, content []byte) (string, error) {
	rel := archivePath(ts)
	full := filepath.Join(w.archiveDir, rel)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", eris.Wrap(err, "series: create archive dir")
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return "", eris.Wrapf(err, "series: write archive %s", rel)
	}
	return full, nil
}

// ArchiveLink builds the public provenance URL for the archived PDF of a
// rate timestamp.
func (w *Writer) ArchiveLink(ts time.Time) string {
	return fmt.Sprintf("%s/%d/%d/%s.pdf",
		w.baseURL, ts.Year(), int(ts.Month()), ts.Format(model.DateFormat))
}
