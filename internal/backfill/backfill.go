// Package backfill re-processes archived rate sheet PDFs into the series
// store, isolating per-file failures so one bad scan cannot halt a batch.
package backfill

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fx-ratekeeper/internal/model"
	"github.com/sells-group/fx-ratekeeper/internal/series"
)

// Extractor produces an extraction from a PDF on disk.
type Extractor interface {
	Run(ctx context.Context, path string) (*model.Extraction, error)
}

// Result summarizes a batch.
type Result struct {
	Processed int
	Failed    int
}

// Runner walks a directory of PDFs and merges each into the series.
type Runner struct {
	extractor Extractor
	writer    *series.Writer
	rearchive bool
}

// NewRunner creates a Runner. When rearchive is true, every processed PDF is
// also copied into the archive layout under its extracted date.
func NewRunner(extractor Extractor, writer *series.Writer, rearchive bool) *Runner {
	return &Runner{extractor: extractor, writer: writer, rearchive: rearchive}
}

// Run processes every .pdf file under dir in lexical order. Extraction or
// merge failures are logged and counted but do not stop the batch; an error
// is returned only when the directory itself cannot be read.
func (r *Runner) Run(ctx context.Context, dir string) (Result, error) {
	paths, err := collectPDFs(dir)
	if err != nil {
		return Result{}, err
	}
	if len(paths) == 0 {
		return Result{}, eris.Errorf("backfill: no PDF files under %s", dir)
	}

	var res Result
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := r.processOne(ctx, path); err != nil {
			res.Failed++
			zap.L().Error("backfill: file failed",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		res.Processed++
	}
	return res, nil
}

func (r *Runner) processOne(ctx context.Context, path string) error {
	ex, err := r.extractor.Run(ctx, path)
	if err != nil {
		return err
	}

	if err := r.writer.Merge(ex); err != nil {
		return err
	}

	if r.rearchive {
		content, err := os.ReadFile(path)
		if err != nil {
			return eris.Wrapf(err, "backfill: read %s", path)
		}
		if _, err := r.writer.Archive(ex.Timestamp, content); err != nil {
			return err
		}
	}

	zap.L().Info("backfill: file merged",
		zap.String("path", path),
		zap.Time("rate_time", ex.Timestamp),
		zap.String("source", string(ex.Source)),
		zap.Int("currencies", len(ex.Rates)),
	)
	return nil
}

// collectPDFs returns every .pdf under dir, recursively, sorted by path.
func collectPDFs(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "backfill: walk %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}
