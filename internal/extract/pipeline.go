// Package extract turns a rate sheet PDF into a normalized extraction,
// preferring the embedded text layer and falling back to vision when the
// document is a scan.
package extract

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fx-ratekeeper/internal/model"
	"github.com/sells-group/fx-ratekeeper/internal/pdf"
	"github.com/sells-group/fx-ratekeeper/pkg/anthropic"
)

// referenceRateMarker must appear on an early page for the document to be
// treated as a reference rate sheet. Matching is case-insensitive.
const referenceRateMarker = "to be used as reference rates"

// textAttemptPages bounds how many leading pages are scanned for the marker
// on the text path. The rate table has never appeared past page 2.
const textAttemptPages = 2

// Options configures the extraction pipeline.
type Options struct {
	VisionModel string
	MaxTokens   int64
}

// Pipeline extracts rate tables from PDFs. The llm client may be nil, in
// which case the vision fallback is unavailable and text-path failures are
// terminal.
type Pipeline struct {
	pdf  pdf.Toolkit
	llm  anthropic.Client
	opts Options
}

// NewPipeline creates a Pipeline.
func NewPipeline(toolkit pdf.Toolkit, llm anthropic.Client, opts Options) *Pipeline {
	if opts.VisionModel == "" {
		opts.VisionModel = "claude-haiku-4-5-20251001"
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 4096
	}
	return &Pipeline{pdf: toolkit, llm: llm, opts: opts}
}

// Run extracts the rate table from the PDF at path. The text layer is tried
// first; any text-path failure triggers the vision fallback.
func (p *Pipeline) Run(ctx context.Context, path string) (*model.Extraction, error) {
	ex, err := p.textAttempt(ctx, path)
	if err == nil {
		return ex, nil
	}

	zap.L().Warn("text extraction failed, falling back to vision",
		zap.String("path", path),
		zap.Error(err),
	)
	return p.visionAttempt(ctx, path)
}

func (p *Pipeline) textAttempt(ctx context.Context, path string) (*model.Extraction, error) {
	pages, err := p.pdf.PageCount(ctx, path)
	if err != nil {
		return nil, err
	}
	if pages == 0 {
		return nil, eris.Errorf("extract: %s has no pages", path)
	}

	scanPages := textAttemptPages
	if pages < scanPages {
		scanPages = pages
	}

	// The date and time header is always on page 1; the rate table lives on
	// whichever early page carries the reference rate disclosure.
	var firstPage, markerPage string
	for n := 1; n <= scanPages; n++ {
		text, err := p.pdf.PageText(ctx, path, n)
		if err != nil {
			return nil, err
		}
		if n == 1 {
			firstPage = text
		}
		if markerPage == "" && strings.Contains(strings.ToLower(text), referenceRateMarker) {
			markerPage = text
		}
	}
	if markerPage == "" {
		return nil, eris.Errorf("extract: reference rate marker not found in first %d pages of %s", scanPages, path)
	}

	var ref *time.Time
	if created, ok, err := p.pdf.CreationDate(ctx, path); err == nil && ok {
		ref = &created
	} else if err != nil {
		zap.L().Warn("could not read PDF creation date",
			zap.String("path", path),
			zap.Error(err),
		)
	}

	ts, err := ResolveDateTime(firstPage, ref)
	if err != nil {
		return nil, err
	}

	rates := ParseRateTable(markerPage)
	if len(rates) == 0 {
		return nil, eris.Errorf("extract: no currency rate lines in text layer of %s", path)
	}

	return &model.Extraction{
		Timestamp: ts,
		Source:    model.SourceText,
		Rates:     rates,
	}, nil
}
