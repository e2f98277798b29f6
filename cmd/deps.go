package main

import (
	"context"
	"time"

	"github.com/sells-group/fx-ratekeeper/internal/acquire"
	"github.com/sells-group/fx-ratekeeper/internal/extract"
	"github.com/sells-group/fx-ratekeeper/internal/fetcher"
	"github.com/sells-group/fx-ratekeeper/internal/model"
	"github.com/sells-group/fx-ratekeeper/internal/pdf"
	"github.com/sells-group/fx-ratekeeper/internal/series"
	"github.com/sells-group/fx-ratekeeper/internal/store"
	"github.com/sells-group/fx-ratekeeper/pkg/anthropic"
	"github.com/sells-group/fx-ratekeeper/pkg/proxy"
)

// extractor and merger are the seams processSheet depends on; tests provide
// stubs.
type extractor interface {
	Run(ctx context.Context, path string) (*model.Extraction, error)
}

type merger interface {
	Merge(ex *model.Extraction) error
	Archive(ts time.Time, content []byte) (string, error)
}

// buildAcquirer wires the HTTP fetcher and proxy provider from config.
func buildAcquirer() *acquire.Acquirer {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    cfg.Source.UserAgent,
		Timeout:      time.Duration(cfg.Source.TimeoutSecs) * time.Second,
		ProxyTimeout: time.Duration(cfg.Proxy.TimeoutSecs) * time.Second,
		MaxRetries:   cfg.Source.MaxRetries,
		RateLimiters: fetcher.DefaultRateLimiters(),
	})

	var proxyOpts []proxy.Option
	if cfg.Proxy.ListURL != "" {
		proxyOpts = append(proxyOpts, proxy.WithListURL(cfg.Proxy.ListURL))
	}
	provider := proxy.NewListProvider(proxyOpts...)

	return acquire.New(f, provider, acquire.Options{
		PrimaryURL:    cfg.Source.PrimaryURL,
		MirrorURL:     cfg.Source.MirrorURL,
		ProxyAttempts: cfg.Proxy.Attempts,
	})
}

// buildPipeline wires the extraction pipeline. The vision client is only
// constructed when an API key is configured.
func buildPipeline() *extract.Pipeline {
	toolkit := pdf.NewPoppler(pdf.Options{
		PdfToTextPath: cfg.PDF.PdfToTextPath,
		PdfInfoPath:   cfg.PDF.PdfInfoPath,
		PdfToPpmPath:  cfg.PDF.PdfToPpmPath,
		RenderDPI:     cfg.PDF.RenderDPI,
		RenderScaleTo: cfg.PDF.RenderScaleTo,
	})

	var llm anthropic.Client
	if cfg.Anthropic.Key != "" {
		llm = anthropic.NewClient(cfg.Anthropic.Key)
	}

	return extract.NewPipeline(toolkit, llm, extract.Options{
		VisionModel: cfg.Anthropic.VisionModel,
		MaxTokens:   cfg.Anthropic.MaxTokens,
	})
}

func buildWriter() *series.Writer {
	return series.NewWriter(cfg.Series.Dir, cfg.Series.ArchiveDir, cfg.Series.ArchiveBaseURL)
}

// openStore opens and migrates the run history database.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}
