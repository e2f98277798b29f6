// Package acquire obtains the current rate sheet PDF, falling back from the
// primary portal to a mirror and then to rotating proxies.
package acquire

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/sells-group/fx-ratekeeper/internal/pdf"
	"github.com/sells-group/fx-ratekeeper/pkg/proxy"
)

// AcquisitionExhaustedError reports that every source (direct and proxied)
// failed to produce a valid PDF.
type AcquisitionExhaustedError struct {
	Attempts int
}

func (e *AcquisitionExhaustedError) Error() string {
	return fmt.Sprintf("acquire: all sources exhausted after %d proxy attempts", e.Attempts)
}

// Downloader is the subset of the fetcher the acquirer needs.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
	DownloadViaProxy(ctx context.Context, url string, proxy *url.URL) ([]byte, error)
}

// Options configures the acquisition sources.
type Options struct {
	PrimaryURL    string
	MirrorURL     string
	ProxyAttempts int
}

// Acquirer downloads the current rate sheet.
type Acquirer struct {
	fetcher Downloader
	proxies proxy.Provider
	opts    Options
}

// New creates an Acquirer. The proxy provider may be nil, which disables the
// proxied fallback stage.
func New(fetcher Downloader, proxies proxy.Provider, opts Options) *Acquirer {
	if opts.ProxyAttempts == 0 {
		opts.ProxyAttempts = 5
	}
	return &Acquirer{fetcher: fetcher, proxies: proxies, opts: opts}
}

// Latest downloads the current rate sheet, trying the primary URL, then the
// mirror, then the primary through up to ProxyAttempts fresh proxies. It
// returns the PDF bytes and the URL that produced them. The portal sometimes
// answers 200 with an HTML block page, so every response is validated as PDF
// before being accepted.
func (a *Acquirer) Latest(ctx context.Context) ([]byte, string, error) {
	for _, src := range []string{a.opts.PrimaryURL, a.opts.MirrorURL} {
		if src == "" {
			continue
		}
		body, err := a.fetcher.Download(ctx, src)
		if err != nil {
			zap.L().Warn("direct download failed",
				zap.String("url", src),
				zap.Error(err),
			)
			continue
		}
		if !pdf.IsPDF(body) {
			zap.L().Warn("direct download returned non-PDF content",
				zap.String("url", src),
				zap.Int("bytes", len(body)),
			)
			continue
		}
		return body, src, nil
	}

	if a.proxies == nil {
		return nil, "", &AcquisitionExhaustedError{Attempts: 0}
	}

	for attempt := 1; attempt <= a.opts.ProxyAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		p, err := a.proxies.Acquire(ctx)
		if err != nil {
			zap.L().Warn("proxy acquisition failed",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		body, err := a.fetcher.DownloadViaProxy(ctx, a.opts.PrimaryURL, p)
		if err != nil {
			zap.L().Warn("proxied download failed",
				zap.String("proxy", p.Host),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}
		if !pdf.IsPDF(body) {
			zap.L().Warn("proxied download returned non-PDF content",
				zap.String("proxy", p.Host),
				zap.Int("attempt", attempt),
				zap.Int("bytes", len(body)),
			)
			continue
		}
		return body, a.opts.PrimaryURL, nil
	}

	return nil, "", &AcquisitionExhaustedError{Attempts: a.opts.ProxyAttempts}
}
