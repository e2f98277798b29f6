// Package fetcher downloads remote documents over HTTP with per-host rate
// limiting, retry on transient failures, and optional proxy routing.
package fetcher

import (
	"context"
	"net/url"
)

// Fetcher defines the interface for downloading remote documents.
type Fetcher interface {
	// Download fetches the URL and returns the full response body.
	Download(ctx context.Context, url string) ([]byte, error)

	// DownloadViaProxy fetches the URL through the given HTTP proxy. No
	// retries are performed; callers rotate proxies on failure instead.
	DownloadViaProxy(ctx context.Context, url string, proxy *url.URL) ([]byte, error)
}
