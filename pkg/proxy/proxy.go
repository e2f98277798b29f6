// Package proxy acquires throwaway HTTP proxies from a public proxy list.
// The bank portal geo-blocks and throttles repeat downloaders, so direct
// fetches are retried through rotating proxies.
package proxy

import (
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultListURL = "https://api.proxyscrape.com/v2/?request=displayproxies&protocol=http&timeout=1000&anonymity=elite&ssl=yes"

// Provider supplies proxy URLs for outbound requests.
type Provider interface {
	// Acquire fetches a fresh proxy. Each call may return a different one.
	Acquire(ctx context.Context) (*url.URL, error)
}

// Option configures the list client.
type Option func(*listClient)

// WithListURL overrides the default proxy list endpoint.
func WithListURL(u string) Option {
	return func(c *listClient) {
		c.listURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *listClient) {
		c.http = hc
	}
}

// listClient implements Provider against a newline-delimited host:port list.
type listClient struct {
	listURL string
	http    *http.Client
}

// NewListProvider creates a Provider backed by a public proxy list endpoint.
func NewListProvider(opts ...Option) Provider {
	c := &listClient{
		listURL: defaultListURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *listClient) Acquire(ctx context.Context) (*url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.listURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "proxy: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "proxy: fetch list")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "proxy: read list")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("proxy: unexpected status %d from list endpoint", resp.StatusCode)
	}

	var candidates []string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		candidates = append(candidates, line)
	}
	if len(candidates) == 0 {
		return nil, eris.New("proxy: list endpoint returned no proxies")
	}

	pick := candidates[rand.IntN(len(candidates))]
	if !strings.Contains(pick, "://") {
		pick = "http://" + pick
	}

	u, err := url.Parse(pick)
	if err != nil {
		return nil, eris.Wrapf(err, "proxy: bad proxy entry %q", pick)
	}
	return u, nil
}
