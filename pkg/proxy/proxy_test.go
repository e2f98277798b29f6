package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_PicksFromList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("10.0.0.1:8080\n10.0.0.2:3128\n"))
	}))
	defer srv.Close()

	p := NewListProvider(WithListURL(srv.URL))
	u, err := p.Acquire(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "http", u.Scheme)
	assert.Contains(t, []string{"10.0.0.1:8080", "10.0.0.2:3128"}, u.Host)
}

func TestAcquire_KeepsExistingScheme(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("socks5://10.0.0.9:1080\n"))
	}))
	defer srv.Close()

	p := NewListProvider(WithListURL(srv.URL))
	u, err := p.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "socks5", u.Scheme)
}

func TestAcquire_SkipsBlankLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("\n\n  \n10.0.0.1:8080\n\n"))
	}))
	defer srv.Close()

	p := NewListProvider(WithListURL(srv.URL))
	u, err := p.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:8080", u.Host)
}

func TestAcquire_EmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("\n"))
	}))
	defer srv.Close()

	p := NewListProvider(WithListURL(srv.URL))
	_, err := p.Acquire(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no proxies")
}

func TestAcquire_ListEndpointError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewListProvider(WithListURL(srv.URL))
	_, err := p.Acquire(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestNewListProvider_DefaultURL(t *testing.T) {
	p := NewListProvider().(*listClient)
	assert.Equal(t, defaultListURL, p.listURL)
}
