package pinning

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher retrieves pinned content through the public gateway. Content is
// immutable once pinned, so a fetch either succeeds or the gateway is
// unreachable; there is no staleness to reason about.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// GatewayFetcher implements Fetcher over plain HTTP.
type GatewayFetcher struct {
	http *resty.Client
}

// NewGatewayFetcher builds a gateway fetcher with the given timeout.
func NewGatewayFetcher(timeout time.Duration) *GatewayFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GatewayFetcher{http: resty.New().SetTimeout(timeout)}
}

// Fetch downloads the content behind a gateway URL.
func (f *GatewayFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode())
	}

	return resp.Body(), nil
}
