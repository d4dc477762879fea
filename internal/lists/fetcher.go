package lists

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
)

// maxBodyBytes caps how much of a list response is read.
const maxBodyBytes = 4 << 20

// Fetcher retrieves the raw JSON document at url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client}
}

// Fetch issues a GET and returns the body of a 200 response. Every
// failure wraps common.ErrNetwork.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %w", common.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %w", common.ErrNetwork, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d on %q", common.ErrNetwork, resp.StatusCode, url)
	}
	return body, nil
}
