package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const httpTimeout = 30 * time.Second

// HTTPFetcher talks to the adapter service over HTTP. The adapter owns all
// scraping; this client only moves the normalized AdapterJob JSON across
// the wire and translates status codes into the fetch error taxonomy.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher constructs a fetcher for the adapter service at baseURL.
func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// Fetch asks the adapter for the posting at postingURL. A 404 means the
// page was reachable but held no job; that surfaces as nil, nil.
func (f *HTTPFetcher) Fetch(ctx context.Context, postingURL string) (*AdapterJob, error) {
	params := url.Values{}
	params.Set("url", postingURL)
	reqURL := f.baseURL + "/fetch?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return nil, nil
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: adapter returned %d", ErrInvalidURL, resp.StatusCode)
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusBadGateway:
		return nil, fmt.Errorf("%w: adapter returned %d", ErrBlocked, resp.StatusCode)
	default:
		return nil, fmt.Errorf("adapter returned %d: %s", resp.StatusCode, string(body))
	}

	var job AdapterJob
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &job, nil
}
