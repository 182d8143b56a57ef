package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/selection"
)

const defaultTimeout = 30 * time.Second

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type slipsResponse struct {
	Seed  int64        `json:"seed"`
	Slips []model.Slip `json:"slips"`
}

// Fetch builds a report from the server's latest run.
func (c *HTTPClient) Fetch(ctx context.Context, cfg Config) (Report, error) {
	rep := Report{Source: c.baseURL, GeneratedAt: time.Now().UTC()}

	if err := c.get(ctx, "/api/v1/props", nil, &rep.BestProps); err != nil {
		return Report{}, err
	}

	q := url.Values{}
	if cfg.Seed != nil {
		q.Set("seed", strconv.FormatInt(*cfg.Seed, 10))
	}
	if cfg.Preset != "" {
		q.Set("preset", cfg.Preset)
	}
	var slips slipsResponse
	if err := c.get(ctx, "/api/v1/slips", q, &slips); err != nil {
		return Report{}, err
	}
	rep.Seed, rep.Slips = slips.Seed, slips.Slips

	var hc []selection.HotCold
	if err := c.get(ctx, "/api/v1/hotcold", nil, &hc); err != nil {
		return Report{}, err
	}
	rep.HotCold = hc
	return rep, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, q url.Values, v any) error {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s: %d %s", ErrServer, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
