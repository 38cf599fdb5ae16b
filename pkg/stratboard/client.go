// Package stratboard provides a typed Go client for the stratboard
// HTTP API: template catalog browsing, forking, validation, trade
// analytics, and backtest metric interpretation.
package stratboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stratboard/internal/util"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to a stratboard server.
type Client struct {
	baseURL    string
	httpClient *http.Client

	maxAttempts int
	retryDelay  time.Duration
}

// NewClient creates a client for the server at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxAttempts: 3,
		retryDelay:  500 * time.Millisecond,
	}
}

// do issues one request and decodes the JSON response into out.
// Network errors and 5xx responses are retried with backoff; 4xx
// responses fail immediately as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody []byte
	if body != nil {
		var err error
		if reqBody, err = json.Marshal(body); err != nil {
			return fmt.Errorf("marshalling request body: %w", err)
		}
	}

	var apiErr *APIError
	err := util.Retry(ctx, c.maxAttempts, c.retryDelay, func() error {
		var r io.Reader
		if reqBody != nil {
			r = bytes.NewReader(reqBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
		if err != nil {
			return err
		}
		if reqBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			var e struct {
				Error string `json:"error"`
			}
			json.NewDecoder(resp.Body).Decode(&e)
			apiErr = &APIError{Status: resp.StatusCode, Message: e.Error}
			return nil
		}

		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
	if err != nil {
		return err
	}
	if apiErr != nil {
		return apiErr
	}
	return nil
}

// ---------------------------------------------------------------------------
// Templates
// ---------------------------------------------------------------------------

// ListTemplates retrieves templates matching the filter.
func (c *Client) ListTemplates(ctx context.Context, filter TemplateFilter) (*TemplateList, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Risk != "" {
		q.Set("risk", filter.Risk)
	}
	if filter.Difficulty != "" {
		q.Set("difficulty", filter.Difficulty)
	}
	if filter.Capital > 0 {
		q.Set("capital", strconv.FormatFloat(filter.Capital, 'f', -1, 64))
	}
	if len(filter.Tags) > 0 {
		q.Set("tags", strings.Join(filter.Tags, ","))
		if filter.MatchAll {
			q.Set("matchAll", "true")
		}
	}
	if filter.Sort != "" {
		q.Set("sort", filter.Sort)
		if filter.Order != "" {
			q.Set("order", filter.Order)
		}
	}

	path := "/api/templates"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out TemplateList
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTemplate retrieves one template with derived metrics.
func (c *Client) GetTemplate(ctx context.Context, id string) (*Template, error) {
	var out Template
	if err := c.do(ctx, http.MethodGet, "/api/templates/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportTemplate retrieves the shareable configuration of a template
// as raw JSON.
func (c *Client) ExportTemplate(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/templates/"+url.PathEscape(id)+"/export", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Forks
// ---------------------------------------------------------------------------

// ForkTemplate creates a personal copy of a template with the given
// overrides applied, and returns it with its validation result.
func (c *Client) ForkTemplate(ctx context.Context, id string, overrides Overrides) (*ForkResult, error) {
	var out ForkResult
	if err := c.do(ctx, http.MethodPost, "/api/templates/"+url.PathEscape(id)+"/fork", overrides, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListForks retrieves all persisted forks, newest first.
func (c *Client) ListForks(ctx context.Context) (*ForkList, error) {
	var out ForkList
	if err := c.do(ctx, http.MethodGet, "/api/forks", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFork retrieves one persisted fork.
func (c *Client) GetFork(ctx context.Context, id string) (*Template, error) {
	var out Template
	if err := c.do(ctx, http.MethodGet, "/api/forks/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFork removes a persisted fork.
func (c *Client) DeleteFork(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/forks/"+url.PathEscape(id), nil, nil)
}

// ---------------------------------------------------------------------------
// Validation and summary
// ---------------------------------------------------------------------------

// ValidateTemplate runs server-side validation on a template.
func (c *Client) ValidateTemplate(ctx context.Context, t *Template) (*ValidationResult, error) {
	var out ValidationResult
	if err := c.do(ctx, http.MethodPost, "/api/validate", t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSummary retrieves catalog-wide counts and statistics.
func (c *Client) GetSummary(ctx context.Context) (*Summary, error) {
	var out Summary
	if err := c.do(ctx, http.MethodGet, "/api/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------------------------------------------------------------------------
// Analytics and interpretation
// ---------------------------------------------------------------------------

// Analyze submits trades for aggregation and returns the snapshot.
func (c *Client) Analyze(ctx context.Context, trades []Trade) (*Snapshot, error) {
	var out Snapshot
	if err := c.do(ctx, http.MethodPost, "/api/analytics", trades, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StoredAnalytics aggregates the trades the server has on record for
// [from, to]. Zero times fall back to the server default range.
func (c *Client) StoredAnalytics(ctx context.Context, from, to time.Time) (*Snapshot, error) {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		q.Set("to", to.Format("2006-01-02"))
	}
	path := "/api/analytics"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out Snapshot
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Interpret rates the given backtest metrics into qualitative bands.
func (c *Client) Interpret(ctx context.Context, m Metrics) (*Interpretation, error) {
	q := url.Values{}
	set := func(name string, v *float64) {
		if v != nil {
			q.Set(name, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	set("sharpe", m.Sharpe)
	set("sortino", m.Sortino)
	set("drawdown", m.Drawdown)
	set("profitFactor", m.ProfitFactor)

	var out Interpretation
	if err := c.do(ctx, http.MethodGet, "/api/interpret?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EquityCurve computes a cumulative-equity series from monthly returns.
func (c *Client) EquityCurve(ctx context.Context, monthly []MonthlyReturn, initialCapital float64) ([]EquityPoint, error) {
	req := struct {
		MonthlyReturns []MonthlyReturn `json:"monthlyReturns"`
		InitialCapital float64         `json:"initialCapital"`
	}{monthly, initialCapital}

	var out struct {
		Points []EquityPoint `json:"points"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/equity-curve", req, &out); err != nil {
		return nil, err
	}
	return out.Points, nil
}
