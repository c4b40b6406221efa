// Package monday provides a client for the monday.com GraphQL API.
package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/insights-cli/internal/resilience"
)

// Client defines the monday.com operations used by the insights agent.
type Client interface {
	// Boards lists the boards the token can see.
	Boards(ctx context.Context) ([]Board, error)
	// BoardByName finds a board by exact (case-insensitive) name.
	BoardByName(ctx context.Context, name string) (*Board, error)
	// BoardItems fetches every item on a board, following cursor pagination.
	BoardItems(ctx context.Context, boardID string) ([]Item, error)
}

// Board is a monday.com board.
type Board struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"items_count"`
}

// Item is one board item with its column values unwrapped: column title to
// raw value (string, number, or nil). No normalization happens here; raw
// means raw.
type Item struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Columns map[string]any `json:"columns"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom API URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithAPIVersion overrides the API-Version request header.
func WithAPIVersion(version string) Option {
	return func(c *httpClient) {
		c.apiVersion = version
	}
}

// WithRateLimit sets a per-second rate limit for API calls. A burst equal
// to the integer portion of rps is allowed.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// WithRetry overrides the retry configuration.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// pageSize is the items_page limit per request.
const pageSize = 100

type httpClient struct {
	token      string
	baseURL    string
	apiVersion string
	http       *http.Client
	limiter    *rate.Limiter
	retry      resilience.RetryConfig
}

// NewClient creates a monday.com client authenticated with the given token.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:      token,
		baseURL:    "https://api.monday.com/v2",
		apiVersion: "2024-01",
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retry: resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// graphQLError is one entry of a GraphQL errors array.
type graphQLError struct {
	Message string `json:"message"`
}

// execute posts a GraphQL query and decodes the data payload into out.
func (c *httpClient) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	if c.token == "" {
		return eris.New("monday: API token is required")
	}

	payload := map[string]any{"query": query}
	if len(variables) > 0 {
		payload["variables"] = variables
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "monday: marshal request")
	}

	cfg := c.retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger("monday", "graphql")
	}

	data, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (json.RawMessage, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "monday: rate limit wait")
			}
		}
		return c.post(ctx, body)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "monday: decode response")
	}
	return nil
}

func (c *httpClient) post(ctx context.Context, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "monday: build request")
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("API-Version", c.apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "monday: http post")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "monday: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("monday: unexpected status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, eris.Wrap(err, "monday: decode envelope")
	}
	if len(envelope.Errors) > 0 {
		return nil, eris.Errorf("monday: API error: %s", envelope.Errors[0].Message)
	}
	return envelope.Data, nil
}

const boardsQuery = `query Boards($limit: Int!) {
	boards(limit: $limit) {
		id
		name
		items_count
	}
}`

// Boards lists all boards accessible to the token.
func (c *httpClient) Boards(ctx context.Context) ([]Board, error) {
	var out struct {
		Boards []Board `json:"boards"`
	}
	if err := c.execute(ctx, boardsQuery, map[string]any{"limit": 200}, &out); err != nil {
		return nil, err
	}
	return out.Boards, nil
}

// BoardByName finds a board by case-insensitive name match.
func (c *httpClient) BoardByName(ctx context.Context, name string) (*Board, error) {
	boards, err := c.Boards(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range boards {
		if strings.EqualFold(b.Name, name) {
			return &b, nil
		}
	}
	return nil, nil
}

const itemsQuery = `query BoardItems($boardId: [ID!], $limit: Int!, $cursor: String) {
	boards(ids: $boardId) {
		items_page(limit: $limit, cursor: $cursor) {
			cursor
			items {
				id
				name
				column_values {
					text
					value
					column {
						title
					}
				}
			}
		}
	}
}`

type rawColumnValue struct {
	Text   *string `json:"text"`
	Value  *string `json:"value"`
	Column struct {
		Title string `json:"title"`
	} `json:"column"`
}

type rawItem struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	ColumnValues []rawColumnValue `json:"column_values"`
}

// BoardItems fetches all items on a board, following the items_page cursor
// until exhausted.
func (c *httpClient) BoardItems(ctx context.Context, boardID string) ([]Item, error) {
	var items []Item
	cursor := ""

	for {
		variables := map[string]any{
			"boardId": []string{boardID},
			"limit":   pageSize,
		}
		if cursor != "" {
			variables["cursor"] = cursor
		}

		var out struct {
			Boards []struct {
				ItemsPage struct {
					Cursor *string   `json:"cursor"`
					Items  []rawItem `json:"items"`
				} `json:"items_page"`
			} `json:"boards"`
		}
		if err := c.execute(ctx, itemsQuery, variables, &out); err != nil {
			return nil, err
		}
		if len(out.Boards) == 0 {
			return nil, eris.Errorf("monday: board %s not found", boardID)
		}

		page := out.Boards[0].ItemsPage
		for _, ri := range page.Items {
			items = append(items, convertItem(ri))
		}

		if page.Cursor == nil || *page.Cursor == "" {
			break
		}
		cursor = *page.Cursor
	}

	zap.L().Debug("monday: fetched board items",
		zap.String("board_id", boardID),
		zap.Int("count", len(items)),
	)
	return items, nil
}

// convertItem unwraps column values into a title-keyed map. monday encodes
// typed columns as a JSON value blob; the display text wins when present,
// then the blob's text or label field, then the raw blob string.
func convertItem(ri rawItem) Item {
	item := Item{
		ID:      ri.ID,
		Name:    ri.Name,
		Columns: make(map[string]any, len(ri.ColumnValues)),
	}
	for _, cv := range ri.ColumnValues {
		title := cv.Column.Title
		if title == "" {
			continue
		}
		item.Columns[title] = columnValue(cv)
	}
	return item
}

func columnValue(cv rawColumnValue) any {
	if cv.Text != nil && *cv.Text != "" {
		return *cv.Text
	}
	if cv.Value == nil || *cv.Value == "" || *cv.Value == "null" {
		return nil
	}

	// Typed columns arrive as a JSON object; prefer its text/label.
	val := *cv.Value
	if strings.HasPrefix(val, "{") {
		var blob map[string]any
		if err := json.Unmarshal([]byte(val), &blob); err == nil {
			if s, ok := blob["text"].(string); ok && s != "" {
				return s
			}
			if s, ok := blob["label"].(string); ok && s != "" {
				return s
			}
		}
		return val
	}

	var scalar any
	if err := json.Unmarshal([]byte(val), &scalar); err == nil {
		return scalar
	}
	return val
}
