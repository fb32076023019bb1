// Package duit is a client for the Duit expense tracker HTTP API.
package duit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "http://localhost:8080/api"

// Client talks to the expense tracker backend.
type Client struct {
	// HTTP is the underlying client. Callers may swap its Transport,
	// e.g. to add request logging.
	HTTP *http.Client

	baseURL string
	token   string
}

// NewClient creates a client for the API at baseURL authenticated with the
// given bearer token. An empty baseURL falls back to the local default.
func NewClient(baseURL, token string) (*Client, error) {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	return &Client{
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		token:   token,
	}, nil
}

// Expense is one recorded expense. Amount is in the minor currency unit
// (whole rupiah); CreatedAt is a UTC instant.
type Expense struct {
	ID          int64     `json:"id"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description,omitempty"`
	CategoryID  int64     `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category groups expenses.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SummaryRecord is one dated amount inside a summary category.
type SummaryRecord struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
}

// SummaryCategory is the per-category slice of the summary report.
type SummaryCategory struct {
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        int64           `json:"total"`
	Records      []SummaryRecord `json:"records"`
}

// SummaryReport is the server-computed spending summary. It is a read-only
// snapshot; nothing in this program mutates it.
type SummaryReport struct {
	TotalAll   int64             `json:"total_all"`
	Categories []SummaryCategory `json:"categories"`
}

// CreateExpenseRequest is the body for creating an expense.
type CreateExpenseRequest struct {
	Amount      int64     `json:"amount"`
	Description string    `json:"description,omitempty"`
	CategoryID  int64     `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// UpdateExpenseRequest carries the changed fields of an expense. Nil fields
// are left untouched by the server.
type UpdateExpenseRequest struct {
	Amount      *int64     `json:"amount,omitempty"`
	Description *string    `json:"description,omitempty"`
	CategoryID  *int64     `json:"category_id,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// ExpenseFilters narrows an expense query. Zero-valued fields are omitted
// from the query string.
type ExpenseFilters struct {
	CategoryID    int64
	MinAmount     int64
	MaxAmount     int64
	CreatedAfter  time.Time
	CreatedBefore time.Time
	Description   string
	SortBy        string
	Order         string
	Limit         int
	Offset        int
}

func (f ExpenseFilters) values() url.Values {
	v := url.Values{}
	if f.CategoryID != 0 {
		v.Set("category_id", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.MinAmount != 0 {
		v.Set("min_amount", strconv.FormatInt(f.MinAmount, 10))
	}
	if f.MaxAmount != 0 {
		v.Set("max_amount", strconv.FormatInt(f.MaxAmount, 10))
	}
	if !f.CreatedAfter.IsZero() {
		v.Set("created_after", f.CreatedAfter.UTC().Format(time.RFC3339))
	}
	if !f.CreatedBefore.IsZero() {
		v.Set("created_before", f.CreatedBefore.UTC().Format(time.RFC3339))
	}
	if f.Description != "" {
		v.Set("description", f.Description)
	}
	if f.SortBy != "" {
		v.Set("sort_by", f.SortBy)
	}
	if f.Order != "" {
		v.Set("order", f.Order)
	}
	if f.Limit != 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset != 0 {
		v.Set("offset", strconv.Itoa(f.Offset))
	}
	return v
}

// IsZero reports whether no filter field is set.
func (f ExpenseFilters) IsZero() bool {
	return len(f.values()) == 0
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: %s (HTTP %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api error: HTTP %d", e.StatusCode)
}

// IsNotFound reports whether err is, or wraps, an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// envelope is the response wrapper the backend uses: {code, status, data}.
// Some endpoints wrap the payload a second time (data.data); unwrap resolves
// that here so nothing downstream sniffs response shapes.
type envelope struct {
	Code    int             `json:"code"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

const maxUnwrapDepth = 2

func unwrap(raw json.RawMessage) json.RawMessage {
	payload := raw
	for range maxUnwrapDepth {
		var inner struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(payload, &inner); err != nil || inner.Data == nil {
			return payload
		}
		payload = inner.Data
	}
	return payload
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return req, nil
}

// do executes req and decodes the payload into out (when out is non-nil).
// Transport failures and non-2xx statuses come back as errors; nothing is
// decoded from a failed response beyond its message.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// a malformed body is tolerated; the status code decides the outcome
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			// some endpoints report the error as a bare string in data
			var s string
			if json.Unmarshal(unwrap(env.Data), &s) == nil {
				msg = s
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}

	payload := unwrap(env.Data)
	if payload == nil {
		// empty data with a 2xx status degrades to the zero value
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decoding response payload: %w", err)
	}

	return nil
}
