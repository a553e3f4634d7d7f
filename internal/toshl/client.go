// Package toshl is a minimal client for the parts of the Toshl REST API
// that the transfer flow needs.
package toshl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public Toshl API endpoint.
const DefaultBaseURL = "https://api.toshl.com"

// referencePageSize caps the reference data and entry list fetches. The
// lists are fetched in one page, not paginated.
const referencePageSize = 500

// Client is an HTTP client for the Toshl API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Toshl client. The API key is sent as a bearer token on
// every request.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, target any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("toshl: %s %s returned status %d: %s", method, path, resp.StatusCode, string(body))
	}

	if target == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// Me fetches the authenticated user.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/me", nil, nil, &user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Categories fetches all categories, including income and deleted ones.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	query := url.Values{"per_page": {fmt.Sprint(referencePageSize)}}

	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/categories", query, nil, &categories); err != nil {
		return nil, err
	}

	return categories, nil
}

// Tags fetches all tags, including income and deleted ones.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	query := url.Values{"per_page": {fmt.Sprint(referencePageSize)}}

	var tags []Tag
	if err := c.do(ctx, http.MethodGet, "/tags", query, nil, &tags); err != nil {
		return nil, err
	}

	return tags, nil
}

// Entries fetches the entries carrying a tag within an inclusive date
// range. The range bounds are in the entry date format (YYYY-MM-DD).
func (c *Client) Entries(ctx context.Context, tagID string, from, to time.Time) ([]Entry, error) {
	query := url.Values{
		"tags":     {tagID},
		"from":     {from.Format("2006-01-02")},
		"to":       {to.Format("2006-01-02")},
		"per_page": {fmt.Sprint(referencePageSize)},
	}

	var entries []Entry
	if err := c.do(ctx, http.MethodGet, "/entries", query, nil, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// CreateEntry creates one entry. There is no retry, a failed creation
// surfaces to the caller.
func (c *Client) CreateEntry(ctx context.Context, entry Entry) error {
	return c.do(ctx, http.MethodPost, "/entries", nil, entry, nil)
}
