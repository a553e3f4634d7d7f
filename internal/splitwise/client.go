// Package splitwise is a minimal client for the parts of the Splitwise
// REST API that the transfer flow needs.
package splitwise

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the public Splitwise API endpoint.
const DefaultBaseURL = "https://secure.splitwise.com/api"

// Client is an HTTP client for the Splitwise API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Splitwise client. The API key is sent as a bearer token
// on every request.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, target any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
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

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("splitwise: %s returned status %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// CurrentUser fetches the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var response currentUserResponse
	if err := c.get(ctx, "/v3.0/get_current_user", nil, &response); err != nil {
		return User{}, err
	}

	return response.User, nil
}

// Friend fetches the details of a single friend.
func (c *Client) Friend(ctx context.Context, id int64) (Friend, error) {
	var response friendResponse
	if err := c.get(ctx, "/v3.0/get_friend/"+strconv.FormatInt(id, 10), nil, &response); err != nil {
		return Friend{}, err
	}

	return response.Friend, nil
}

// Friends fetches all friends of the authenticated user.
func (c *Client) Friends(ctx context.Context) ([]Friend, error) {
	var response friendsResponse
	if err := c.get(ctx, "/v3.0/get_friends", nil, &response); err != nil {
		return nil, err
	}

	return response.Friends, nil
}

// Expenses fetches one page of expenses shared with a friend, most
// recent first. Paging is offset based, the page order is preserved
// as sent by Splitwise.
func (c *Client) Expenses(ctx context.Context, friendID int64, limit, offset int) ([]Expense, error) {
	query := url.Values{
		"friend_id": {strconv.FormatInt(friendID, 10)},
		"limit":     {strconv.Itoa(limit)},
		"offset":    {strconv.Itoa(offset)},
	}

	var response expensesResponse
	if err := c.get(ctx, "/v3.0/get_expenses", query, &response); err != nil {
		return nil, err
	}

	return response.Expenses, nil
}
