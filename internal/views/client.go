package views

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docsieve/docsieve/internal/types"
)

const savedViewsPath = "/api/saved_views/"

// Client talks to the document server's saved-view resource. It carries
// plain rule lists over JSON and knows nothing of the filter engine's
// structured state.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewClient builds a client for the given server. The token goes out as a
// Token authorization header on every request.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// listPage is one page of the server's paginated list envelope.
type listPage struct {
	Count   int         `json:"count"`
	Next    *string     `json:"next"`
	Results []SavedView `json:"results"`
}

// List fetches all saved views, following pagination links until exhausted.
func (c *Client) List(ctx context.Context) ([]SavedView, error) {
	var views []SavedView

	next := c.baseURL + savedViewsPath
	for next != "" {
		var page listPage
		if err := c.do(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, err
		}
		views = append(views, page.Results...)
		if page.Next == nil {
			break
		}
		next = *page.Next
	}

	return views, nil
}

// Get fetches a single saved view by id.
func (c *Client) Get(ctx context.Context, id uint) (SavedView, error) {
	var v SavedView
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s%s%d/", c.baseURL, savedViewsPath, id), nil, &v)
	return v, err
}

// Create persists a new saved view and returns it with its server id.
func (c *Client) Create(ctx context.Context, v SavedView) (SavedView, error) {
	v.ID = 0
	var created SavedView
	err := c.do(ctx, http.MethodPost, c.baseURL+savedViewsPath, v, &created)
	return created, err
}

// Update replaces an existing saved view.
func (c *Client) Update(ctx context.Context, v SavedView) (SavedView, error) {
	if v.ID == 0 {
		return SavedView{}, fmt.Errorf("update requires a view id")
	}
	var updated SavedView
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s%s%d/", c.baseURL, savedViewsPath, v.ID), v, &updated)
	return updated, err
}

// Delete removes a saved view by id.
func (c *Client) Delete(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s%s%d/", c.baseURL, savedViewsPath, id), nil, nil)
}

// do runs one JSON request/response cycle. Every request carries the auth
// token and a fresh UUIDv7 correlation id for server-side log matching.
func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.Must(uuid.NewV7()).String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, url, types.ErrViewNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d: %w", method, url, resp.StatusCode, types.ErrRemoteStatus)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
