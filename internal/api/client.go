// Package api is the REST client for the durable canvas store. The realtime
// channel handles live operations; this client covers snapshot fetches and
// the dashboard operations (list, create, delete, share).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"CollabCanvas/internal/realtime"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

// Canvas is one stored whiteboard with its metadata and element snapshot.
type Canvas struct {
	CanvasID      string              `json:"canvasId"`
	Name          string              `json:"name"`
	Owner         string              `json:"owner"`
	Collaborators []string            `json:"collaborators"`
	Data          realtime.CanvasData `json:"data"`
	IsPublic      bool                `json:"isPublic"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastModified  time.Time           `json:"lastModified"`
}

// apiError is the store's failure body.
type apiError struct {
	Message string `json:"message"`
}

// Client talks to the store at baseURL, authenticating every request with a
// bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// Canvas fetches one canvas, snapshot included.
func (c *Client) Canvas(ctx context.Context, canvasID string) (Canvas, error) {
	var out Canvas
	err := c.do(ctx, http.MethodGet, "/canvas/"+canvasID, nil, &out)
	return out, err
}

// Snapshot fetches just the element snapshot, in the shape the sync
// coordinator hydrates from.
func (c *Client) Snapshot(ctx context.Context, canvasID string) (realtime.CanvasData, error) {
	cv, err := c.Canvas(ctx, canvasID)
	return cv.Data, err
}

// Canvases lists every canvas the token's user owns or collaborates on.
func (c *Client) Canvases(ctx context.Context) ([]Canvas, error) {
	var out []Canvas
	err := c.do(ctx, http.MethodGet, "/canvas", nil, &out)
	return out, err
}

// CreateCanvas makes a new empty canvas.
func (c *Client) CreateCanvas(ctx context.Context, name string) (Canvas, error) {
	var out Canvas
	err := c.do(ctx, http.MethodPost, "/canvas", map[string]string{"name": name}, &out)
	return out, err
}

// DeleteCanvas removes a canvas. Only the owner may delete.
func (c *Client) DeleteCanvas(ctx context.Context, canvasID string) error {
	return c.do(ctx, http.MethodDelete, "/canvas/"+canvasID, nil, nil)
}

// AddCollaborator shares a canvas with another user by email.
func (c *Client) AddCollaborator(ctx context.Context, canvasID, email string) (Canvas, error) {
	var out Canvas
	err := c.do(ctx, http.MethodPost, "/canvas/"+canvasID+"/collaborators",
		map[string]string{"email": email}, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encoding body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var fail apiError
		if json.NewDecoder(resp.Body).Decode(&fail) == nil && fail.Message != "" {
			return fmt.Errorf("%s %s: %s (%d)", method, path, fail.Message, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	return nil
}
