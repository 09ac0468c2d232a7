// Package client is a small HTTP client for the posts JSON API. The web
// frontend uses it the same way a browser would: every page load and every
// mutation is a round trip to the API, and the response is the only source
// of truth. Nothing is retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"nextblog/internal/models"
)

// maxErrorBodySize bounds how much of a non-2xx body is read for its
// error message. Successful bodies are decoded as a stream; the list has
// no upper size.
const maxErrorBodySize = 64 << 10

type forwardedForKey struct{}

// WithForwardedFor returns a context whose API requests carry ip as
// X-Forwarded-For.
func WithForwardedFor(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, forwardedForKey{}, ip)
}

// ForwardedFor returns the address set by WithForwardedFor.
func ForwardedFor(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(forwardedForKey{}).(string)
	return ip, ok
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// TransportError wraps network and decoding failures.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("api %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to one posts API base URL (e.g. http://host/api/todos).
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client. A nil httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type listResponse struct {
	Data []models.Post `json:"data"`
}

type getResponse struct {
	Data models.Post `json:"data"`
}

type mutationResponse struct {
	Message string      `json:"message"`
	Todo    models.Post `json:"todo"`
}

type idRequest struct {
	ID string `json:"id"`
}

// ListPosts fetches every post in store order.
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var resp listResponse
	if err := c.do(ctx, "list", http.MethodGet, c.baseURL, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []models.Post{}
	}
	return resp.Data, nil
}

// GetPost fetches a single post by id.
func (c *Client) GetPost(ctx context.Context, id string) (models.Post, error) {
	var resp getResponse
	if err := c.do(ctx, "get", http.MethodGet, c.baseURL+"/"+url.PathEscape(id), nil, &resp); err != nil {
		return models.Post{}, err
	}
	return resp.Data, nil
}

// CreatePost submits a new post and returns the stored record.
func (c *Client) CreatePost(ctx context.Context, p models.NewPost) (models.Post, error) {
	var resp mutationResponse
	if err := c.do(ctx, "create", http.MethodPost, c.baseURL, p, &resp); err != nil {
		return models.Post{}, err
	}
	return resp.Todo, nil
}

// ToggleStar flips the star flag and returns the updated record.
func (c *Client) ToggleStar(ctx context.Context, id string) (models.Post, error) {
	var resp mutationResponse
	if err := c.do(ctx, "toggle star", http.MethodPut, c.baseURL, idRequest{ID: id}, &resp); err != nil {
		return models.Post{}, err
	}
	return resp.Todo, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, c.baseURL, idRequest{ID: id}, nil)
}

// do sends one request and decodes a 2xx body into out (when non-nil).
func (c *Client) do(ctx context.Context, op, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ip, ok := ForwardedFor(ctx); ok {
		req.Header.Set("X-Forwarded-For", ip)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBodySize)).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
