// Package client is a typed HTTP client for the blog API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"modernblog/app/models"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the blog API rooted at BaseURL, e.g. http://localhost:5000/api.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client. A nil httpClient gets one with a 10 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ListPosts returns every post, newest first
func (c *Client) ListPosts(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := c.do(ctx, http.MethodGet, "/posts", nil, &posts)
	return posts, err
}

func (c *Client) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CreatePost(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/posts", req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost sends only the non-nil fields of patch
func (c *Client) UpdatePost(ctx context.Context, id string, patch *models.PostPatch) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPut, "/posts/"+url.PathEscape(id), patch, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, nil)
}

// AddComment appends a comment and returns the whole updated post
func (c *Client) AddComment(ctx context.Context, postID string, req *models.CreateCommentRequest) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/comments", req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeleteComment removes a comment and returns the whole updated post
func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) (*models.Post, error) {
	var post models.Post
	path := "/posts/" + url.PathEscape(postID) + "/comments/" + url.PathEscape(commentID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) Search(ctx context.Context, query string) ([]*models.Post, error) {
	var posts []*models.Post
	err := c.do(ctx, http.MethodGet, "/posts/search/"+url.PathEscape(query), nil, &posts)
	return posts, err
}

func (c *Client) ByCategory(ctx context.Context, category string) ([]*models.Post, error) {
	var posts []*models.Post
	err := c.do(ctx, http.MethodGet, "/posts/category/"+url.PathEscape(category), nil, &posts)
	return posts, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
