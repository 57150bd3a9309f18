// Package client talks to the tax consultancy API: the public site endpoints,
// sign-in and the admin resources.
//
// Every response is decoded from the API envelope. A non-2xx status or an
// envelope with success=false comes back as *APIError. Requests are never
// retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds each request made with the default HTTP client
const DefaultTimeout = 30 * time.Second

// Client is safe for concurrent use
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithToken starts the client with an access token
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a client for the API rooted at baseURL, e.g.
// "https://example.com/api/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token sent with every request. An empty token
// sends none.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// FieldError names one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Pagination describes one page of a list
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Envelope is the body of every API response
type Envelope[T any] struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message"`
	Data       T            `json:"data"`
	Code       string       `json:"code"`
	Errors     []FieldError `json:"errors"`
	Pagination *Pagination  `json:"pagination"`
}

// Page is one page of a list endpoint
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// APIError is a request the API refused
type APIError struct {
	Status  int
	Code    string
	Message string
	Errors  []FieldError
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// ErrorMessage returns the message the API sent with err, or fallback when err
// is not an API error or carries no message.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// request is one call to the API
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, in any) (request, error) {
	req := request{method: method, path: path}
	if in == nil {
		return req, nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return req, fmt.Errorf("encode request: %w", err)
	}
	req.body = bytes.NewReader(data)
	req.contentType = "application/json"
	return req, nil
}

// call sends req and decodes the envelope's data as T
func call[T any](ctx context.Context, c *Client, req request) (*Envelope[T], error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, req.body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if token := c.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env Envelope[T]
	decodeErr := json.Unmarshal(raw, &env)
	if resp.StatusCode >= http.StatusBadRequest || (decodeErr == nil && !env.Success) {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if decodeErr == nil {
			apiErr.Code = env.Code
			apiErr.Errors = env.Errors
			if env.Message != "" {
				apiErr.Message = env.Message
			}
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response of %s %s: %w", req.method, req.path, decodeErr)
	}
	return &env, nil
}

// Session is the result of a sign-in
type Session struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  User      `json:"user"`
}

// User is an admin account
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// Login signs in and keeps the access token for later requests
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	env, err := call[Session](ctx, c, req)
	if err != nil {
		return nil, err
	}
	c.SetToken(env.Data.AccessToken)
	return &env.Data, nil
}

// Logout revokes the current token and forgets it
func (c *Client) Logout(ctx context.Context) error {
	req, _ := jsonRequest(http.MethodPost, "/auth/logout", nil)
	if _, err := call[json.RawMessage](ctx, c, req); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

// Me returns the signed-in account
func (c *Client) Me(ctx context.Context) (*User, error) {
	req, _ := jsonRequest(http.MethodGet, "/auth/me", nil)
	env, err := call[User](ctx, c, req)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Upload stores a file through the admin upload endpoint and returns its URL
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	return c.UploadTo(ctx, "", name, r)
}

// UploadTo is Upload into folder; an empty folder uses the server default
func (c *Client) UploadTo(ctx context.Context, folder, name string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if folder != "" {
		if err := mw.WriteField("folder", folder); err != nil {
			return "", err
		}
	}
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	env, err := call[string](ctx, c, request{
		method:      http.MethodPost,
		path:        "/admin/uploads",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return "", err
	}
	return env.Data, nil
}
