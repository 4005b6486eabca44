// Package api is the client of the budgeting API.
//
// A Client owns a Session, the single bearer credential of the running
// program, and attaches it to every call. Failures are returned as
// *RequestError (the server answered with a non-2xx status), *DecodeError
// (the answer was not the expected JSON) or *NetworkError (no answer at all).
// The client never retries and never swallows an error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the address of a locally running API.
const DefaultBaseURL = "http://localhost:8000/api"

// Client calls the budgeting API on behalf of a Session.
type Client struct {
	baseURL string
	session *Session
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying http client, http.DefaultClient otherwise.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithLogger sets the logger used to trace calls, slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.logger = l } }

// New returns a client of the API at baseURL authenticated by session.
// A nil session is an unauthenticated in-memory session.
func New(baseURL string, session *Session, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if session == nil {
		session = &Session{}
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		session: session,
		http:    http.DefaultClient,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = newLoggingClient(c.http, c.logger)
	return c
}

// Session returns the client's session.
func (c *Client) Session() *Session { return c.session }

// BaseURL returns the API address.
func (c *Client) BaseURL() string { return c.baseURL }

// IsAuthenticated reports whether the client holds a token. It never calls the server.
func (c *Client) IsAuthenticated() bool { return c.session.IsAuthenticated() }

// SetToken replaces and persists the session token.
func (c *Client) SetToken(token string) error { return c.session.SetToken(token) }

// ClearToken forgets the session token.
func (c *Client) ClearToken() error { return c.session.ClearToken() }

// RequestOptions describes a call. The zero value is a GET without query nor body.
type RequestOptions struct {
	Method string
	Query  url.Values
	Body   any // JSON encoded when not nil
	Header http.Header
}

// Request calls endpoint and decodes the JSON answer into out.
//
// The request carries "Content-Type: application/json" and, when the session
// holds a token, "Authorization: Bearer <token>"; opts.Header is applied last
// and may override both. A 204 answer, or a nil out, decodes nothing.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("cannot encode %s %s body: %w", method, endpoint, err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint, opts.Query), body)
	if err != nil {
		return fmt.Errorf("cannot create http request %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)
	for k, vs := range opts.Header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.do(req, endpoint, RequestFailed, out)
}

// Upload posts a single file as a multipart form under the "file" field.
// Only the Authorization header is added; the multipart content type carries its boundary.
func (c *Client) Upload(ctx context.Context, endpoint, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("cannot create multipart form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("cannot read %q: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("cannot create multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(endpoint, nil), &buf)
	if err != nil {
		return fmt.Errorf("cannot create http request POST %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	c.authorize(req)
	return c.do(req, endpoint, UploadFailed, out)
}

func (c *Client) url(endpoint string, query url.Values) string {
	addr := c.baseURL + endpoint
	if q := query.Encode(); q != "" {
		addr += "?" + q
	}
	return addr
}

func (c *Client) authorize(req *http.Request) {
	if token, ok := c.session.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// do executes req and interprets the answer.
func (c *Client) do(req *http.Request, endpoint, fallback string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Method: req.Method, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: req.Method, Endpoint: endpoint, Err: fmt.Errorf("cannot read http body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newRequestError(resp.StatusCode, data, fallback)
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}

// call is the typed form of Request used by the endpoint wrappers.
func call[T any](ctx context.Context, c *Client, method, endpoint string, query url.Values, body any) (T, error) {
	var out T
	err := c.Request(ctx, endpoint, RequestOptions{Method: method, Query: query, Body: body}, &out)
	return out, err
}

// exec is call for endpoints whose answer is ignored.
func exec(ctx context.Context, c *Client, method, endpoint string, body any) error {
	return c.Request(ctx, endpoint, RequestOptions{Method: method, Body: body}, nil)
}
