package transport

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
	"time"

	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-Id"

	maxErrorBody = 4 << 10
)

// TokenSource supplies the bearer credential for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// StatusCode exposes the upstream status to error dumps.
func (e *StatusError) StatusCode() int {
	return e.Status
}

// Client issues JSON requests against one collaborator service.
type Client struct {
	base  *url.URL
	http  *http.Client
	token TokenSource
	logg  *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) { c.logg = logg }
}

// New builds a client rooted at baseURL. A zero timeout leaves the transport
// default in place.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	c := &Client{base: base, http: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Do sends body as JSON and decodes a JSON response into out. Every failure
// is a FETCH_FAILED error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.DoRaw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeFetchFailed, err, fmt.Sprintf("decode %s %s response", method, path))
	}
	return nil
}

// DoRaw is Do without response decoding.
func (c *Client) DoRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token, ok := c.token.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logCtx := c.logg.WithFields(ctx, map[string]any{
		"request_id": requestID,
		"method":     method,
		"path":       path,
	})
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.logg.Warn(logCtx, "transport.request_failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeFetchFailed, err, fmt.Sprintf("%s %s failed", method, path))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeFetchFailed, err, fmt.Sprintf("read %s %s response", method, path))
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logg.Warn(logCtx, "transport.unexpected_status")
		statusErr := &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: truncate(raw)}
		return nil, pkgerrors.Wrap(pkgerrors.CodeFetchFailed, statusErr, fmt.Sprintf("%s %s failed", method, path))
	}
	c.logg.Debug(logCtx, "transport.request_completed")
	return raw, nil
}

func (c *Client) resolve(path string) string {
	u := *c.base
	u.Path = c.base.Path + "/" + strings.TrimLeft(path, "/")
	return u.String()
}

func truncate(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > maxErrorBody {
		return body[:maxErrorBody]
	}
	return body
}

// StatusOf returns the upstream status carried by err, or 0.
func StatusOf(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status
	}
	return 0
}
