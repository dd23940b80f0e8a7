package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	domuser "example.com/phonestore/internal/domain/user"
)

// maxErrorBody caps how much of a failed response is kept in Error.Body.
const maxErrorBody = 4 << 10

// Error is a non-2xx answer the client has no domain error for.
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream: status %d", e.Status)
	}
	return fmt.Sprintf("upstream: status %d: %s", e.Status, e.Body)
}

type tokenKey struct{}

// WithToken attaches the bearer token forwarded on every call made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client talks to the catalog API. One attempt per call.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// BaseURL is where product images live under /Uploads.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	token       string
	notFound    error
}

func (c *Client) jsonRequest(method, path string, in any, notFound error) (request, error) {
	req := request{method: method, path: path, notFound: notFound}
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return req, err
		}
		req.body = bytes.NewReader(data)
		req.contentType = "application/json"
	}
	return req, nil
}

// do sends req and decodes a 2xx body into out when out is non-nil and the
// body is not empty.
func (c *Client) do(ctx context.Context, req request, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+"/"+strings.TrimLeft(req.path, "/"), req.body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	token := req.token
	if token == "" {
		token = tokenFrom(ctx)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("upstream call failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err),
		)
		return fmt.Errorf("upstream %s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream call",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if err := c.checkStatus(resp, req.notFound); err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("upstream %s %s: read body: %w", req.method, req.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("upstream %s %s: decode body: %w", req.method, req.path, err)
	}
	return nil
}

func (c *Client) checkStatus(resp *http.Response, notFound error) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	switch {
	case resp.StatusCode == http.StatusNotFound && notFound != nil:
		return notFound
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return domuser.ErrUnauthorized
	default:
		return &Error{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
}
