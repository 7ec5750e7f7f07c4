// Package client talks to the remote URL-shortening API.
//
// Every operation is bounded by a fixed timeout. The timeout is a deadline on
// the request context, so an expired request is cancelled on the wire rather
// than left running in the background.
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
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MikhailRaia/shortify/internal/apperr"
	"github.com/MikhailRaia/shortify/internal/metrics"
	"github.com/MikhailRaia/shortify/internal/model"
)

const (
	// DefaultBaseURL is the API root used when none is configured.
	DefaultBaseURL = "http://localhost:8000/api/v1"

	// DefaultTimeout bounds every operation.
	DefaultTimeout = 10 * time.Second

	maxBodySize = 1 << 20
)

// Operation names, used in errors, logs and metrics.
const (
	OpShorten = "shorten"
	OpGetInfo = "get_info"
	OpListAll = "list_all"
	OpDelete  = "delete"
	OpUpdate  = "update"
)

// Generic messages used when the server gives none.
const (
	MsgShortenFailed = "Error when shortening URL"
	MsgNotFound      = "Link not found"
	MsgListFailed    = "Error retrieving list of links"
	MsgDeleteFailed  = "Error deleting link"
	MsgUpdateFailed  = "Error updating link"
)

// Client is a timeout-bounded client of the shortening API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-operation timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Timeout returns the per-operation timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Shorten asks the service for a short code for longURL.
func (c *Client) Shorten(ctx context.Context, longURL string) (model.Link, error) {
	body, err := json.Marshal(map[string]string{"long_url": longURL})
	if err != nil {
		return model.Link{}, c.fail(OpShorten, apperr.RequestFailed(OpShorten, MsgShortenFailed, 0, err), time.Now())
	}

	var link model.Link
	err = c.do(ctx, OpShorten, http.MethodPost, "/short_url", body, func(status int, payload []byte) error {
		if !isSuccess(status) {
			return apperr.RequestFailed(OpShorten, serverMessage(payload, MsgShortenFailed), status, nil)
		}
		decoded, decodeErr := model.DecodeLink(payload)
		if decodeErr != nil {
			return apperr.RequestFailed(OpShorten, MsgShortenFailed, status, decodeErr)
		}
		link = decoded
		return nil
	})

	return link, err
}

// GetInfo fetches a single link by its short code.
func (c *Client) GetInfo(ctx context.Context, code string) (model.Link, error) {
	var link model.Link
	err := c.do(ctx, OpGetInfo, http.MethodGet, linkPath(code), nil, func(status int, payload []byte) error {
		if !isSuccess(status) {
			return apperr.NotFound(OpGetInfo, MsgNotFound, status)
		}
		decoded, decodeErr := model.DecodeLink(payload)
		if decodeErr != nil {
			return apperr.RequestFailed(OpGetInfo, MsgNotFound, status, decodeErr)
		}
		link = decoded
		return nil
	})

	return link, err
}

// ListAll fetches every link known to the service.
func (c *Client) ListAll(ctx context.Context) ([]model.Link, error) {
	var links []model.Link
	err := c.do(ctx, OpListAll, http.MethodGet, "/urls", nil, func(status int, payload []byte) error {
		if !isSuccess(status) {
			return apperr.RequestFailed(OpListAll, MsgListFailed, status, nil)
		}
		decoded, decodeErr := model.DecodeLinks(payload)
		if decodeErr != nil {
			return apperr.RequestFailed(OpListAll, MsgListFailed, status, decodeErr)
		}
		links = decoded
		return nil
	})

	return links, err
}

// Delete removes a link. Nothing is returned on success.
func (c *Client) Delete(ctx context.Context, code string) error {
	return c.do(ctx, OpDelete, http.MethodDelete, linkPath(code), nil, func(status int, _ []byte) error {
		if !isSuccess(status) {
			return apperr.RequestFailed(OpDelete, MsgDeleteFailed, status, nil)
		}
		return nil
	})
}

// Update applies patch to a link and returns the updated link.
func (c *Client) Update(ctx context.Context, code string, patch model.LinkPatch) (model.Link, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return model.Link{}, c.fail(OpUpdate, apperr.RequestFailed(OpUpdate, MsgUpdateFailed, 0, err), time.Now())
	}

	var link model.Link
	err = c.do(ctx, OpUpdate, http.MethodPut, linkPath(code), body, func(status int, payload []byte) error {
		if !isSuccess(status) {
			return apperr.RequestFailed(OpUpdate, serverMessage(payload, MsgUpdateFailed), status, nil)
		}
		decoded, decodeErr := model.DecodeLink(payload)
		if decodeErr != nil {
			return apperr.RequestFailed(OpUpdate, MsgUpdateFailed, status, decodeErr)
		}
		link = decoded
		return nil
	})

	return link, err
}

// do performs one request under the client timeout and hands the status and
// body to handle. The deadline covers reading the body.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte, handle func(status int, payload []byte) error) error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return c.fail(op, apperr.RequestFailed(op, genericMessage(op), 0, err), start)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(op, classify(ctx, op, err), start)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return c.fail(op, classify(ctx, op, err), start)
	}

	if err := handle(resp.StatusCode, payload); err != nil {
		return c.fail(op, err, start)
	}

	metrics.RecordAPIRequest(op, metrics.OutcomeSuccess, time.Since(start).Seconds())
	return nil
}

// fail logs err to the diagnostic channel and records it before returning it.
func (c *Client) fail(op string, err error, start time.Time) error {
	var appErr *apperr.Error
	status := 0
	if errors.As(err, &appErr) {
		status = appErr.Status
	}

	log.Error().
		Err(err).
		Str("operation", op).
		Str("kind", string(apperr.KindOf(err))).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Msg("API request failed")

	metrics.RecordAPIRequest(op, string(apperr.KindOf(err)), time.Since(start).Seconds())
	return err
}

func classify(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout(op, err)
	}
	return apperr.RequestFailed(op, genericMessage(op), 0, err)
}

func genericMessage(op string) string {
	switch op {
	case OpShorten:
		return MsgShortenFailed
	case OpGetInfo:
		return MsgNotFound
	case OpListAll:
		return MsgListFailed
	case OpDelete:
		return MsgDeleteFailed
	case OpUpdate:
		return MsgUpdateFailed
	default:
		return "Request failed"
	}
}

func linkPath(code string) string {
	return "/urls/" + url.PathEscape(code)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// serverMessage extracts the "detail" field of an error body. FastAPI sends
// either a string or a list of validation errors carrying "msg".
func serverMessage(payload []byte, fallback string) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || len(body.Detail) == 0 {
		return fallback
	}

	var text string
	if err := json.Unmarshal(body.Detail, &text); err == nil {
		if text == "" {
			return fallback
		}
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	return fallback
}

// String describes the client for logs.
func (c *Client) String() string {
	return fmt.Sprintf("client(%s, timeout=%s)", c.baseURL, c.timeout)
}
