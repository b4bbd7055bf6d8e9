package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	apperrors "github.com/Makepad-fr/debts/internal/errors"
)

var json = sonic.ConfigStd

// Client performs single, independent request/response round trips against
// a base URL. It holds no per-request state and is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient swaps the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets an overall per-request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client. Paths passed to Request are appended to baseURL verbatim.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Options are the per-request knobs. Body must already be serialized.
type Options struct {
	Method string
	// Header entries replace the defaults on key collision.
	Header map[string]string
	Body   []byte
}

// Request performs one HTTP request and normalizes its outcome.
//
// Non-2xx answers fail with the HTTP status and the body's "error" field,
// falling back to the status text and then to "Request failed". Transport
// failures fail with status 0 and "Network error". A 2xx body is decoded
// into T; an empty body yields the zero T.
func Request[T any](ctx context.Context, c *Client, path string, opts Options, token string) Result[T] {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("build request")
		return Fail[T](networkError(err))
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Header {
		req.Header.Set(k, v)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return Fail[T](networkError(err))
	}
	defer resp.Body.Close()

	// A body that cannot be read counts as absent; the status still stands.
	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		c.log.Warn().Err(readErr).Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("read body")
		raw = nil
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Fail[T](&Error{
			Status:  resp.StatusCode,
			Message: failureMessage(raw, resp),
			Kind:    apperrors.KindHTTP,
		})
	}

	var data T
	if readErr != nil {
		return Fail[T](&Error{
			Status:  resp.StatusCode,
			Message: InvalidResponseMessage,
			Kind:    apperrors.KindDecode,
			Cause:   readErr,
		})
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Ok(data)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		c.log.Warn().Err(err).Str("path", path).Int("status", resp.StatusCode).Msg("decode response")
		return Fail[T](&Error{
			Status:  resp.StatusCode,
			Message: InvalidResponseMessage,
			Kind:    apperrors.KindDecode,
			Cause:   err,
		})
	}
	return Ok(data)
}

// failureMessage picks the body's "error" field, then the status text, then
// the generic fallback. An unparseable body counts as absent.
func failureMessage(raw []byte, resp *http.Response) string {
	var payload any
	if err := json.Unmarshal(raw, &payload); err == nil {
		if m, ok := payload.(map[string]any); ok {
			if s, ok := m["error"].(string); ok && s != "" {
				return s
			}
		}
	}
	if text := statusText(resp); text != "" {
		return text
	}
	return FallbackMessage
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// Get issues a GET.
func Get[T any](ctx context.Context, c *Client, path, token string) Result[T] {
	return Request[T](ctx, c, path, Options{Method: http.MethodGet}, token)
}

// Post serializes body as JSON (nil becomes {}) and issues a POST.
func Post[T any](ctx context.Context, c *Client, path string, body any, token string) Result[T] {
	return withBody[T](ctx, c, http.MethodPost, path, body, token)
}

// Put serializes body as JSON (nil becomes {}) and issues a PUT.
func Put[T any](ctx context.Context, c *Client, path string, body any, token string) Result[T] {
	return withBody[T](ctx, c, http.MethodPut, path, body, token)
}

// Delete issues a DELETE.
func Delete[T any](ctx context.Context, c *Client, path, token string) Result[T] {
	return Request[T](ctx, c, path, Options{Method: http.MethodDelete}, token)
}

func withBody[T any](ctx context.Context, c *Client, method, path string, body any, token string) Result[T] {
	encoded, err := encodeBody(body)
	if err != nil {
		return Fail[T](&Error{Message: InvalidBodyMessage, Kind: apperrors.KindUsage, Cause: err})
	}
	return Request[T](ctx, c, path, Options{Method: method, Body: encoded}, token)
}

func encodeBody(body any) ([]byte, error) {
	if isNil(body) {
		return []byte("{}"), nil
	}
	return json.Marshal(body)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
