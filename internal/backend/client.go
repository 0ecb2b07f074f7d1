// Package backend is the HTTP client for the project REST backend.
//
// Every request carries the bearer token of the configured TokenSource.
// A 401 answer clears the token, fires the unauthorized hook and surfaces
// as ErrUnauthorized so the caller's own failure path still runs.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/CodeCraft-Studio/studio-site/internal/logger"
)

const (
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 16 << 20
)

// TokenSource provides the bearer token and forgets it on authorization failure.
type TokenSource interface {
	Token() string
	ClearToken()
}

// StaticToken is a TokenSource for a token owned by someone else, such as
// the session of an incoming request. ClearToken is a no-op.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() string { return string(t) }

// ClearToken implements TokenSource.
func (StaticToken) ClearToken() {}

// FormFile is a file part of a multipart form.
type FormFile struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Form is a request payload sent as multipart/form-data.
// Any other payload type is sent as JSON.
type Form struct {
	Fields url.Values
	Files  []FormFile
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource sets the source of the bearer token.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHandler sets the hook run after a 401, typically a
// navigation to the login page.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// Client talks to the backend REST API.
type Client struct {
	base           *url.URL
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
	log            zerolog.Logger
}

// New creates a client for baseURL. A zero timeout means 30 seconds.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	if timeout == 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: timeout},
		tokens: StaticToken(""),
		log:    logger.Component("backend"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// WithToken returns a copy of the client using ts, sharing the transport.
// The copy has no unauthorized hook.
func (c *Client) WithToken(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	cp.onUnauthorized = nil

	return &cp
}

// Projects returns the project API.
func (c *Client) Projects() *Projects {
	return &Projects{c: c}
}

// JSON sends payload (nil, *Form or any JSON value) and decodes a JSON answer
// into out when out is not nil.
func (c *Client) JSON(ctx context.Context, method, path string, payload, out any) error {
	var decode func([]byte) error
	if out != nil {
		decode = func(raw []byte) error {
			if err := json.Unmarshal(raw, out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}

			return nil
		}
	}

	return c.do(ctx, method, path, payload, decode)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out func([]byte) error) error {
	body, contentType, err := encode(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("backend request failed")
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("backend request")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.tokens.ClearToken()

		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}

		return ErrUnauthorized
	case resp.StatusCode >= http.StatusMultipleChoices:
		return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(raw, resp.Status)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	return out(raw)
}

func encode(payload any) (io.Reader, string, error) {
	switch p := payload.(type) {
	case nil:
		return nil, "", nil
	case *Form:
		return encodeForm(p)
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, "", fmt.Errorf("encode request: %w", err)
		}

		return bytes.NewReader(b), "application/json", nil
	}
}

func encodeForm(f *Form) (io.Reader, string, error) {
	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	for name, values := range f.Fields {
		for _, v := range values {
			if err := w.WriteField(name, v); err != nil {
				return nil, "", fmt.Errorf("write form field: %w", err)
			}
		}
	}

	for _, file := range f.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Name))

		ct := file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}

		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create form file: %w", err)
		}

		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("write form file: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

// errorMessage extracts {message} or {error} from an error body.
func errorMessage(raw []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}

		if body.Error != "" {
			return body.Error
		}
	}

	return fallback
}
