package apiclient

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
	"unicode/utf8"

	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is buffered.
const maxBodyBytes = 4 << 20

var (
	// ErrUnauthorized matches any 401 response via errors.Is.
	ErrUnauthorized = errors.New("apiclient: unauthorized")
	// ErrMalformedResponse is returned when a body does not match the
	// envelope contract of its endpoint.
	ErrMalformedResponse = errors.New("apiclient: malformed response")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// TokenSource yields the bearer token for an outgoing request, or "".
type TokenSource func(ctx context.Context) string

type clientIPKey struct{}

// ContextWithClientIP returns ctx whose API calls are sent on behalf of
// the visitor at ip. The address travels as X-Forwarded-For so per-client
// limits at the API see each visitor separately.
func ContextWithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	RPS        int
	Token      TokenSource
	HTTPClient *http.Client
}

// Client speaks JSON to the catalog API. It never retries: every call is a
// single all-or-nothing attempt.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	token      TokenSource
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Every(time.Second / time.Duration(opts.RPS))
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "bookconsole"
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(limit, 1),
		token:      opts.Token,
	}
}

// Get fetches path with the given query and returns the raw response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// Post sends body as JSON. The response body is discarded.
func (c *Client) Post(ctx context.Context, path string, body any) error {
	_, err := c.do(ctx, http.MethodPost, path, nil, body)
	return err
}

// Put sends body as JSON. The response body is discarded.
func (c *Client) Put(ctx context.Context, path string, body any) error {
	_, err := c.do(ctx, http.MethodPut, path, nil, body)
	return err
}

func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token *string `json:"token"`
}

// Login exchanges credentials for an opaque session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/login", nil, loginReq{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	data, err := DecodeEnvelope(body)
	if err != nil {
		return "", err
	}
	var resp loginResp
	if err := DecodeObject(data, &resp); err != nil {
		return "", err
	}
	if resp.Token == nil || *resp.Token == "" {
		return "", fmt.Errorf("%w: login response has no token", ErrMalformedResponse)
	}
	return *resp.Token, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ip, _ := ctx.Value(clientIPKey{}).(string); ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	if c.token != nil {
		if token := c.token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       snippet(respBody),
		}
	}
	return respBody, nil
}

// snippet shortens a response body for error messages without splitting
// a UTF-8 sequence.
func snippet(b []byte) string {
	const max = 200
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
