package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/dirkeeper/internal/client/events"
	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
	"github.com/dmitrijs2005/dirkeeper/internal/common"
	"github.com/dmitrijs2005/dirkeeper/internal/logging"
	"github.com/google/uuid"
)

const (
	OpAuthenticate = "authenticate"
	OpList         = "list"
	OpCreate       = "create"
	OpUpdate       = "update"
	OpDelete       = "delete"
)

// maxResponseBody caps how much of a response is read into memory.
const maxResponseBody = 1 << 20

// ExpiryPublisher receives the SessionExpired signal. *events.Broker
// satisfies it.
type ExpiryPublisher interface {
	Publish(ev events.SessionExpired)
}

// HTTPClient implements Client over the JSON REST contract of the
// directory API.
//
// Every request carries the API key header and a fresh request id; once
// the token source yields a token, requests also carry a bearer
// Authorization header. A 401 on any call except Authenticate is
// published as events.SessionExpired before the error is returned.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	tokens  TokenSource
	expiry  ExpiryPublisher
	logger  logging.Logger
	now     func() time.Time
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

func WithExpiryPublisher(p ExpiryPublisher) Option {
	return func(c *HTTPClient) { c.expiry = p }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// NewHTTPClient builds a client for baseURL (e.g. "https://reqres.in/api").
// A non-positive timeout leaves requests bounded only by their context.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		tokens:  TokenFunc(func() string { return "" }),
		logger:  logging.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("module", "directory_client")
	return c
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type createResponse struct {
	ID        json.RawMessage `json:"id"`
	CreatedAt string          `json:"createdAt"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func (c *HTTPClient) Authenticate(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, OpAuthenticate, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &Error{Kind: KindServer, Op: OpAuthenticate, Status: http.StatusOK, Message: "empty token in response"}
	}
	return resp.Token, nil
}

func (c *HTTPClient) ListEntries(ctx context.Context, page int) (*models.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	var resp models.Page
	if err := c.do(ctx, OpList, http.MethodGet, "/users?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Entries == nil {
		resp.Entries = []models.Entry{}
	}
	return &resp, nil
}

func (c *HTTPClient) CreateEntry(ctx context.Context, d models.Draft) (int, error) {
	var resp createResponse
	if err := c.do(ctx, OpCreate, http.MethodPost, "/users", d, &resp); err != nil {
		return 0, err
	}
	id, err := parseID(resp.ID)
	if err != nil {
		return 0, &Error{Kind: KindServer, Op: OpCreate, Status: http.StatusCreated, Err: err}
	}
	return id, nil
}

func (c *HTTPClient) UpdateEntry(ctx context.Context, id int, d models.Draft) error {
	return c.do(ctx, OpUpdate, http.MethodPut, "/users/"+strconv.Itoa(id), d, nil)
}

func (c *HTTPClient) DeleteEntry(ctx context.Context, id int) error {
	return c.do(ctx, OpDelete, http.MethodDelete, "/users/"+strconv.Itoa(id), nil, nil)
}

// parseID accepts the id either as a JSON string ("123") or number.
func parseID(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing id in response")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.Atoi(strings.TrimSpace(s))
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("unexpected id %s: %w", string(raw), err)
	}
	return n, nil
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindServer, Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.APIKeyHeaderName, c.apiKey)
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := c.tokens.Token()
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerValue(token))
	}

	started := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "op", op, "request_id", requestID, "error", err)
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug(ctx, "request done",
		"op", op, "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", c.now().Sub(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(ctx, op, token, resp.StatusCode, payload)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &Error{Kind: KindServer, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *HTTPClient) statusError(ctx context.Context, op, token string, status int, payload []byte) error {
	var ep errorPayload
	_ = json.Unmarshal(payload, &ep)

	e := &Error{Kind: KindServer, Op: op, Status: status, Message: ep.Error}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		e.Kind = KindAuth
	}

	if status == http.StatusUnauthorized && op != OpAuthenticate && c.expiry != nil {
		c.logger.Warn(ctx, "session rejected by server", "op", op)
		c.expiry.Publish(events.SessionExpired{Operation: op, Token: token, At: c.now()})
	}
	return e
}
