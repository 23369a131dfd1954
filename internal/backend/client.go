// Package backend talks to the recruiting backend that receives captured
// profiles: sign-in, job listing, profile import, candidate lookup and
// message drafting.
package backend

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

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/profilecapture/internal/credstore"
)

// DefaultTimeout bounds each request when no HTTP client is supplied.
const DefaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// TokenStore is the part of credstore.Store the client needs.
type TokenStore interface {
	Tokens() (credstore.Tokens, error)
	SetTokens(credstore.Tokens) error
	SetUser(credstore.User) error
}

// Client is a JSON-over-HTTP client with bearer authentication.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	log        zerolog.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }

func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// New returns a client for baseURL that reads and refreshes tokens in store.
func New(baseURL string, store TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		store:      store,
		log:        log.Logger,
		now:        time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// call sends one JSON request. in and out may be nil.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in, out any, authed bool, hdr http.Header) error {
	resp, err := c.send(ctx, method, path, query, in, authed, hdr)
	if err != nil {
		return err
	}
	if resp.status == http.StatusUnauthorized && authed {
		c.log.Debug().Str("path", path).Msg("access token rejected, refreshing")
		if rerr := c.refresh(ctx); rerr != nil {
			return fmt.Errorf("refresh after 401: %w", rerr)
		}
		resp, err = c.send(ctx, method, path, query, in, authed, hdr)
		if err != nil {
			return err
		}
	}
	if resp.status < 200 || resp.status > 299 {
		return &APIError{Method: method, Path: path, Status: resp.status, Body: excerpt(resp.body)}
	}
	if out == nil || resp.status == http.StatusNoContent || len(resp.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

type rawResponse struct {
	status int
	body   []byte
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, in any, authed bool, hdr http.Header) (rawResponse, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return rawResponse{}, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return rawResponse{}, fmt.Errorf("new request: %w", err)
	}
	for k, v := range hdr {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		tok, err := c.store.Tokens()
		if err != nil {
			return rawResponse{}, err
		}
		req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return rawResponse{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return rawResponse{}, fmt.Errorf("read response: %w", err)
	}
	return rawResponse{status: resp.StatusCode, body: b}, nil
}

func excerpt(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// tokenResponse is returned by login and refresh.
type tokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int64           `json:"expires_in"`
	User         *credstore.User `json:"user,omitempty"`
}

// tokens converts the response into stored form. Without expires_in the
// expiry comes from the access token's exp claim when it is a JWT.
func (c *Client) tokens(r tokenResponse) credstore.Tokens {
	t := credstore.Tokens{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
	if r.ExpiresIn > 0 {
		t.ExpiresAt = c.now().Add(time.Duration(r.ExpiresIn) * time.Second).UTC()
		return t
	}
	t.ExpiresAt = jwtExpiry(r.AccessToken)
	return t
}

// jwtExpiry reads exp without verifying the signature; the backend verifies.
func jwtExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.UTC()
}

// Login exchanges credentials for tokens and stores them with the user.
func (c *Client) Login(ctx context.Context, email, password string) (credstore.User, error) {
	var r tokenResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "/auth/login", nil, in, &r, false, nil); err != nil {
		return credstore.User{}, err
	}
	if r.AccessToken == "" {
		return credstore.User{}, errors.New("login response without access token")
	}
	if err := c.store.SetTokens(c.tokens(r)); err != nil {
		return credstore.User{}, fmt.Errorf("store tokens: %w", err)
	}
	var u credstore.User
	if r.User != nil {
		u = *r.User
		if err := c.store.SetUser(u); err != nil {
			return credstore.User{}, fmt.Errorf("store user: %w", err)
		}
	}
	return u, nil
}

// Refresh trades the stored refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context) error { return c.refresh(ctx) }

func (c *Client) refresh(ctx context.Context) error {
	cur, err := c.store.Tokens()
	if err != nil {
		return err
	}
	if cur.RefreshToken == "" {
		return credstore.ErrNotAuthenticated
	}
	var r tokenResponse
	in := map[string]string{"refresh_token": cur.RefreshToken}
	if err := c.call(ctx, http.MethodPost, "/auth/refresh", nil, in, &r, false, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return fmt.Errorf("%w: %v", credstore.ErrNotAuthenticated, err)
		}
		return err
	}
	if r.AccessToken == "" {
		return errors.New("refresh response without access token")
	}
	return c.store.SetTokens(c.tokens(r))
}
