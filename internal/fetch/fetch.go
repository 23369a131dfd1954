package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/hyperifyio/profilecapture/internal/cache"
)

// StatusError reports a non-success HTTP status.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

// Transient reports whether the status is worth retrying.
func (e *StatusError) Transient() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// ErrUnsupportedContent is returned when the response is not an HTML page.
var ErrUnsupportedContent = errors.New("unsupported content type")

// Client fetches profile pages with a bounded retry on transient errors and
// an optional conditional-request cache.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// Cookie is sent verbatim so an already signed-in browser session can be
	// reused. Empty means no Cookie header.
	Cookie string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts       int
	PerRequestTimeout time.Duration
	// RetryBackoff is multiplied by the attempt number. Zero means 200ms.
	RetryBackoff time.Duration
	Cache        *cache.HTTPCache
	// BypassCache skips conditional headers but still stores the response.
	BypassCache bool
	// RedirectMaxHops caps redirect following. Zero means 5.
	RedirectMaxHops int
	// Limiter paces requests to the site, retries included. Nil means
	// unpaced.
	Limiter *rate.Limiter
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirect()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirect()}
}

// Get returns the page body and content type for pageURL.
func (c *Client) Get(ctx context.Context, pageURL string) ([]byte, string, error) {
	u, err := url.Parse(pageURL)
	if err != nil || !isHTTPScheme(u) {
		return nil, "", fmt.Errorf("unsupported URL: %q", pageURL)
	}
	var etag, lastMod string
	if c.Cache != nil && !c.BypassCache {
		if meta, err := c.Cache.LoadMeta(ctx, pageURL); err == nil && meta != nil {
			etag, lastMod = meta.ETag, meta.LastModified
		}
	}
	attempts := max(c.MaxAttempts, 1)
	backoff := c.RetryBackoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(time.Duration(i) * backoff):
			}
		}
		r, err := c.once(ctx, pageURL, etag, lastMod)
		if err == nil {
			return c.finish(ctx, pageURL, r)
		}
		lastErr = err
		if !isTransient(err) {
			return nil, "", err
		}
		log.Debug().Err(err).Str("url", pageURL).Int("attempt", i+1).Msg("fetch retry")
	}
	return nil, "", lastErr
}

func (c *Client) finish(ctx context.Context, pageURL string, r response) ([]byte, string, error) {
	if r.status == http.StatusNotModified && c.Cache != nil {
		body, err := c.Cache.LoadBody(ctx, pageURL)
		if err == nil {
			ct := r.contentType
			if meta, merr := c.Cache.LoadMeta(ctx, pageURL); merr == nil && ct == "" {
				ct = meta.ContentType
			}
			return body, ct, nil
		}
		return nil, "", fmt.Errorf("cached body missing after 304: %w", err)
	}
	if c.Cache != nil {
		if err := c.Cache.Save(ctx, pageURL, r.contentType, r.etag, r.lastModified, r.body); err != nil {
			log.Warn().Err(err).Str("url", pageURL).Msg("page cache save failed")
		}
	}
	return r.body, r.contentType, nil
}

type response struct {
	body         []byte
	contentType  string
	etag         string
	lastModified string
	status       int
}

func (c *Client) once(ctx context.Context, pageURL, etag, lastMod string) (response, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return response{}, fmt.Errorf("rate limit: %w", err)
		}
	}
	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return response{}, fmt.Errorf("new request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.Cookie != "" {
		req.Header.Set("Cookie", c.Cookie)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return response{}, err
	}
	defer resp.Body.Close()

	r := response{
		contentType:  resp.Header.Get("Content-Type"),
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
		status:       resp.StatusCode,
	}
	if resp.StatusCode == http.StatusNotModified && etag+lastMod != "" {
		return r, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return response{}, &StatusError{URL: pageURL, Status: resp.StatusCode}
	}
	if !isHTMLContentType(r.contentType) {
		return response{}, fmt.Errorf("%w: %s", ErrUnsupportedContent, r.contentType)
	}
	r.body, err = io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("read body: %w", err)
	}
	return r, nil
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Transient()
}

func (c *Client) checkRedirect() func(req *http.Request, via []*http.Request) error {
	hops := c.RedirectMaxHops
	if hops <= 0 {
		hops = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= hops {
			return errors.New("too many redirects")
		}
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}
