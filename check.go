package sweetmark

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds each individual probe attempt.
const DefaultTimeout = 10 * time.Second

// defaultUserAgent is a browser-like identity; some hosts refuse obviously
// non-browser clients outright, which would skew the verdict.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Checker probes URLs for liveness. The zero value is ready to use.
type Checker struct {
	// Client issues the probes. If nil, http.DefaultClient is used. Redirects
	// must be followed (the default client does).
	Client *http.Client

	// Timeout applies per probe attempt. If zero, DefaultTimeout is used.
	Timeout time.Duration

	// UserAgent overrides the identification header sent with each probe.
	UserAgent string
}

// Check probes url and returns its HTTP status, or nil when the probe itself
// failed (timeout, DNS, refused or reset connection, TLS failure).
//
// A HEAD request is tried first since it transfers no body. Some servers
// reject HEAD but serve GET, so a final HEAD status >= 400 triggers one GET
// retry whose status wins; its body is released without being read. An empty
// url is rejected before any network traffic. Check never panics or returns a
// transport error; failure reasons come back as warnings.
func (c *Checker) Check(ctx context.Context, url string) (*int, []string) {
	if url == "" {
		return nil, []string{"sweetmark: empty URL, skipping probe"}
	}

	status, err := c.probe(ctx, http.MethodHead, url)
	if err != nil {
		return nil, []string{fmt.Sprintf("sweetmark: error probing %s: %v", url, err)}
	}
	if status >= 400 {
		status, err = c.probe(ctx, http.MethodGet, url)
		if err != nil {
			return nil, []string{fmt.Sprintf("sweetmark: error probing %s: %v", url, err)}
		}
	}
	return &status, nil
}

func (c *Checker) probe(ctx context.Context, method, url string) (int, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, http.NoBody)
	if err != nil {
		return 0, err
	}
	ua := c.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	// Status is all we need; drop the connection without draining the body.
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}
