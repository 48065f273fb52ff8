package httpx

import (
    "net"
    "net/http"
    "time"
)

const DefaultUserAgent = "Mozilla/5.0 (compatible; tradetrack/1.0)"

// Client wraps http.Client and stamps outgoing requests with a User-Agent.
// It satisfies the HTTPClient interfaces of the provider packages.
type Client struct {
    HTTP      *http.Client
    UserAgent string
}

// New returns a Client whose requests time out after timeout. The transport
// is sized for a single sequential caller.
func New(timeout time.Duration) *Client {
    transport := &http.Transport{
        Proxy:                 http.ProxyFromEnvironment,
        DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
        MaxIdleConns:          4,
        MaxIdleConnsPerHost:   2,
        ForceAttemptHTTP2:     true,
        IdleConnTimeout:       90 * time.Second,
        TLSHandshakeTimeout:   5 * time.Second,
        ExpectContinueTimeout: 1 * time.Second,
        ResponseHeaderTimeout: timeout,
    }
    return &Client{HTTP: &http.Client{Timeout: timeout, Transport: transport}, UserAgent: DefaultUserAgent}
}

// Do sends req, setting the User-Agent unless the caller already did.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
    if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
        req.Header.Set("User-Agent", c.UserAgent)
    }
    return c.HTTP.Do(req)
}
