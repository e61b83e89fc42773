// internal/gateway/transport.go
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Status-code causes carried inside a TransportError
var (
	ErrBadRequest     = errors.New("bad request (400)")
	ErrNotFound       = errors.New("not found (404)")
	ErrTooLarge       = errors.New("payload too large (413)")
	ErrRateLimit      = errors.New("rate limit exceeded (429)")
	ErrServerError    = errors.New("internal server error (500)")
	ErrBadGateway     = errors.New("bad gateway (502)")
	ErrServerBusy     = errors.New("server busy (503)")
	ErrGatewayTimeout = errors.New("gateway timeout (504)")
	ErrMalformedBody  = errors.New("malformed response body")
)

// DefaultTimeout bounds a whole request. Debates are slow.
const DefaultTimeout = 120 * time.Second

// newHTTPClient builds the client used for every backend call
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
		},
	}
}

// statusError returns a descriptive cause for a non-2xx HTTP status
func statusError(code int) error {
	switch code {
	case 400:
		return ErrBadRequest
	case 404:
		return ErrNotFound
	case 413:
		return ErrTooLarge
	case 429:
		return ErrRateLimit
	case 500:
		return ErrServerError
	case 502:
		return ErrBadGateway
	case 503:
		return ErrServerBusy
	case 504:
		return ErrGatewayTimeout
	default:
		return fmt.Errorf("HTTP %d", code)
	}
}

// describeTransport turns a net/http failure into a short human message
func describeTransport(err error) string {
	if errors.Is(err, context.Canceled) {
		return "request canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "request timed out"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "cannot resolve backend host " + dnsErr.Name
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return "connection refused"
	}

	return "backend unreachable"
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
