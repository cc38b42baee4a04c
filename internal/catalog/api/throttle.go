package api

import (
	"net/http"

	"golang.org/x/time/rate"
)

// throttledTransport wraps a base RoundTripper and enforces a token-bucket
// limit on outbound requests, waiting until the request context cancels.
type throttledTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// Throttled wraps the provided HTTP client with a transport that enforces
// the given request rate. If base is nil, a default client is used.
func Throttled(base *http.Client, rps float64, burst int) *http.Client {
	if base == nil {
		base = &http.Client{}
	}
	if rps <= 0 {
		return base
	}
	if burst <= 0 {
		burst = 1
	}
	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	base.Transport = throttledTransport{base: rt, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
	return base
}
