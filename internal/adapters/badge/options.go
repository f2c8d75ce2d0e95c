package badge

import (
	"net/http"
	"time"
)

const (
	defaultTimeout   = 20 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultRate      = 2.0
	defaultBurst     = 2
)

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient sets the client used for fetching pages.
func WithHTTPClient(hc *http.Client) Option {
	return func(e *Extractor) {
		if hc != nil {
			e.hc = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.hc.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(e *Extractor) {
		if ua != "" {
			e.userAgent = ua
		}
	}
}

// WithLimiter sets the per-host rate limiter.
func WithLimiter(l *HostLimiter) Option {
	return func(e *Extractor) {
		if l != nil {
			e.limiter = l
		}
	}
}
