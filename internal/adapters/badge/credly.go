// Package badge extracts certification details from public Credly badge pages.
package badge

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/certcredit/internal/domain/model"
)

const (
	selName   = "div.cr-badges-full-badge__head-group"
	selHolder = "p.badge-banner-issued-to-text__name-and-celebrator-list"
	selDates  = "span.cr-badge-banner-expires-at-text"
)

// Extractor fetches a badge page and pulls the name, holder and date line.
type Extractor struct {
	hc        *http.Client
	limiter   *HostLimiter
	userAgent string
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		hc:        &http.Client{Timeout: defaultTimeout},
		limiter:   NewHostLimiter(defaultRate, defaultBurst),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches rawURL and parses it as a Credly badge page.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (model.Badge, error) {
	if err := e.limiter.WaitURL(ctx, rawURL); err != nil {
		return model.Badge{}, fmt.Errorf("%w: %w", ErrBadgeUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return model.Badge{}, fmt.Errorf("%w: %w", ErrBadgeUnavailable, err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := e.hc.Do(req)
	if err != nil {
		return model.Badge{}, fmt.Errorf("%w: %w", ErrBadgeUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return model.Badge{}, fmt.Errorf("%w: status %d", ErrBadgeUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return model.Badge{}, fmt.Errorf("%w: %w", ErrBadgeUnavailable, err)
	}

	b := Parse(doc)
	if b.Name == "" {
		return model.Badge{}, fmt.Errorf("%w: no badge name on page", ErrBadgeUnavailable)
	}
	b.URL = rawURL
	return b, nil
}

// Parse reads badge fields from an already loaded page. Missing fields are left empty.
func Parse(doc *goquery.Document) model.Badge {
	var b model.Badge

	name := doc.Find(selName).First()
	if name.Length() == 0 {
		name = doc.Find("h1").First()
	}
	b.Name = squash(name.Text())
	b.Holder = squash(doc.Find(selHolder).First().Text())

	if span := doc.Find(selDates).First(); span.Length() > 0 {
		p := span.Closest("p")
		if p.Length() == 0 {
			p = span
		}
		b.ExpiryText = squash(p.Text())
	}
	return b
}

// squash collapses runs of whitespace, newlines included, into single spaces.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
