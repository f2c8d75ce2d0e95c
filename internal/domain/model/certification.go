// Package model contains domain models passed between layers.
package model

import "github.com/okian/certcredit/internal/domain/types"

// CatalogEntry is a known certification and the credit points it awards.
// JSON field names follow the catalog file format.
type CatalogEntry struct {
	Name   string  `json:"certificate_name" yaml:"certificate_name"`
	Points float64 `json:"credit_points" yaml:"credit_points"`
}

// Item is one certification held by a subject: a free-text name and the
// optional expiry expression scraped or typed alongside it.
type Item struct {
	Name       string `json:"name"`
	ExpiryText string `json:"expiry_text,omitempty"`
}

// MatchResult is the outcome of resolving a name against the catalog.
// Entry is nil unless Matched.
type MatchResult struct {
	Entry   *CatalogEntry `json:"entry,omitempty"`
	Score   int           `json:"score"`
	Matched bool          `json:"matched"`
}

// State classifies the validity of a certification.
type State string

// Validity states.
const (
	StateValid         State = "valid"
	StateExpired       State = "expired"
	StateIndeterminate State = "indeterminate"
)

// ValidityVerdict is the result of evaluating an expiry expression.
type ValidityVerdict struct {
	State         State       `json:"state"`
	ParsedDate    *types.Date `json:"parsed_date,omitempty"`
	DaysRemaining *int        `json:"days_remaining,omitempty"`
}

// Counts reports whether points for this verdict count toward a total.
// Indeterminate verdicts count.
func (v ValidityVerdict) Counts() bool {
	return v.State != StateExpired
}

// PointsSource tells where a point value came from.
type PointsSource string

// Point sources.
const (
	SourceCatalog   PointsSource = "catalog"
	SourceEstimated PointsSource = "estimated"
)

// ItemResult is the per-item breakdown of an aggregation.
type ItemResult struct {
	Name         string          `json:"name"`
	Points       float64         `json:"points"`
	Source       PointsSource    `json:"source"`
	Match        MatchResult     `json:"match"`
	Verdict      ValidityVerdict `json:"verdict"`
	Contribution float64         `json:"contribution"`
}

// AggregateResult is the subject-level total with items in input order.
type AggregateResult struct {
	TotalPoints float64      `json:"total_points"`
	Items       []ItemResult `json:"items"`
}

// Badge is a certification badge extracted from a public badge page.
type Badge struct {
	URL        string `json:"url"`
	Name       string `json:"name"`
	Holder     string `json:"holder,omitempty"`
	ExpiryText string `json:"expiry_text,omitempty"`
}

// Item converts the badge into an aggregation input.
func (b Badge) Item() Item {
	return Item{Name: b.Name, ExpiryText: b.ExpiryText}
}
