// Package points turns a certification name into a credit point value.
package points

import (
	"strings"
	"unicode"

	"github.com/okian/certcredit/internal/domain/catalog"
	"github.com/okian/certcredit/internal/domain/model"
	"github.com/okian/certcredit/internal/domain/scoring"
)

// DefaultEstimate is used when no tier keyword appears in the name.
const DefaultEstimate = 5.0

// Tier maps level-indicating keywords to a point estimate.
type Tier struct {
	Name     string
	Keywords []string
	Points   float64
}

// Tiers are checked in order; the first tier with a keyword in the query wins.
var Tiers = []Tier{
	{Name: "foundational", Keywords: []string{"foundational", "fundamental", "practitioner", "essentials"}, Points: 10},
	{Name: "associate", Keywords: []string{"associate", "developer", "administrator"}, Points: 5},
	{Name: "professional", Keywords: []string{"professional", "expert", "architect", "engineer"}, Points: 10},
	{Name: "specialty", Keywords: []string{"specialty", "specialist", "advanced"}, Points: 10},
}

// Result is a resolved point value and where it came from.
type Result struct {
	Query  string             `json:"query"`
	Points float64            `json:"points"`
	Source model.PointsSource `json:"source"`
	Match  model.MatchResult  `json:"match"`
}

// Resolve returns the catalog points for a confident match and a keyword
// estimate otherwise.
func Resolve(query string, cat *catalog.Catalog) Result {
	m := scoring.Match(query, cat)
	if m.Matched {
		return Result{Query: query, Points: m.Entry.Points, Source: model.SourceCatalog, Match: m}
	}
	return Result{Query: query, Points: Estimate(query), Source: model.SourceEstimated, Match: m}
}

// Estimate returns the point value of the first tier whose keywords appear in
// query. It never fails.
func Estimate(query string) float64 {
	tokens := tokenize(query)
	for _, tier := range Tiers {
		for _, kw := range tier.Keywords {
			if _, ok := tokens[kw]; ok {
				return tier.Points
			}
		}
	}
	return DefaultEstimate
}

// tokenize splits on anything that is not a letter or digit. Plural forms
// are indexed under their singular too, so "Fundamentals" hits "fundamental".
func tokenize(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make(map[string]struct{}, len(fields)*2)
	for _, f := range fields {
		out[f] = struct{}{}
		if len(f) > 1 && strings.HasSuffix(f, "s") {
			out[strings.TrimSuffix(f, "s")] = struct{}{}
		}
	}
	return out
}
