// Package aggregate totals credit points across a subject's certifications.
package aggregate

import (
	"time"

	"github.com/okian/certcredit/internal/domain/catalog"
	"github.com/okian/certcredit/internal/domain/expiry"
	"github.com/okian/certcredit/internal/domain/model"
	"github.com/okian/certcredit/internal/domain/points"
)

// Aggregate resolves points and validity for every item independently and
// sums the contributions of items that are not expired. The breakdown keeps
// input order.
func Aggregate(items []model.Item, cat *catalog.Catalog, now time.Time) model.AggregateResult {
	out := model.AggregateResult{Items: make([]model.ItemResult, 0, len(items))}
	for _, it := range items {
		r := Evaluate(it, cat, now)
		out.TotalPoints += r.Contribution
		out.Items = append(out.Items, r)
	}
	return out
}

// Evaluate computes the breakdown entry for a single item.
func Evaluate(it model.Item, cat *catalog.Catalog, now time.Time) model.ItemResult {
	p := points.Resolve(it.Name, cat)
	v := expiry.Evaluate(it.ExpiryText, now)

	r := model.ItemResult{
		Name:    it.Name,
		Points:  p.Points,
		Source:  p.Source,
		Match:   p.Match,
		Verdict: v,
	}
	if v.Counts() {
		r.Contribution = p.Points
	}
	return r
}
