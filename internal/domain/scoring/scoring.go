// Package scoring matches free-text certification names against the catalog.
package scoring

import (
	"strings"

	"github.com/okian/certcredit/internal/domain/catalog"
	"github.com/okian/certcredit/internal/domain/model"
)

// Rule scores. Rules are tried in this order per candidate and the first one
// that fires decides the candidate's score.
const (
	ExactScore          = 100
	QueryInNameScore    = 80
	NameInQueryScore    = 70
	TokenOverlapWeight  = 15
	PrefixOverlapWeight = 20

	// MaxOverlapScore caps the token and prefix rules below every
	// containment rule, so an exact or substring match always wins.
	MaxOverlapScore = NameInQueryScore - 1

	// AcceptanceThreshold is the minimum best score for a confident match.
	AcceptanceThreshold = 40
)

// Match scores query against every catalog entry and returns the best one.
// Ties keep the earliest entry. An empty catalog or a blank query never
// matches.
func Match(query string, cat *catalog.Catalog) model.MatchResult {
	q := normalize(query)
	if q == "" || cat.Len() == 0 {
		return model.MatchResult{}
	}
	qTokens := strings.Fields(q)

	best, bestScore := -1, 0
	for i := 0; i < cat.Len(); i++ {
		score := scoreCandidate(q, qTokens, normalize(cat.At(i).Name))
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	res := model.MatchResult{Score: bestScore}
	if best >= 0 && bestScore >= AcceptanceThreshold {
		entry := cat.At(best)
		res.Entry = &entry
		res.Matched = true
	}
	return res
}

// Score returns the score of query against a single candidate name.
func Score(query, name string) int {
	q := normalize(query)
	if q == "" {
		return 0
	}
	return scoreCandidate(q, strings.Fields(q), normalize(name))
}

// Validate reports ErrEmptyQuery for blank queries.
func Validate(query string) error {
	if normalize(query) == "" {
		return ErrEmptyQuery
	}
	return nil
}

func scoreCandidate(q string, qTokens []string, name string) int {
	switch {
	case name == "":
		return 0
	case q == name:
		return ExactScore
	case strings.Contains(name, q):
		return QueryInNameScore
	case strings.Contains(q, name):
		return NameInQueryScore
	}

	nTokens := strings.Fields(name)
	if common := overlap(qTokens, nTokens); common > 0 {
		return min(TokenOverlapWeight*common, MaxOverlapScore)
	}
	if prefixed := prefixOverlap(qTokens, nTokens); prefixed > 0 {
		return min(PrefixOverlapWeight*prefixed, MaxOverlapScore)
	}
	return 0
}

// overlap counts distinct tokens present in both sets.
func overlap(a, b []string) int {
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	seen := make(map[string]struct{}, len(a))
	n := 0
	for _, t := range a {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}

// prefixOverlap counts distinct query tokens that prefix some candidate token.
func prefixOverlap(query, name []string) int {
	seen := make(map[string]struct{}, len(query))
	n := 0
	for _, q := range query {
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		for _, t := range name {
			if strings.HasPrefix(t, q) {
				n++
				break
			}
		}
	}
	return n
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
