package species

import (
	"fmt"
	"sort"
)

// DefaultScore is returned for pairs with no rule: neither friendly nor hostile.
const DefaultScore = 0.5

// CompatibilityRule scores how well two species share a tank, in [0,1].
// Higher is more compatible. Order of A and B does not matter.
type CompatibilityRule struct {
	A     string  `yaml:"a" json:"a"`
	B     string  `yaml:"b" json:"b"`
	Score float64 `yaml:"score" json:"score"`
}

// pairKey is an unordered species pair with A <= B.
type pairKey struct {
	a, b string
}

func makeKey(a, b string) pairKey {
	if a < b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// Lookup answers symmetric compatibility queries.
type Lookup struct {
	scores map[pairKey]float64
}

// NewLookup canonicalizes rules into a symmetric lookup. When the same
// unordered pair appears twice the later rule wins.
func NewLookup(rules []CompatibilityRule) *Lookup {
	l := &Lookup{scores: make(map[pairKey]float64, len(rules))}
	for _, r := range rules {
		l.scores[makeKey(r.A, r.B)] = r.Score
	}
	return l
}

// Score returns the compatibility of a and b. A species is always fully
// compatible with itself; unknown pairs score DefaultScore.
func (l *Lookup) Score(a, b string) float64 {
	if a == b {
		return 1
	}
	if l == nil {
		return DefaultScore
	}
	if s, ok := l.scores[makeKey(a, b)]; ok {
		return s
	}
	return DefaultScore
}

// Rules returns the canonical rules sorted by (A, B).
func (l *Lookup) Rules() []CompatibilityRule {
	if l == nil {
		return nil
	}
	out := make([]CompatibilityRule, 0, len(l.scores))
	for k, s := range l.scores {
		out = append(out, CompatibilityRule{A: k.a, B: k.b, Score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A == out[j].A {
			return out[i].B < out[j].B
		}
		return out[i].A < out[j].A
	})
	return out
}

// ValidateRules checks scores are in [0,1] and that both ids are known to idx.
func ValidateRules(rules []CompatibilityRule, idx *Index) error {
	for i, r := range rules {
		if r.Score < 0 || r.Score > 1 {
			return fmt.Errorf("compatibility rule %d (%s, %s): score %v outside [0,1]", i, r.A, r.B, r.Score)
		}
		for _, id := range [...]string{r.A, r.B} {
			if _, err := idx.Lookup(id); err != nil {
				return fmt.Errorf("compatibility rule %d: %w", i, err)
			}
		}
	}
	return nil
}
