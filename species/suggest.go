package species

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to id by edit distance, or "" when
// nothing is close enough to be a plausible typo.
func Suggest(id string, candidates []string) string {
	needle := normalizeID(id)
	if needle == "" {
		return ""
	}

	best := ""
	bestDist := -1
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(needle, normalizeID(cand))
		if dist > distanceLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && cand < best) {
			best, bestDist = cand, dist
		}
	}
	return best
}

// normalizeID folds case and treats spaces and hyphens like underscores,
// so "Neon Tetra" and "neon-tetra" both match "neon_tetra".
func normalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(id)
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
