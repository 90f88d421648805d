package services

import (
	"regexp"
	"strings"

	"conference-management-api/models"
)

// canonicalRecommendations in precedence order for token matching.
var canonicalRecommendations = []string{
	models.RecommendationAccept,
	models.RecommendationReject,
	models.RecommendationMinorRevision,
	models.RecommendationMajorRevision,
}

// recommendationSynonyms is an ordered table of legacy/free-text patterns.
// Each match yields a token; the token resolves to the first canonical value
// whose lowercase form contains it. A token no canonical value contains
// (e.g. "strong") simply falls through to later patterns.
var recommendationSynonyms = []struct {
	pattern *regexp.Regexp
	token   string
}{
	{regexp.MustCompile(`(?i)strong[\s_-]*accept`), "strong"},
	{regexp.MustCompile(`(?i)weak[\s_-]*accept`), "weak"},
	{regexp.MustCompile(`(?i)minor[\s_-]*revision`), "minor"},
	{regexp.MustCompile(`(?i)major[\s_-]*revision`), "major"},
	{regexp.MustCompile(`(?i)accept(ed)?`), "accept"},
	{regexp.MustCompile(`(?i)reject(ed)?`), "reject"},
	{regexp.MustCompile(`(?i)borderline`), "borderline"},
}

var recommendationTokenSplit = regexp.MustCompile(`[\s_-]+`)

// NormalizeRecommendation maps free-text or legacy recommendation input to
// the canonical set. Precedence: exact case-insensitive match, then the
// synonym table, then token overlap. Unmatchable input passes through
// unchanged and fails canonical validation downstream. Canonical input is
// returned as-is, so repeated normalization is a no-op.
func NormalizeRecommendation(raw string) string {
	input := strings.TrimSpace(raw)
	if input == "" {
		return input
	}

	for _, canonical := range canonicalRecommendations {
		if strings.EqualFold(input, canonical) {
			return canonical
		}
	}

	for _, syn := range recommendationSynonyms {
		if !syn.pattern.MatchString(input) {
			continue
		}
		for _, canonical := range canonicalRecommendations {
			if strings.Contains(strings.ToLower(canonical), syn.token) {
				return canonical
			}
		}
	}

	for _, token := range recommendationTokenSplit.Split(strings.ToLower(input), -1) {
		if token == "" {
			continue
		}
		for _, canonical := range canonicalRecommendations {
			for _, part := range strings.Split(strings.ToLower(canonical), "_") {
				if token == part {
					return canonical
				}
			}
		}
	}

	return input
}

// IsCanonicalRecommendation reports membership in the canonical set.
func IsCanonicalRecommendation(value string) bool {
	for _, canonical := range canonicalRecommendations {
		if value == canonical {
			return true
		}
	}
	return false
}
