package services

import (
	"testing"

	"conference-management-api/models"
)

func TestNormalizeRecommendationExactMatches(t *testing.T) {
	cases := map[string]string{
		"ACCEPT":         models.RecommendationAccept,
		"accept":         models.RecommendationAccept,
		"Reject":         models.RecommendationReject,
		"minor_revision": models.RecommendationMinorRevision,
		"MAJOR_REVISION": models.RecommendationMajorRevision,
	}

	for input, want := range cases {
		if got := NormalizeRecommendation(input); got != want {
			t.Errorf("NormalizeRecommendation(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeRecommendationSynonyms(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Strong Accept", models.RecommendationAccept},
		{"strong_accept", models.RecommendationAccept},
		{"weak accept", models.RecommendationAccept},
		{"accepted", models.RecommendationAccept},
		{"rejected", models.RecommendationReject},
		{"minor revision", models.RecommendationMinorRevision},
		{"major revision", models.RecommendationMajorRevision},
		{"Major-Revision", models.RecommendationMajorRevision},
	}

	for _, tc := range cases {
		if got := NormalizeRecommendation(tc.input); got != tc.want {
			t.Errorf("NormalizeRecommendation(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeRecommendationTokenOverlap(t *testing.T) {
	// "needs revision" shares the "revision" token; the first canonical
	// value containing it wins.
	if got := NormalizeRecommendation("needs revision"); got != models.RecommendationMinorRevision {
		t.Errorf("NormalizeRecommendation(%q) = %q, want %q", "needs revision", got, models.RecommendationMinorRevision)
	}
}

func TestNormalizeRecommendationPassthrough(t *testing.T) {
	for _, input := range []string{"borderline", "no idea", ""} {
		got := NormalizeRecommendation(input)
		if got != input {
			t.Errorf("NormalizeRecommendation(%q) = %q, want passthrough", input, got)
		}
		if IsCanonicalRecommendation(got) {
			t.Errorf("passthrough value %q must not be canonical", got)
		}
	}
}

func TestNormalizeRecommendationIdempotent(t *testing.T) {
	for _, canonical := range canonicalRecommendations {
		once := NormalizeRecommendation(canonical)
		twice := NormalizeRecommendation(once)
		if once != canonical || twice != canonical {
			t.Errorf("normalization of canonical %q is not a no-op: %q then %q", canonical, once, twice)
		}
	}
}
