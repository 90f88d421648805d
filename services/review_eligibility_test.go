package services

import (
	"testing"
	"time"

	"conference-management-api/models"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestReviewStatusFor(t *testing.T) {
	cases := map[string]string{
		models.RecommendationAccept:        models.ReviewStatusSubmitted,
		models.RecommendationReject:        models.ReviewStatusSubmitted,
		models.RecommendationMinorRevision: models.ReviewStatusPendingRevision,
		models.RecommendationMajorRevision: models.ReviewStatusPendingRevision,
	}

	for recommendation, want := range cases {
		if got := ReviewStatusFor(recommendation); got != want {
			t.Errorf("ReviewStatusFor(%q) = %q, want %q", recommendation, got, want)
		}
	}
}

func TestPaperWasRevised(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name        string
		lastUpdated *time.Time
		submittedAt *time.Time
		want        bool
	}{
		{"updated after review", timePtr(base.Add(time.Hour)), timePtr(base), true},
		{"updated before review", timePtr(base), timePtr(base.Add(time.Hour)), false},
		{"same instant", timePtr(base), timePtr(base), false},
		{"missing submission timestamp", nil, timePtr(base), false},
		{"missing review timestamp", timePtr(base), nil, true},
		{"both missing", nil, nil, false},
	}

	for _, tc := range cases {
		submission := &models.Submission{LastUpdatedAt: tc.lastUpdated}
		review := &models.Review{SubmittedAt: tc.submittedAt}
		if got := PaperWasRevised(submission, review); got != tc.want {
			t.Errorf("%s: PaperWasRevised = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanUpdateReview(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	revised := timePtr(base.Add(time.Hour))
	unrevised := timePtr(base.Add(-time.Hour))

	cases := []struct {
		name           string
		recommendation string
		lastUpdated    *time.Time
		status         string
		want           bool
	}{
		{"revision verdict, revised, submitted", models.RecommendationMajorRevision, revised, models.SubmissionStatusSubmitted, true},
		{"revision verdict, revised, under_review", models.RecommendationMinorRevision, revised, models.SubmissionStatusUnderReview, true},
		{"final verdict never updatable", models.RecommendationAccept, revised, models.SubmissionStatusUnderReview, false},
		{"no author revision", models.RecommendationMajorRevision, unrevised, models.SubmissionStatusUnderReview, false},
		{"submission already accepted", models.RecommendationMajorRevision, revised, models.SubmissionStatusAccepted, false},
		{"submission still in revision", models.RecommendationMajorRevision, revised, models.SubmissionStatusRevision, false},
	}

	for _, tc := range cases {
		review := &models.Review{
			Recommendation: tc.recommendation,
			SubmittedAt:    timePtr(base),
		}
		submission := &models.Submission{
			Status:        tc.status,
			LastUpdatedAt: tc.lastUpdated,
		}
		if got := CanUpdateReview(review, submission); got != tc.want {
			t.Errorf("%s: CanUpdateReview = %v, want %v", tc.name, got, tc.want)
		}
	}
}
