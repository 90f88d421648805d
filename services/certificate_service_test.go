package services

import (
	"strings"
	"testing"

	"conference-management-api/models"
)

func TestEligiblePresentationIdentities(t *testing.T) {
	linked := 20
	submissions := []models.Submission{
		{
			SubmissionID:           1,
			Title:                  "Accepted and attended",
			AuthorID:               10,
			Status:                 models.SubmissionStatusAccepted,
			AuthorAttendanceMarked: true,
			Coauthors: []models.SubmissionAuthor{
				{UserID: &linked, Name: "Linked Coauthor"},
				{UserID: nil, Name: "Unlinked Contact"},
			},
		},
		{
			SubmissionID:           2,
			Title:                  "Accepted, no attendance",
			AuthorID:               11,
			Status:                 models.SubmissionStatusAccepted,
			AuthorAttendanceMarked: false,
		},
		{
			SubmissionID:           3,
			Title:                  "Still under review",
			AuthorID:               12,
			Status:                 models.SubmissionStatusUnderReview,
			AuthorAttendanceMarked: true,
		},
	}

	identities := EligiblePresentationIdentities(submissions)

	if len(identities) != 2 {
		t.Fatalf("expected 2 identities (author + linked coauthor), got %d", len(identities))
	}
	if identities[0].UserID != 10 || identities[0].SubmissionID != 1 {
		t.Errorf("first identity = %+v, want author of submission 1", identities[0])
	}
	if identities[1].UserID != 20 {
		t.Errorf("second identity = %+v, want linked coauthor", identities[1])
	}
}

func TestEligiblePresentationIdentitiesDeduplicatesAuthorAsCoauthor(t *testing.T) {
	self := 10
	submissions := []models.Submission{
		{
			SubmissionID:           1,
			AuthorID:               10,
			Status:                 models.SubmissionStatusAccepted,
			AuthorAttendanceMarked: true,
			Coauthors: []models.SubmissionAuthor{
				{UserID: &self, Name: "Same person listed twice"},
			},
		},
	}

	identities := EligiblePresentationIdentities(submissions)
	if len(identities) != 1 {
		t.Fatalf("expected author listed once, got %d identities", len(identities))
	}
}

func TestEligibleReviewerIDs(t *testing.T) {
	reviews := []models.Review{
		{ReviewerID: 1, Status: models.ReviewStatusSubmitted, Recommendation: models.RecommendationAccept},
		{ReviewerID: 1, Status: models.ReviewStatusSubmitted, Recommendation: models.RecommendationReject},
		{ReviewerID: 2, Status: models.ReviewStatusPendingRevision, Recommendation: models.RecommendationMajorRevision},
		{ReviewerID: 3, Status: models.ReviewStatusSubmitted, Recommendation: models.RecommendationReject},
	}

	ids := EligibleReviewerIDs(reviews)

	if len(ids) != 2 {
		t.Fatalf("expected 2 reviewers, got %d (%v)", len(ids), ids)
	}
	if ids[0] != 1 || ids[1] != 3 {
		t.Errorf("ids = %v, want [1 3]", ids)
	}
}

func TestEligibleReviewerIDsIgnoresPendingRevisionEverywhere(t *testing.T) {
	// A reviewer whose only finalized review sits on another paper still
	// gets exactly one certificate; pending_revision rows never count.
	reviews := []models.Review{
		{ReviewerID: 5, SubmissionID: 1, Status: models.ReviewStatusPendingRevision, Recommendation: models.RecommendationMinorRevision},
		{ReviewerID: 5, SubmissionID: 2, Status: models.ReviewStatusSubmitted, Recommendation: models.RecommendationAccept},
	}

	ids := EligibleReviewerIDs(reviews)
	if len(ids) != 1 || ids[0] != 5 {
		t.Fatalf("ids = %v, want [5]", ids)
	}
}

func TestRenderCertificate(t *testing.T) {
	location := "Khon Kaen"
	conference := &models.Conference{Name: "ICSE 2026", Location: &location}
	paper := "A Study of Things"

	buffer, err := RenderCertificate("Jane Doe", "Presenter", conference, &paper)
	if err != nil {
		t.Fatalf("RenderCertificate returned error: %v", err)
	}

	html := string(buffer)
	for _, want := range []string{"Jane Doe", "Presenter", "ICSE 2026", "Khon Kaen", "A Study of Things"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered certificate missing %q", want)
		}
	}
}

func TestRenderCertificateRejectsEmptyName(t *testing.T) {
	conference := &models.Conference{Name: "ICSE 2026"}
	if _, err := RenderCertificate("  ", "Reviewer", conference, nil); err == nil {
		t.Fatal("expected error for empty recipient name")
	}
}
