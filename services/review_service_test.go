package services

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"conference-management-api/models"
)

func intPtr(v int) *int { return &v }

func testSubmission(status string) *models.Submission {
	return &models.Submission{
		SubmissionID: 7,
		ConferenceID: 1,
		TrackID:      intPtr(2),
		Status:       status,
	}
}

func requestStatus(t *testing.T, err error) int {
	t.Helper()
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	return reqErr.Status
}

func TestPlanReviewWriteCreatesSubmittedForFinalVerdict(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	submission := testSubmission(models.SubmissionStatusUnderReview)

	review, err := PlanReviewWrite(nil, submission, 42, ReviewInput{
		Score:             8,
		Comments:          "solid work",
		RawRecommendation: "accepted",
	}, now)
	if err != nil {
		t.Fatalf("PlanReviewWrite returned error: %v", err)
	}

	if review.Recommendation != models.RecommendationAccept {
		t.Errorf("recommendation = %q, want ACCEPT", review.Recommendation)
	}
	if review.Status != models.ReviewStatusSubmitted {
		t.Errorf("status = %q, want submitted", review.Status)
	}
	if review.SubmittedAt == nil || !review.SubmittedAt.Equal(now) {
		t.Errorf("submittedAt = %v, want %v", review.SubmittedAt, now)
	}
	if review.TrackID != 2 || review.ReviewerID != 42 || review.SubmissionID != 7 {
		t.Errorf("unexpected identity fields: %+v", review)
	}
}

func TestPlanReviewWriteCreatesPendingRevisionForRevisionVerdict(t *testing.T) {
	submission := testSubmission(models.SubmissionStatusUnderReview)

	review, err := PlanReviewWrite(nil, submission, 42, ReviewInput{
		Score:             3,
		RawRecommendation: "major revision",
	}, time.Now())
	if err != nil {
		t.Fatalf("PlanReviewWrite returned error: %v", err)
	}

	if review.Recommendation != models.RecommendationMajorRevision {
		t.Errorf("recommendation = %q, want MAJOR_REVISION", review.Recommendation)
	}
	if review.Status != models.ReviewStatusPendingRevision {
		t.Errorf("status = %q, want pending_revision", review.Status)
	}
	if !review.IsRevisionVerdict() {
		t.Error("expected a revision verdict")
	}
}

func TestPlanReviewWriteValidation(t *testing.T) {
	submission := testSubmission(models.SubmissionStatusUnderReview)

	_, err := PlanReviewWrite(nil, submission, 42, ReviewInput{Score: 0, RawRecommendation: "accept"}, time.Now())
	if status := requestStatus(t, err); status != http.StatusBadRequest {
		t.Errorf("score validation status = %d, want 400", status)
	}

	_, err = PlanReviewWrite(nil, submission, 42, ReviewInput{Score: 5, RawRecommendation: "no idea"}, time.Now())
	if status := requestStatus(t, err); status != http.StatusBadRequest {
		t.Errorf("recommendation validation status = %d, want 400", status)
	}

	noTrack := testSubmission(models.SubmissionStatusUnderReview)
	noTrack.TrackID = nil
	_, err = PlanReviewWrite(nil, noTrack, 42, ReviewInput{Score: 5, RawRecommendation: "accept"}, time.Now())
	if status := requestStatus(t, err); status != http.StatusConflict {
		t.Errorf("missing track status = %d, want 409", status)
	}
}

func TestPlanReviewWriteEnforcesAssignedSet(t *testing.T) {
	submission := testSubmission(models.SubmissionStatusUnderReview)
	submission.AssignedReviewers = []models.SubmissionReviewer{{ReviewerID: 99}}

	_, err := PlanReviewWrite(nil, submission, 42, ReviewInput{Score: 5, RawRecommendation: "accept"}, time.Now())
	if status := requestStatus(t, err); status != http.StatusForbidden {
		t.Errorf("unassigned reviewer status = %d, want 403", status)
	}

	// An empty assigned set allows unassigned review.
	submission.AssignedReviewers = nil
	if _, err := PlanReviewWrite(nil, submission, 42, ReviewInput{Score: 5, RawRecommendation: "accept"}, time.Now()); err != nil {
		t.Errorf("unexpected error with empty assigned set: %v", err)
	}
}

func TestPlanReviewWriteRejectsUpdateWithoutRevision(t *testing.T) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	submission := testSubmission(models.SubmissionStatusUnderReview)
	submission.LastUpdatedAt = timePtr(base)

	existing := &models.Review{
		ReviewID:       5,
		SubmissionID:   7,
		ReviewerID:     42,
		Recommendation: models.RecommendationMajorRevision,
		Status:         models.ReviewStatusPendingRevision,
		SubmittedAt:    timePtr(base.Add(time.Hour)),
	}

	_, err := PlanReviewWrite(existing, submission, 42, ReviewInput{Score: 7, RawRecommendation: "accept"}, time.Now())
	if status := requestStatus(t, err); status != http.StatusConflict {
		t.Errorf("ineligible update status = %d, want 409", status)
	}
}

func TestPlanReviewWriteOverwritesAfterAuthorRevision(t *testing.T) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	now := base.Add(48 * time.Hour)

	submission := testSubmission(models.SubmissionStatusUnderReview)
	submission.LastUpdatedAt = timePtr(base.Add(24 * time.Hour))

	confidential := "previous private note"
	existing := &models.Review{
		ReviewID:             5,
		SubmissionID:         7,
		ReviewerID:           42,
		Score:                3,
		Recommendation:       models.RecommendationMajorRevision,
		Status:               models.ReviewStatusPendingRevision,
		Comments:             "needs work",
		ConfidentialComments: &confidential,
		SubmittedAt:          timePtr(base),
	}

	review, err := PlanReviewWrite(existing, submission, 42, ReviewInput{
		Score:             7,
		Comments:          "much improved",
		RawRecommendation: "ACCEPT",
	}, now)
	if err != nil {
		t.Fatalf("PlanReviewWrite returned error: %v", err)
	}

	if review.ReviewID != 5 {
		t.Errorf("overwrite must keep the existing row, got review_id %d", review.ReviewID)
	}
	if review.Score != 7 || review.Recommendation != models.RecommendationAccept {
		t.Errorf("unexpected overwrite result: score=%d recommendation=%q", review.Score, review.Recommendation)
	}
	if review.Status != models.ReviewStatusSubmitted {
		t.Errorf("status = %q, want submitted", review.Status)
	}
	if review.ConfidentialComments == nil || *review.ConfidentialComments != confidential {
		t.Error("confidential comments must be retained when not resupplied")
	}
	if review.SubmittedAt == nil || !review.SubmittedAt.Equal(now) {
		t.Errorf("submittedAt = %v, want %v", review.SubmittedAt, now)
	}
}

func TestBuildReviewListingMasksPendingRevision(t *testing.T) {
	reviews := []models.Review{
		{ReviewID: 1, Score: 8, Status: models.ReviewStatusSubmitted, Recommendation: models.RecommendationAccept},
		{ReviewID: 2, Score: 3, Status: models.ReviewStatusPendingRevision, Recommendation: models.RecommendationMajorRevision},
		{ReviewID: 3, Score: 6, Status: models.ReviewStatusSubmitted, Recommendation: models.RecommendationReject},
	}

	listing := BuildReviewListing(reviews)

	if listing.SubmittedCount != 2 {
		t.Fatalf("submitted count = %d, want 2", listing.SubmittedCount)
	}
	if listing.AverageScore == nil || *listing.AverageScore != 7 {
		t.Fatalf("average = %v, want 7 (pending_revision excluded)", listing.AverageScore)
	}

	masked := listing.Reviews[1]
	if masked.Score != nil {
		t.Errorf("pending_revision score must serialize as null, got %v", *masked.Score)
	}
	if masked.ScoreDisplay == nil || *masked.ScoreDisplay != RevisionPendingScoreDisplay {
		t.Errorf("score display = %v, want %q", masked.ScoreDisplay, RevisionPendingScoreDisplay)
	}

	visible := listing.Reviews[0]
	if visible.Score == nil || *visible.Score != 8 {
		t.Errorf("submitted score must be visible, got %v", visible.Score)
	}
}

func TestBuildReviewListingAllPending(t *testing.T) {
	reviews := []models.Review{
		{ReviewID: 1, Score: 2, Status: models.ReviewStatusPendingRevision},
	}

	listing := BuildReviewListing(reviews)
	if listing.AverageScore != nil {
		t.Errorf("average over zero submitted reviews must be nil, got %v", *listing.AverageScore)
	}
	if listing.SubmittedCount != 0 {
		t.Errorf("submitted count = %d, want 0", listing.SubmittedCount)
	}
}
