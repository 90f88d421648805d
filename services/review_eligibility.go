package services

import (
	"time"

	"conference-management-api/models"
)

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// PaperWasRevised reports whether the author has updated the submission
// since the review was submitted. Missing timestamps compare as the zero
// instant.
func PaperWasRevised(submission *models.Submission, review *models.Review) bool {
	return timeOrZero(submission.LastUpdatedAt).After(timeOrZero(review.SubmittedAt))
}

// CanUpdateReview decides whether an existing review may be overwritten:
// the prior verdict must be a revision verdict, the paper must have been
// revised since, and the submission must be back in a reviewable state.
// Both the write path and the read-only "can I re-review?" query go through
// this one function.
func CanUpdateReview(review *models.Review, submission *models.Submission) bool {
	if !review.IsRevisionVerdict() {
		return false
	}
	if !PaperWasRevised(submission, review) {
		return false
	}
	return submission.Status == models.SubmissionStatusSubmitted ||
		submission.Status == models.SubmissionStatusUnderReview
}

// ReviewStatusFor derives review status from the canonical recommendation:
// final verdicts are submitted, revision verdicts stay pending_revision.
func ReviewStatusFor(recommendation string) string {
	if recommendation == models.RecommendationAccept || recommendation == models.RecommendationReject {
		return models.ReviewStatusSubmitted
	}
	return models.ReviewStatusPendingRevision
}
