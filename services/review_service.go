package services

import (
	"errors"
	"log"
	"time"

	"conference-management-api/models"

	"gorm.io/gorm"
)

// RevisionPendingScoreDisplay replaces a provisional score in organizer
// listings so a pending_revision score is never visible.
const RevisionPendingScoreDisplay = "Revision requested — awaiting author update"

const defaultRevisionFeedback = "Reviewer requested changes; please revise and re-upload your paper."

type ReviewService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db, notifications: NewNotificationService(db)}
}

// ReviewInput is the reviewer-supplied payload for a submit-or-update.
type ReviewInput struct {
	Score                int
	Comments             string
	RawRecommendation    string
	ConfidentialComments *string
}

// PlanReviewWrite validates the input against the current submission and
// any existing review, and returns the review row that should be persisted.
// It is pure: the write path and tests share exactly this logic.
func PlanReviewWrite(existing *models.Review, submission *models.Submission, reviewerID int, in ReviewInput, now time.Time) (*models.Review, error) {
	if submission.TrackID == nil {
		return nil, errConflict("Submission has no track and cannot be reviewed")
	}
	if len(submission.AssignedReviewers) > 0 && !submission.HasAssignedReviewer(reviewerID) {
		return nil, errForbidden("You are not an assigned reviewer for this submission")
	}
	if in.Score < 1 || in.Score > 10 {
		return nil, errValidation("Score must be between 1 and 10")
	}

	recommendation := NormalizeRecommendation(in.RawRecommendation)
	if !IsCanonicalRecommendation(recommendation) {
		return nil, errValidation("Recommendation must be one of ACCEPT, REJECT, MINOR_REVISION, MAJOR_REVISION")
	}

	if existing == nil {
		submittedAt := now
		return &models.Review{
			SubmissionID:         submission.SubmissionID,
			ReviewerID:           reviewerID,
			TrackID:              *submission.TrackID,
			Score:                in.Score,
			Recommendation:       recommendation,
			Status:               ReviewStatusFor(recommendation),
			Comments:             in.Comments,
			ConfidentialComments: in.ConfidentialComments,
			SubmittedAt:          &submittedAt,
		}, nil
	}

	if !CanUpdateReview(existing, submission) {
		return nil, errConflict("You have already reviewed this submission; updates require an author revision")
	}

	updated := *existing
	updated.Score = in.Score
	updated.Recommendation = recommendation
	updated.Status = ReviewStatusFor(recommendation)
	updated.Comments = in.Comments
	if in.ConfidentialComments != nil {
		updated.ConfidentialComments = in.ConfidentialComments
	}
	submittedAt := now
	updated.SubmittedAt = &submittedAt
	return &updated, nil
}

// SubmitReview creates or overwrites the caller's review on a submission and
// applies the lifecycle side effects: a revision verdict moves the
// submission to `revision` and notifies the authors, and completing the
// assigned-reviewer set notifies the organizer. Notification failures are
// logged only.
func (s *ReviewService) SubmitReview(reviewerID, submissionID int, in ReviewInput) (*models.Review, error) {
	var submission models.Submission
	err := s.db.Preload("AssignedReviewers").Preload("Coauthors").Preload("Author").Preload("Conference").
		Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("Submission not found")
		}
		return nil, err
	}

	if submission.TrackID != nil {
		var track models.Track
		if err := s.db.Where("track_id = ? AND delete_at IS NULL", *submission.TrackID).First(&track).Error; err == nil {
			if track.ConferenceID != submission.ConferenceID {
				return nil, errConflict("Submission track does not belong to its conference")
			}
		}
	}

	var existing *models.Review
	var current models.Review
	err = s.db.Where("submission_id = ? AND reviewer_id = ?", submissionID, reviewerID).First(&current).Error
	switch {
	case err == nil:
		existing = &current
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first review for this pair
	default:
		return nil, err
	}

	review, err := PlanReviewWrite(existing, &submission, reviewerID, in, time.Now())
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := s.db.Create(review).Error; err != nil {
			if IsDuplicateKey(err) {
				return nil, errConflict("A review by you already exists for this submission")
			}
			return nil, err
		}
	} else {
		if err := s.db.Save(review).Error; err != nil {
			return nil, err
		}
	}

	if review.IsRevisionVerdict() {
		s.moveSubmissionToRevision(&submission, review)
	}

	s.notifyWhenAllReviewsIn(&submission)

	return review, nil
}

// moveSubmissionToRevision applies the automatic under_review/submitted →
// revision transition triggered by a revision verdict.
func (s *ReviewService) moveSubmissionToRevision(submission *models.Submission, review *models.Review) {
	if submission.Status != models.SubmissionStatusSubmitted &&
		submission.Status != models.SubmissionStatusUnderReview {
		return
	}

	feedback := review.Comments
	if feedback == "" {
		feedback = defaultRevisionFeedback
	}

	updates := map[string]interface{}{
		"status":            models.SubmissionStatusRevision,
		"decision_feedback": feedback,
	}
	if err := s.db.Model(&models.Submission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Updates(updates).Error; err != nil {
		log.Printf("Failed to move submission %d to revision: %v", submission.SubmissionID, err)
		return
	}

	oldStatus := submission.Status
	RecordStatusChange(s.db, submission.SubmissionID, &oldStatus,
		models.SubmissionStatusRevision, review.ReviewerID, feedback)

	submission.Status = models.SubmissionStatusRevision
	s.notifications.NotifyRevisionRequested(submission, feedback)
}

// notifyWhenAllReviewsIn tells the conference organizer once every assigned
// reviewer has a live review on the submission. Re-read after the write;
// racy under concurrent reviewers, guarded only by the unique review index.
func (s *ReviewService) notifyWhenAllReviewsIn(submission *models.Submission) {
	assigned := len(submission.AssignedReviewers)
	if assigned == 0 {
		return
	}

	var count int64
	err := s.db.Model(&models.Review{}).
		Where("submission_id = ? AND status IN ?", submission.SubmissionID,
			[]string{models.ReviewStatusSubmitted, models.ReviewStatusPendingRevision}).
		Count(&count).Error
	if err != nil {
		log.Printf("Failed to count reviews for submission %d: %v", submission.SubmissionID, err)
		return
	}

	if int(count) == assigned {
		s.notifications.NotifyAllReviewsComplete(submission)
	}
}

// ReviewUpdateEligibility is the read-only answer to "can I re-review?".
type ReviewUpdateEligibility struct {
	HasReview       bool `json:"has_review"`
	PaperWasRevised bool `json:"paper_was_revised"`
	CanUpdate       bool `json:"can_update"`
}

// GetUpdateEligibility computes the revision-eligibility predicate for a
// reviewer's existing review without writing anything.
func (s *ReviewService) GetUpdateEligibility(reviewerID, submissionID int) (*ReviewUpdateEligibility, error) {
	var submission models.Submission
	err := s.db.Where("submission_id = ? AND deleted_at IS NULL", submissionID).First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("Submission not found")
		}
		return nil, err
	}

	var review models.Review
	err = s.db.Where("submission_id = ? AND reviewer_id = ?", submissionID, reviewerID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ReviewUpdateEligibility{}, nil
		}
		return nil, err
	}

	return &ReviewUpdateEligibility{
		HasReview:       true,
		PaperWasRevised: PaperWasRevised(&submission, &review),
		CanUpdate:       CanUpdateReview(&review, &submission),
	}, nil
}

// ReviewListItem is one review as shown to an organizer. Score shadows the
// embedded field so a provisional score serializes as null.
type ReviewListItem struct {
	models.Review
	Score        *int    `json:"score"`
	ScoreDisplay *string `json:"score_display,omitempty"`
}

// ReviewListing is the organizer-facing aggregation over a submission's
// reviews.
type ReviewListing struct {
	Reviews        []ReviewListItem `json:"reviews"`
	SubmittedCount int              `json:"submitted_count"`
	AverageScore   *float64         `json:"average_score"`
}

// BuildReviewListing masks pending_revision scores and averages only over
// submitted reviews, so provisional scores never reach an organizer.
func BuildReviewListing(reviews []models.Review) ReviewListing {
	listing := ReviewListing{Reviews: make([]ReviewListItem, 0, len(reviews))}

	var total int
	for _, review := range reviews {
		item := ReviewListItem{Review: review}
		if review.Status == models.ReviewStatusPendingRevision {
			display := RevisionPendingScoreDisplay
			item.ScoreDisplay = &display
		} else {
			score := review.Score
			item.Score = &score
			if review.Status == models.ReviewStatusSubmitted {
				total += review.Score
				listing.SubmittedCount++
			}
		}
		listing.Reviews = append(listing.Reviews, item)
	}

	if listing.SubmittedCount > 0 {
		avg := float64(total) / float64(listing.SubmittedCount)
		listing.AverageScore = &avg
	}
	return listing
}

// ListSubmissionReviews returns the masked organizer listing for one
// submission.
func (s *ReviewService) ListSubmissionReviews(submissionID int) (*ReviewListing, error) {
	var reviews []models.Review
	err := s.db.Preload("Reviewer").
		Where("submission_id = ?", submissionID).
		Order("submitted_at ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	listing := BuildReviewListing(reviews)
	return &listing, nil
}
