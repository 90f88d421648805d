package models

import "time"

// Canonical review recommendations.
const (
	RecommendationAccept        = "ACCEPT"
	RecommendationReject        = "REJECT"
	RecommendationMinorRevision = "MINOR_REVISION"
	RecommendationMajorRevision = "MAJOR_REVISION"
)

// Review status values. A review is `submitted` exactly when its
// recommendation is a final verdict (ACCEPT/REJECT); revision verdicts leave
// it `pending_revision` until the reviewer finalizes after an author update.
// Reviews only exist once submitted, so there is no draft state.
const (
	ReviewStatusSubmitted       = "submitted"
	ReviewStatusPendingRevision = "pending_revision"
)

// Review is the single live review of one reviewer on one submission.
// Revision is an in-place overwrite, never a second row.
type Review struct {
	ReviewID             int        `gorm:"primaryKey;column:review_id" json:"review_id"`
	SubmissionID         int        `gorm:"column:submission_id;uniqueIndex:uq_review_submission_reviewer" json:"submission_id"`
	ReviewerID           int        `gorm:"column:reviewer_id;uniqueIndex:uq_review_submission_reviewer" json:"reviewer_id"`
	TrackID              int        `gorm:"column:track_id" json:"track_id"`
	Score                int        `gorm:"column:score" json:"score"`
	Recommendation       string     `gorm:"column:recommendation" json:"recommendation"`
	Status               string     `gorm:"column:status" json:"status"`
	Comments             string     `gorm:"column:comments" json:"comments"`
	ConfidentialComments *string    `gorm:"column:confidential_comments" json:"confidential_comments,omitempty"`
	SubmittedAt          *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`

	// Relations
	Reviewer   *User       `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Submission *Submission `gorm:"foreignKey:SubmissionID;references:SubmissionID" json:"submission,omitempty"`
}

// IsFinalVerdict reports whether the recommendation is terminal for this
// review (only final verdicts count toward reviewer certificates and
// organizer score averages).
func (r *Review) IsFinalVerdict() bool {
	return r.Recommendation == RecommendationAccept || r.Recommendation == RecommendationReject
}

// IsRevisionVerdict reports whether the recommendation requests an author
// revision cycle.
func (r *Review) IsRevisionVerdict() bool {
	return r.Recommendation == RecommendationMinorRevision || r.Recommendation == RecommendationMajorRevision
}

// TableName overrides
func (Review) TableName() string {
	return "reviews"
}
