package models

import "time"

// Bid status values.
const (
	BidStatusPending   = "PENDING"
	BidStatusApproved  = "APPROVED"
	BidStatusRejected  = "REJECTED"
	BidStatusWithdrawn = "WITHDRAWN"
)

// Bid records a reviewer's interest in reviewing a submission. At most one
// bid exists per (reviewer, submission); the unique index is the concurrency
// safety net for duplicate placements.
type Bid struct {
	BidID          int        `gorm:"primaryKey;column:bid_id" json:"bid_id"`
	ReviewerID     int        `gorm:"column:reviewer_id;uniqueIndex:uq_bid_reviewer_submission" json:"reviewer_id"`
	SubmissionID   int        `gorm:"column:submission_id;uniqueIndex:uq_bid_reviewer_submission" json:"submission_id"`
	TrackID        int        `gorm:"column:track_id" json:"track_id"`
	Confidence     int        `gorm:"column:confidence" json:"confidence"`
	Status         string     `gorm:"column:status" json:"status"`
	DecidedBy      *int       `gorm:"column:decided_by" json:"decided_by,omitempty"`
	DecidedAt      *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	DecisionReason *string    `gorm:"column:decision_reason" json:"decision_reason,omitempty"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Reviewer   *User       `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Submission *Submission `gorm:"foreignKey:SubmissionID;references:SubmissionID" json:"submission,omitempty"`
}

// TableName overrides
func (Bid) TableName() string {
	return "bids"
}
