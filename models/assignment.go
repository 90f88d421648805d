package models

import "time"

// Assignment source and status values.
const (
	AssignmentSourceAuto   = "AUTO"
	AssignmentSourceManual = "MANUAL"

	AssignmentStatusActive    = "ACTIVE"
	AssignmentStatusCompleted = "COMPLETED"
	AssignmentStatusCancelled = "CANCELLED"
)

// Assignment is the authoritative record that a reviewer is responsible for
// a submission, whether bid-derived or organizer-assigned. Locked rows are
// never overwritten by matching-engine re-runs.
type Assignment struct {
	AssignmentID int        `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	ReviewerID   int        `gorm:"column:reviewer_id;uniqueIndex:uq_assignment_reviewer_submission" json:"reviewer_id"`
	SubmissionID int        `gorm:"column:submission_id;uniqueIndex:uq_assignment_reviewer_submission" json:"submission_id"`
	TrackID      int        `gorm:"column:track_id" json:"track_id"`
	ConferenceID int        `gorm:"column:conference_id" json:"conference_id"`
	BidID        *int       `gorm:"column:bid_id" json:"bid_id,omitempty"`
	Source       string     `gorm:"column:source" json:"source"`
	MatchScore   int        `gorm:"column:match_score" json:"match_score"`
	Status       string     `gorm:"column:status" json:"status"`
	Locked       bool       `gorm:"column:locked" json:"locked"`
	AssignedBy   *int       `gorm:"column:assigned_by" json:"assigned_by,omitempty"`
	AssignedAt   time.Time  `gorm:"column:assigned_at" json:"assigned_at"`
	CompletedAt  *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	// Relations
	Reviewer   *User       `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Submission *Submission `gorm:"foreignKey:SubmissionID;references:SubmissionID" json:"submission,omitempty"`
	Bid        *Bid        `gorm:"foreignKey:BidID;references:BidID" json:"bid,omitempty"`
}

// TableName overrides
func (Assignment) TableName() string {
	return "assignments"
}
