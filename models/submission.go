package models

import "time"

// Submission status values.
const (
	SubmissionStatusSubmitted   = "submitted"
	SubmissionStatusUnderReview = "under_review"
	SubmissionStatusAccepted    = "accepted"
	SubmissionStatusRejected    = "rejected"
	SubmissionStatusRevision    = "revision"
)

type Submission struct {
	SubmissionID           int        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	Title                  string     `gorm:"column:title" json:"title"`
	Abstract               string     `gorm:"column:abstract" json:"abstract"`
	AuthorID               int        `gorm:"column:author_id" json:"author_id"`
	ConferenceID           int        `gorm:"column:conference_id" json:"conference_id"`
	TrackID                *int       `gorm:"column:track_id" json:"track_id,omitempty"`
	FileURL                *string    `gorm:"column:file_url" json:"file_url,omitempty"`
	Status                 string     `gorm:"column:status" json:"status"`
	DecidedBy              *int       `gorm:"column:decided_by" json:"decided_by,omitempty"`
	DecidedAt              *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	DecisionFeedback       *string    `gorm:"column:decision_feedback" json:"decision_feedback,omitempty"`
	OrganizerApproved      bool       `gorm:"column:organizer_approved" json:"organizer_approved"`
	ApprovedAt             *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	AuthorAttendanceMarked bool       `gorm:"column:author_attendance_marked" json:"author_attendance_marked"`
	RevisionCount          int        `gorm:"column:revision_count" json:"revision_count"`
	SubmittedAt            *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	LastUpdatedAt          *time.Time `gorm:"column:last_updated_at" json:"last_updated_at,omitempty"`
	DeletedAt              *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	// Relations
	Author            *User                `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Conference        *Conference          `gorm:"foreignKey:ConferenceID;references:ConferenceID" json:"conference,omitempty"`
	Track             *Track               `gorm:"foreignKey:TrackID;references:TrackID" json:"track,omitempty"`
	AssignedReviewers []SubmissionReviewer `gorm:"foreignKey:SubmissionID" json:"assigned_reviewers,omitempty"`
	Coauthors         []SubmissionAuthor   `gorm:"foreignKey:SubmissionID" json:"coauthors,omitempty"`
}

// SubmissionReviewer is one member of a submission's assigned-reviewer set.
type SubmissionReviewer struct {
	ID           int       `gorm:"primaryKey;column:id" json:"id"`
	SubmissionID int       `gorm:"column:submission_id;uniqueIndex:uq_submission_reviewer" json:"submission_id"`
	ReviewerID   int       `gorm:"column:reviewer_id;uniqueIndex:uq_submission_reviewer" json:"reviewer_id"`
	AddedAt      time.Time `gorm:"column:added_at" json:"added_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// SubmissionAuthor is a co-author row. UserID is nil for contacts without a
// linked account; those are skipped by certificate generation.
type SubmissionAuthor struct {
	ID           int        `gorm:"primaryKey;column:id" json:"id"`
	SubmissionID int        `gorm:"column:submission_id" json:"submission_id"`
	UserID       *int       `gorm:"column:user_id" json:"user_id,omitempty"`
	Name         string     `gorm:"column:name" json:"name"`
	Email        *string    `gorm:"column:email" json:"email,omitempty"`
	DisplayOrder int        `gorm:"column:display_order" json:"display_order"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// SubmissionStatusHistory records every status transition for auditing.
type SubmissionStatusHistory struct {
	HistoryID    int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	OldStatus    *string   `gorm:"column:old_status" json:"old_status,omitempty"`
	NewStatus    string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy    int       `gorm:"column:changed_by" json:"changed_by"`
	Reason       *string   `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

// IsTerminal reports whether no further lifecycle transition is defined.
func (s *Submission) IsTerminal() bool {
	return s.Status == SubmissionStatusAccepted || s.Status == SubmissionStatusRejected
}

// HasAssignedReviewer reports membership in the assigned-reviewer set.
func (s *Submission) HasAssignedReviewer(reviewerID int) bool {
	for _, r := range s.AssignedReviewers {
		if r.ReviewerID == reviewerID {
			return true
		}
	}
	return false
}

// TableName overrides
func (Submission) TableName() string {
	return "submissions"
}

func (SubmissionReviewer) TableName() string {
	return "submission_reviewers"
}

func (SubmissionAuthor) TableName() string {
	return "submission_authors"
}

func (SubmissionStatusHistory) TableName() string {
	return "submission_status_history"
}
