package services

import (
	"log"
	"time"

	"conference-management-api/models"

	"gorm.io/gorm"
)

// RecordStatusChange appends a SubmissionStatusHistory row. Audit writes are
// best effort: a failure is logged and the triggering transition stands.
func RecordStatusChange(db *gorm.DB, submissionID int, oldStatus *string, newStatus string, changedBy int, reason string) {
	row := models.SubmissionStatusHistory{
		SubmissionID: submissionID,
		OldStatus:    oldStatus,
		NewStatus:    newStatus,
		ChangedBy:    changedBy,
		CreatedAt:    time.Now(),
	}
	if reason != "" {
		row.Reason = &reason
	}
	if err := db.Create(&row).Error; err != nil {
		log.Printf("Failed to record status history for submission %d: %v", submissionID, err)
	}
}
