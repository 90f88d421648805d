package controllers

import (
	"net/http"
	"strconv"
	"time"

	"conference-management-api/config"
	"conference-management-api/models"
	"conference-management-api/services"

	"github.com/gin-gonic/gin"
)

// CreateAssignment manually assigns a reviewer to a submission. Manual
// assignments need no bid and are created locked so matching-engine re-runs
// never overwrite them.
func CreateAssignment(c *gin.Context) {
	organizerID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	type CreateAssignmentRequest struct {
		ReviewerID   int   `json:"reviewer_id" binding:"required"`
		SubmissionID int   `json:"submission_id" binding:"required"`
		MatchScore   int   `json:"match_score"`
		Locked       *bool `json:"locked"`
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MatchScore < 0 || req.MatchScore > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Match score must be between 0 and 100"})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", req.SubmissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	if submission.TrackID == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Submission has no track and cannot be assigned"})
		return
	}
	if !organizerOwnsConference(c, organizerID, submission.ConferenceID) {
		return
	}

	var reviewer models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", req.ReviewerID).
		First(&reviewer).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reviewer not found"})
		return
	}

	locked := true
	if req.Locked != nil {
		locked = *req.Locked
	}

	now := time.Now()
	assignment := models.Assignment{
		ReviewerID:   req.ReviewerID,
		SubmissionID: req.SubmissionID,
		TrackID:      *submission.TrackID,
		ConferenceID: submission.ConferenceID,
		Source:       models.AssignmentSourceManual,
		MatchScore:   req.MatchScore,
		Status:       models.AssignmentStatusActive,
		Locked:       locked,
		AssignedBy:   &organizerID,
		AssignedAt:   now,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&assignment).Error; err != nil {
		tx.Rollback()
		if services.IsDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Reviewer is already assigned to this submission"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create assignment"})
		return
	}

	member := models.SubmissionReviewer{
		SubmissionID: req.SubmissionID,
		ReviewerID:   req.ReviewerID,
		AddedAt:      now,
	}
	if err := tx.Create(&member).Error; err != nil && !services.IsDuplicateKey(err) {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add reviewer to submission"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize assignment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Reviewer assigned",
		"assignment": assignment,
	})
}

// GetAssignments lists assignments filtered by submission or conference.
func GetAssignments(c *gin.Context) {
	query := config.DB.Preload("Reviewer").Preload("Submission")

	if subParam := c.Query("submission_id"); subParam != "" {
		submissionID, err := strconv.Atoi(subParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
			return
		}
		query = query.Where("submission_id = ?", submissionID)
	}
	if confParam := c.Query("conference_id"); confParam != "" {
		conferenceID, err := strconv.Atoi(confParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conference ID"})
			return
		}
		query = query.Where("conference_id = ?", conferenceID)
	}

	var assignments []models.Assignment
	if err := query.Order("assigned_at DESC").Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assignments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// SetAssignmentLock locks or unlocks one assignment.
func SetAssignmentLock(c *gin.Context) {
	organizerID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	assignmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assignmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	type LockRequest struct {
		Locked *bool `json:"locked" binding:"required"`
	}
	var req LockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var assignment models.Assignment
	if err := config.DB.Where("assignment_id = ?", assignmentID).First(&assignment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}
	if !organizerOwnsConference(c, organizerID, assignment.ConferenceID) {
		return
	}

	if err := config.DB.Model(&assignment).Update("locked", *req.Locked).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update assignment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"locked":  *req.Locked,
	})
}

// DeleteAssignment removes an assignment and the reviewer's membership in
// the submission's assigned set. Locked assignments must be unlocked first.
func DeleteAssignment(c *gin.Context) {
	organizerID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	assignmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assignmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	var assignment models.Assignment
	if err := config.DB.Where("assignment_id = ?", assignmentID).First(&assignment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}
	if !organizerOwnsConference(c, organizerID, assignment.ConferenceID) {
		return
	}
	if assignment.Locked {
		c.JSON(http.StatusConflict, gin.H{"error": "Assignment is locked; unlock it before deleting"})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Delete(&assignment).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete assignment"})
		return
	}
	if err := tx.Where("submission_id = ? AND reviewer_id = ?", assignment.SubmissionID, assignment.ReviewerID).
		Delete(&models.SubmissionReviewer{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove reviewer from submission"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize deletion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Assignment deleted",
	})
}
