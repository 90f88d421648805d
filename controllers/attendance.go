package controllers

import (
	"net/http"
	"strconv"
	"time"

	"conference-management-api/config"
	"conference-management-api/models"

	"github.com/gin-gonic/gin"
)

// MarkAuthorAttendance flags an accepted submission's author as having
// attended, the precondition for presentation certificates.
func MarkAuthorAttendance(c *gin.Context) {
	organizerID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	if !organizerOwnsConference(c, organizerID, submission.ConferenceID) {
		return
	}

	if submission.Status != models.SubmissionStatusAccepted {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Attendance can only be marked on accepted submissions; current status is " + submission.Status,
		})
		return
	}

	if err := config.DB.Model(&submission).
		Update("author_attendance_marked", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Author attendance marked",
	})
}

// MarkParticipantAttendance flags a registration as attended, the
// precondition for participation certificates.
func MarkParticipantAttendance(c *gin.Context) {
	organizerID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	registrationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || registrationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration ID"})
		return
	}

	var registration models.Registration
	if err := config.DB.Where("registration_id = ?", registrationID).
		First(&registration).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
		return
	}
	if !organizerOwnsConference(c, organizerID, registration.ConferenceID) {
		return
	}

	now := time.Now()
	if err := config.DB.Model(&registration).Updates(map[string]interface{}{
		"attendance_marked": true,
		"update_at":         now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Participant attendance marked",
	})
}
