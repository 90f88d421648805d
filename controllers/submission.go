package controllers

import (
	"net/http"
	"strconv"
	"time"

	"conference-management-api/config"
	"conference-management-api/models"
	"conference-management-api/services"
	"conference-management-api/utils"

	"github.com/gin-gonic/gin"
)

// CreateSubmission creates a new paper submission with status `submitted`.
func CreateSubmission(c *gin.Context) {
	authorID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	type CreateSubmissionRequest struct {
		Title        string  `json:"title" binding:"required"`
		Abstract     string  `json:"abstract" binding:"required"`
		ConferenceID int     `json:"conference_id" binding:"required"`
		TrackID      *int    `json:"track_id"`
		FileURL      *string `json:"file_url"`
	}

	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var conference models.Conference
	if err := config.DB.Where("conference_id = ? AND delete_at IS NULL", req.ConferenceID).
		First(&conference).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conference"})
		return
	}

	if req.TrackID != nil {
		var track models.Track
		if err := config.DB.Where("track_id = ? AND delete_at IS NULL", *req.TrackID).
			First(&track).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid track"})
			return
		}
		if track.ConferenceID != req.ConferenceID {
			c.JSON(http.StatusConflict, gin.H{"error": "Track does not belong to the conference"})
			return
		}
	}

	now := time.Now()
	submission := models.Submission{
		Title:         utils.SanitizeInput(req.Title),
		Abstract:      utils.SanitizeInput(req.Abstract),
		AuthorID:      authorID,
		ConferenceID:  req.ConferenceID,
		TrackID:       req.TrackID,
		FileURL:       req.FileURL,
		Status:        models.SubmissionStatusSubmitted,
		SubmittedAt:   &now,
		LastUpdatedAt: &now,
	}

	if err := config.DB.Create(&submission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
		return
	}

	config.DB.Preload("Conference").Preload("Track").First(&submission, submission.SubmissionID)
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Submission created successfully",
		"submission": submission,
	})
}

// UpdateSubmission applies an author content change. last_updated_at is
// always bumped; it is the only signal the revision-eligibility predicate
// reads. A submission sitting in `revision` re-enters the review cycle.
func UpdateSubmission(c *gin.Context) {
	authorID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	type UpdateSubmissionRequest struct {
		Title    *string `json:"title"`
		Abstract *string `json:"abstract"`
		FileURL  *string `json:"file_url"`
	}

	var req UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND author_id = ? AND deleted_at IS NULL",
		submissionID, authorID).First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	if submission.IsTerminal() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Submission can no longer be updated; current status is " + submission.Status,
		})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"last_updated_at": now}
	if req.Title != nil {
		updates["title"] = utils.SanitizeInput(*req.Title)
	}
	if req.Abstract != nil {
		updates["abstract"] = utils.SanitizeInput(*req.Abstract)
	}
	if req.FileURL != nil {
		updates["file_url"] = *req.FileURL
	}

	// Re-entry from revision back into the review cycle.
	reentry := submission.Status == models.SubmissionStatusRevision
	newStatus := ""
	if reentry {
		newStatus = models.SubmissionStatusSubmitted
		if submission.OrganizerApproved {
			newStatus = models.SubmissionStatusUnderReview
		}
		updates["status"] = newStatus
		updates["revision_count"] = submission.RevisionCount + 1
	}

	if err := config.DB.Model(&submission).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		return
	}

	// History only once the write landed, so a failed update leaves no trace.
	if reentry {
		oldStatus := models.SubmissionStatusRevision
		services.RecordStatusChange(config.DB, submission.SubmissionID, &oldStatus,
			newStatus, authorID, "author re-upload")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission updated successfully",
	})
}

// GetSubmissions lists submissions: authors see their own, organizers can
// filter by conference.
func GetSubmissions(c *gin.Context) {
	userID, _ := getUserID(c)
	roleID, _ := getRoleID(c)

	query := config.DB.Preload("Conference").Preload("Track").Where("deleted_at IS NULL")

	if roleID == models.RoleOrganizer {
		if confParam := c.Query("conference_id"); confParam != "" {
			conferenceID, err := strconv.Atoi(confParam)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conference ID"})
				return
			}
			query = query.Where("conference_id = ?", conferenceID)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
	} else {
		query = query.Where("author_id = ?", userID)
	}

	var submissions []models.Submission
	if err := query.Order("submitted_at DESC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission returns one submission with authors and assigned reviewers.
func GetSubmission(c *gin.Context) {
	userID, _ := getUserID(c)
	roleID, _ := getRoleID(c)

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	query := config.DB.Preload("Conference").Preload("Track").
		Preload("Author").Preload("Coauthors").Preload("AssignedReviewers.Reviewer").
		Where("submission_id = ? AND deleted_at IS NULL", submissionID)
	if roleID == models.RoleAuthor {
		query = query.Where("author_id = ?", userID)
	}

	var submission models.Submission
	if err := query.First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// ApproveSubmission moves submitted → under_review (organizer approval).
func ApproveSubmission(c *gin.Context) {
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

	if submission.Status != models.SubmissionStatusSubmitted {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Only submitted papers can be approved for review; current status is " + submission.Status,
		})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&submission).Updates(map[string]interface{}{
		"status":             models.SubmissionStatusUnderReview,
		"organizer_approved": true,
		"approved_at":        now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve submission"})
		return
	}

	oldStatus := models.SubmissionStatusSubmitted
	services.RecordStatusChange(config.DB, submission.SubmissionID, &oldStatus,
		models.SubmissionStatusUnderReview, organizerID, "organizer approval")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission moved to under review",
	})
}

var decisionStatuses = map[string]bool{
	models.SubmissionStatusAccepted:    true,
	models.SubmissionStatusRejected:    true,
	models.SubmissionStatusRevision:    true,
	models.SubmissionStatusUnderReview: true,
}

// DecideSubmission records an explicit organizer decision and dispatches
// the role-specific notifications.
func DecideSubmission(c *gin.Context) {
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

	type DecisionRequest struct {
		Status   string `json:"status" binding:"required"`
		Feedback string `json:"feedback"`
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !decisionStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be one of accepted, rejected, revision, under_review"})
		return
	}

	var submission models.Submission
	if err := config.DB.Preload("Author").Preload("Coauthors").Preload("AssignedReviewers").
		Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	if !organizerOwnsConference(c, organizerID, submission.ConferenceID) {
		return
	}

	if submission.Status != models.SubmissionStatusSubmitted &&
		submission.Status != models.SubmissionStatusUnderReview {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Submission is not open for a decision; current status is " + submission.Status,
		})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     req.Status,
		"decided_by": organizerID,
		"decided_at": now,
	}
	if req.Feedback != "" {
		updates["decision_feedback"] = req.Feedback
	}
	if err := config.DB.Model(&models.Submission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record decision"})
		return
	}

	oldStatus := submission.Status
	services.RecordStatusChange(config.DB, submission.SubmissionID, &oldStatus,
		req.Status, organizerID, req.Feedback)

	services.NewNotificationService(config.DB).NotifyDecision(&submission, req.Status, req.Feedback)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Decision recorded",
		"status":  req.Status,
	})
}

// GetCoauthors lists a submission's co-author rows in display order.
func GetCoauthors(c *gin.Context) {
	userID, _ := getUserID(c)
	roleID, _ := getRoleID(c)

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	query := config.DB.Where("submission_id = ? AND deleted_at IS NULL", submissionID)
	if roleID == models.RoleAuthor {
		query = query.Where("author_id = ?", userID)
	}
	var submission models.Submission
	if err := query.First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	var coauthors []models.SubmissionAuthor
	if err := config.DB.Preload("User").
		Where("submission_id = ?", submissionID).
		Order("display_order ASC").
		Find(&coauthors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch co-authors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"coauthors": coauthors,
		"total":     len(coauthors),
	})
}

// AddCoauthor attaches a co-author to the caller's submission. A linked
// user_id is optional; unlinked contacts carry only name and email.
func AddCoauthor(c *gin.Context) {
	authorID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	type AddCoauthorRequest struct {
		UserID       *int    `json:"user_id"`
		Name         string  `json:"name"`
		Email        *string `json:"email"`
		DisplayOrder int     `json:"display_order"`
	}

	var req AddCoauthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND author_id = ? AND deleted_at IS NULL",
		submissionID, authorID).First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	name := utils.SanitizeInput(req.Name)
	if req.UserID != nil {
		var user models.User
		if err := config.DB.Where("user_id = ? AND delete_at IS NULL", *req.UserID).
			First(&user).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Linked user not found"})
			return
		}
		if name == "" {
			name = user.FullName()
		}
		if req.Email == nil {
			req.Email = &user.Email
		}
	}
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Co-author name is required"})
		return
	}
	if req.Email != nil && !utils.ValidateEmail(*req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid co-author email"})
		return
	}

	now := time.Now()
	coauthor := models.SubmissionAuthor{
		SubmissionID: submission.SubmissionID,
		UserID:       req.UserID,
		Name:         name,
		Email:        req.Email,
		DisplayOrder: req.DisplayOrder,
		CreateAt:     &now,
	}
	if err := config.DB.Create(&coauthor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add co-author"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Co-author added",
		"coauthor": coauthor,
	})
}
