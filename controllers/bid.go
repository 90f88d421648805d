package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"conference-management-api/config"
	"conference-management-api/models"
	"conference-management-api/services"

	"github.com/gin-gonic/gin"
)

// PlaceBid records a reviewer's interest in reviewing a submission.
func PlaceBid(c *gin.Context) {
	reviewerID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	type PlaceBidRequest struct {
		SubmissionID int `json:"submission_id" binding:"required"`
		Confidence   int `json:"confidence"`
	}

	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Confidence < 0 || req.Confidence > 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Confidence must be between 0 and 10"})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", req.SubmissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	if submission.TrackID == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Submission has no track and cannot be bid on"})
		return
	}

	var track models.Track
	if err := config.DB.Where("track_id = ? AND delete_at IS NULL", *submission.TrackID).
		First(&track).Error; err == nil && track.ConferenceID != submission.ConferenceID {
		c.JSON(http.StatusConflict, gin.H{"error": "Submission track does not belong to its conference"})
		return
	}

	bid := models.Bid{
		ReviewerID:   reviewerID,
		SubmissionID: submission.SubmissionID,
		TrackID:      *submission.TrackID,
		Confidence:   req.Confidence,
		Status:       models.BidStatusPending,
		CreateAt:     time.Now(),
	}

	if err := config.DB.Create(&bid).Error; err != nil {
		if services.IsDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already bid on this submission"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place bid"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Bid placed successfully",
		"bid":     bid,
	})
}

// WithdrawBid moves the caller's pending bid to WITHDRAWN. Any other
// current status is refused and named in the error.
func WithdrawBid(c *gin.Context) {
	reviewerID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	bidID, err := strconv.Atoi(c.Param("id"))
	if err != nil || bidID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bid ID"})
		return
	}

	var bid models.Bid
	if err := config.DB.Where("bid_id = ? AND reviewer_id = ?", bidID, reviewerID).
		First(&bid).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bid not found"})
		return
	}

	if bid.Status != models.BidStatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("Only pending bids can be withdrawn; current status is %s", bid.Status),
		})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&bid).Updates(map[string]interface{}{
		"status":    models.BidStatusWithdrawn,
		"update_at": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw bid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bid withdrawn",
	})
}

// GetMyBids lists the caller's bids.
func GetMyBids(c *gin.Context) {
	reviewerID, _ := getUserID(c)

	var bids []models.Bid
	if err := config.DB.Preload("Submission").
		Where("reviewer_id = ?", reviewerID).
		Order("create_at DESC").
		Find(&bids).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bids"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bids":    bids,
		"total":   len(bids),
	})
}

// GetSubmissionBids lists bids on one submission (organizer view). Optional
// ?track_id= filters by track.
func GetSubmissionBids(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	query := config.DB.Preload("Reviewer").Where("submission_id = ?", submissionID)
	if trackParam := c.Query("track_id"); trackParam != "" {
		trackID, err := strconv.Atoi(trackParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid track ID"})
			return
		}
		query = query.Where("track_id = ?", trackID)
	}

	var bids []models.Bid
	if err := query.Order("create_at DESC").Find(&bids).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bids"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bids":    bids,
		"total":   len(bids),
	})
}

// GetConferenceBids lists bids across a conference (organizer view).
func GetConferenceBids(c *gin.Context) {
	organizerID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	conferenceID, err := strconv.Atoi(c.Param("id"))
	if err != nil || conferenceID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conference ID"})
		return
	}
	if !organizerOwnsConference(c, organizerID, conferenceID) {
		return
	}

	query := config.DB.Preload("Reviewer").Preload("Submission").
		Joins("JOIN submissions ON submissions.submission_id = bids.submission_id").
		Where("submissions.conference_id = ?", conferenceID)
	if trackParam := c.Query("track_id"); trackParam != "" {
		trackID, err := strconv.Atoi(trackParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid track ID"})
			return
		}
		query = query.Where("bids.track_id = ?", trackID)
	}

	var bids []models.Bid
	if err := query.Order("bids.create_at DESC").Find(&bids).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bids"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bids":    bids,
		"total":   len(bids),
	})
}

// DecideBid approves or rejects a pending bid. Approval creates the
// assignment and adds the reviewer to the submission's assigned set.
func DecideBid(c *gin.Context) {
	organizerID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	bidID, err := strconv.Atoi(c.Param("id"))
	if err != nil || bidID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bid ID"})
		return
	}

	type DecideBidRequest struct {
		Decision string `json:"decision" binding:"required"` // approve|reject
		Reason   string `json:"reason"`
	}

	var req DecideBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Decision != "approve" && req.Decision != "reject" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Decision must be either 'approve' or 'reject'"})
		return
	}

	var bid models.Bid
	if err := config.DB.Preload("Submission").Where("bid_id = ?", bidID).First(&bid).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bid not found"})
		return
	}
	if bid.Status != models.BidStatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("Bid has already been decided; current status is %s", bid.Status),
		})
		return
	}
	if bid.Submission == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Bid refers to a missing submission"})
		return
	}
	if !organizerOwnsConference(c, organizerID, bid.Submission.ConferenceID) {
		return
	}

	now := time.Now()
	newStatus := models.BidStatusApproved
	if req.Decision == "reject" {
		newStatus = models.BidStatusRejected
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	updates := map[string]interface{}{
		"status":     newStatus,
		"decided_by": organizerID,
		"decided_at": now,
		"update_at":  now,
	}
	if req.Reason != "" {
		updates["decision_reason"] = req.Reason
	}
	if err := tx.Model(&models.Bid{}).Where("bid_id = ?", bid.BidID).Updates(updates).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bid"})
		return
	}

	if newStatus == models.BidStatusApproved {
		bidRef := bid.BidID
		assignment := models.Assignment{
			ReviewerID:   bid.ReviewerID,
			SubmissionID: bid.SubmissionID,
			TrackID:      bid.TrackID,
			ConferenceID: bid.Submission.ConferenceID,
			BidID:        &bidRef,
			Source:       models.AssignmentSourceManual,
			MatchScore:   bid.Confidence * 10,
			Status:       models.AssignmentStatusActive,
			AssignedBy:   &organizerID,
			AssignedAt:   now,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			if !services.IsDuplicateKey(err) {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create assignment"})
				return
			}
			// reviewer already assigned, keep the existing assignment
		}

		reviewer := models.SubmissionReviewer{
			SubmissionID: bid.SubmissionID,
			ReviewerID:   bid.ReviewerID,
			AddedAt:      now,
		}
		if err := tx.Create(&reviewer).Error; err != nil && !services.IsDuplicateKey(err) {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add reviewer to submission"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize bid decision"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Bid %s", newStatus),
	})
}
