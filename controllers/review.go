package controllers

import (
	"net/http"
	"strconv"

	"conference-management-api/config"
	"conference-management-api/models"
	"conference-management-api/services"

	"github.com/gin-gonic/gin"
)

// SubmitReview creates or revises the caller's review on a submission.
func SubmitReview(c *gin.Context) {
	reviewerID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	type SubmitReviewRequest struct {
		Score                int     `json:"score" binding:"required"`
		Comments             string  `json:"comments"`
		Recommendation       string  `json:"recommendation" binding:"required"`
		ConfidentialComments *string `json:"confidential_comments"`
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := services.NewReviewService(config.DB).SubmitReview(reviewerID, submissionID, services.ReviewInput{
		Score:                req.Score,
		Comments:             req.Comments,
		RawRecommendation:    req.Recommendation,
		ConfidentialComments: req.ConfidentialComments,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review saved",
		"review":  review,
	})
}

// GetMyReview returns the caller's review on a submission.
func GetMyReview(c *gin.Context) {
	reviewerID, _ := getUserID(c)

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var review models.Review
	if err := config.DB.Where("submission_id = ? AND reviewer_id = ?", submissionID, reviewerID).
		First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"review":  review,
	})
}

// GetReviewUpdateEligibility answers the read-only "can I re-review?"
// query with the same predicate the write path enforces.
func GetReviewUpdateEligibility(c *gin.Context) {
	reviewerID, _ := getUserID(c)

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	eligibility, err := services.NewReviewService(config.DB).GetUpdateEligibility(reviewerID, submissionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"eligibility": eligibility,
	})
}

// GetSubmissionReviews lists a submission's reviews for an organizer.
// Provisional scores are masked and excluded from the average.
func GetSubmissionReviews(c *gin.Context) {
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

	listing, err := services.NewReviewService(config.DB).ListSubmissionReviews(submissionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"reviews":         listing.Reviews,
		"submitted_count": listing.SubmittedCount,
		"average_score":   listing.AverageScore,
		"total":           len(listing.Reviews),
	})
}

// GetMyReviews lists all reviews by the caller.
func GetMyReviews(c *gin.Context) {
	reviewerID, _ := getUserID(c)

	var reviews []models.Review
	if err := config.DB.Preload("Submission").
		Where("reviewer_id = ?", reviewerID).
		Order("submitted_at DESC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// GetTrackReviews lists reviews across one track (organizer view).
func GetTrackReviews(c *gin.Context) {
	organizerID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	trackID, err := strconv.Atoi(c.Param("id"))
	if err != nil || trackID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid track ID"})
		return
	}

	var track models.Track
	if err := config.DB.Where("track_id = ? AND delete_at IS NULL", trackID).
		First(&track).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Track not found"})
		return
	}
	if !organizerOwnsConference(c, organizerID, track.ConferenceID) {
		return
	}

	var reviews []models.Review
	if err := config.DB.Preload("Reviewer").Preload("Submission").
		Where("track_id = ?", trackID).
		Order("submitted_at DESC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	listing := services.BuildReviewListing(reviews)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": listing.Reviews,
		"total":   len(listing.Reviews),
	})
}
