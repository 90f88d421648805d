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

// organizerOwnsConference verifies the caller organizes the conference,
// writing the error response when not. Role gating happens in middleware;
// this is the ownership check.
func organizerOwnsConference(c *gin.Context, organizerID, conferenceID int) bool {
	var conference models.Conference
	if err := config.DB.Where("conference_id = ? AND delete_at IS NULL", conferenceID).
		First(&conference).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conference not found"})
		return false
	}
	if conference.OrganizerID != organizerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not organize this conference"})
		return false
	}
	return true
}

// GetConferences lists live conferences with their tracks.
func GetConferences(c *gin.Context) {
	var conferences []models.Conference
	if err := config.DB.Preload("Tracks", "delete_at IS NULL").
		Where("delete_at IS NULL").
		Order("start_date DESC").
		Find(&conferences).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"conferences": conferences,
		"total":       len(conferences),
	})
}

// GetConference returns one conference with tracks and organizer.
func GetConference(c *gin.Context) {
	conferenceID, err := strconv.Atoi(c.Param("id"))
	if err != nil || conferenceID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conference ID"})
		return
	}

	var conference models.Conference
	if err := config.DB.Preload("Tracks", "delete_at IS NULL").Preload("Organizer").
		Where("conference_id = ? AND delete_at IS NULL", conferenceID).
		First(&conference).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conference not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"conference": conference,
	})
}

// RegisterForConference creates the caller's registration; attendance is
// marked later by an organizer.
func RegisterForConference(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	conferenceID, err := strconv.Atoi(c.Param("id"))
	if err != nil || conferenceID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conference ID"})
		return
	}

	var conference models.Conference
	if err := config.DB.Where("conference_id = ? AND delete_at IS NULL", conferenceID).
		First(&conference).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conference not found"})
		return
	}

	var existing int64
	if err := config.DB.Model(&models.Registration{}).
		Where("conference_id = ? AND user_id = ?", conferenceID, userID).
		Count(&existing).Error; err == nil && existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "You are already registered for this conference"})
		return
	}

	registration := models.Registration{
		ConferenceID: conferenceID,
		UserID:       userID,
		RegisteredAt: time.Now(),
	}
	if err := config.DB.Create(&registration).Error; err != nil {
		if services.IsDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "You are already registered for this conference"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      "Registered successfully",
		"registration": registration,
	})
}
