package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"conference-management-api/config"
	"conference-management-api/models"
	"conference-management-api/services"

	"github.com/gin-gonic/gin"
)

// GenerateCertificates runs certificate generation for a conference.
// Re-running on an unchanged eligible set creates nothing.
func GenerateCertificates(c *gin.Context) {
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

	result, err := services.NewCertificateService(config.DB).GenerateForConference(conferenceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// GetCertificateEligibility reports eligible/existing/pending counts per
// role without issuing anything.
func GetCertificateEligibility(c *gin.Context) {
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

	summary, err := services.NewCertificateService(config.DB).EligibilitySummary(conferenceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"eligibility": summary,
	})
}

// GetMyCertificates lists the caller's certificates without their buffers.
func GetMyCertificates(c *gin.Context) {
	userID, _ := getUserID(c)

	var certificates []models.Certificate
	if err := config.DB.Preload("Conference").
		Select("certificate_id", "user_id", "conference_id", "type", "submission_id",
			"role", "unique_certificate_id", "issued_at").
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&certificates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch certificates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"certificates": certificates,
		"total":        len(certificates),
	})
}

// DownloadCertificate streams the rendered artifact to its owner.
func DownloadCertificate(c *gin.Context) {
	userID, _ := getUserID(c)

	certificateID, err := strconv.Atoi(c.Param("id"))
	if err != nil || certificateID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid certificate ID"})
		return
	}

	var certificate models.Certificate
	if err := config.DB.Where("certificate_id = ? AND user_id = ?", certificateID, userID).
		First(&certificate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Certificate not found"})
		return
	}

	filename := fmt.Sprintf("certificate-%s.html", certificate.UniqueCertificateID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/html; charset=utf-8", certificate.CertificateBuffer)
}
