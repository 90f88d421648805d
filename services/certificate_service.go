package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"conference-management-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateService derives certificate eligibility per role and performs
// idempotent issuance: existing rows are skipped, concurrent duplicate
// inserts collapse to a no-op on the unique constraint.
type CertificateService struct {
	db *gorm.DB
}

func NewCertificateService(db *gorm.DB) *CertificateService {
	return &CertificateService{db: db}
}

// PresentationIdentity is one (person, accepted paper) pair owed a
// presentation certificate.
type PresentationIdentity struct {
	UserID       int
	Name         string
	SubmissionID int
	PaperTitle   string
}

// EligiblePresentationIdentities lists, per accepted submission with author
// attendance marked, the primary author and every co-author carrying a
// linked account. Co-authors without a linked userId are skipped.
func EligiblePresentationIdentities(submissions []models.Submission) []PresentationIdentity {
	identities := make([]PresentationIdentity, 0, len(submissions))
	for _, submission := range submissions {
		if submission.Status != models.SubmissionStatusAccepted || !submission.AuthorAttendanceMarked {
			continue
		}

		seen := map[int]bool{}
		name := ""
		if submission.Author != nil {
			name = submission.Author.FullName()
		}
		identities = append(identities, PresentationIdentity{
			UserID:       submission.AuthorID,
			Name:         name,
			SubmissionID: submission.SubmissionID,
			PaperTitle:   submission.Title,
		})
		seen[submission.AuthorID] = true

		for _, coauthor := range submission.Coauthors {
			if coauthor.UserID == nil || seen[*coauthor.UserID] {
				continue
			}
			identities = append(identities, PresentationIdentity{
				UserID:       *coauthor.UserID,
				Name:         coauthor.Name,
				SubmissionID: submission.SubmissionID,
				PaperTitle:   submission.Title,
			})
			seen[*coauthor.UserID] = true
		}
	}
	return identities
}

// EligibleReviewerIDs deduplicates reviewers with at least one finalized
// review (status submitted, final verdict). Reviews stuck in
// pending_revision never count.
func EligibleReviewerIDs(reviews []models.Review) []int {
	ids := make([]int, 0, len(reviews))
	seen := map[int]bool{}
	for _, review := range reviews {
		if review.Status != models.ReviewStatusSubmitted || !review.IsFinalVerdict() {
			continue
		}
		if seen[review.ReviewerID] {
			continue
		}
		seen[review.ReviewerID] = true
		ids = append(ids, review.ReviewerID)
	}
	return ids
}

// CertificateGenerationResult reports one generation run. Per-identity
// failures are collected; they never abort the batch.
type CertificateGenerationResult struct {
	ParticipationCreated int      `json:"participation_created"`
	PresentationCreated  int      `json:"presentation_created"`
	ReviewerCreated      int      `json:"reviewer_created"`
	Skipped              int      `json:"skipped"`
	Errors               []string `json:"errors,omitempty"`
}

// GenerateForConference runs eligibility derivation and issuance for all
// three roles. Safe to run repeatedly: an unchanged eligible set yields
// zero new certificates.
func (s *CertificateService) GenerateForConference(conferenceID int) (*CertificateGenerationResult, error) {
	var conference models.Conference
	err := s.db.Where("conference_id = ? AND delete_at IS NULL", conferenceID).First(&conference).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("Conference not found")
		}
		return nil, err
	}

	result := &CertificateGenerationResult{}
	s.generatePresentation(&conference, result)
	s.generateParticipation(&conference, result)
	s.generateReviewer(&conference, result)
	return result, nil
}

func (s *CertificateService) generatePresentation(conference *models.Conference, result *CertificateGenerationResult) {
	var submissions []models.Submission
	err := s.db.Preload("Author").Preload("Coauthors").
		Where("conference_id = ? AND status = ? AND author_attendance_marked = 1 AND deleted_at IS NULL",
			conference.ConferenceID, models.SubmissionStatusAccepted).
		Find(&submissions).Error
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("presentation: %v", err))
		return
	}

	for _, identity := range EligiblePresentationIdentities(submissions) {
		created, err := s.issue(identity.UserID, conference, models.CertificateTypePresentation,
			identity.Name, "Presenter", identity.SubmissionID, &identity.PaperTitle)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("presentation user %d submission %d: %v", identity.UserID, identity.SubmissionID, err))
			continue
		}
		if created {
			result.PresentationCreated++
		} else {
			result.Skipped++
		}
	}
}

func (s *CertificateService) generateParticipation(conference *models.Conference, result *CertificateGenerationResult) {
	var registrations []models.Registration
	err := s.db.Preload("User").
		Where("conference_id = ? AND attendance_marked = 1", conference.ConferenceID).
		Find(&registrations).Error
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("participation: %v", err))
		return
	}

	for _, registration := range registrations {
		name := ""
		if registration.User != nil {
			name = registration.User.FullName()
		}
		created, err := s.issue(registration.UserID, conference, models.CertificateTypeParticipation,
			name, "Participant", 0, nil)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("participation user %d: %v", registration.UserID, err))
			continue
		}
		if created {
			result.ParticipationCreated++
		} else {
			result.Skipped++
		}
	}
}

func (s *CertificateService) generateReviewer(conference *models.Conference, result *CertificateGenerationResult) {
	reviews, err := s.finalizedReviews(conference.ConferenceID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("reviewer: %v", err))
		return
	}

	for _, reviewerID := range EligibleReviewerIDs(reviews) {
		var reviewer models.User
		name := ""
		if err := s.db.Where("user_id = ?", reviewerID).First(&reviewer).Error; err == nil {
			name = reviewer.FullName()
		}
		created, err := s.issue(reviewerID, conference, models.CertificateTypeReviewer,
			name, "Reviewer", 0, nil)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("reviewer user %d: %v", reviewerID, err))
			continue
		}
		if created {
			result.ReviewerCreated++
		} else {
			result.Skipped++
		}
	}
}

func (s *CertificateService) finalizedReviews(conferenceID int) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.
		Joins("JOIN submissions ON submissions.submission_id = reviews.submission_id").
		Where("submissions.conference_id = ? AND reviews.status = ? AND reviews.recommendation IN ?",
			conferenceID, models.ReviewStatusSubmitted,
			[]string{models.RecommendationAccept, models.RecommendationReject}).
		Find(&reviews).Error
	return reviews, err
}

// issue performs the check-then-insert for one identity. submissionID is 0
// for conference-scoped types, so the lookup and the unique index always
// cover the full identity. Returns created false when the certificate
// already exists; a lost race on the unique index is treated the same way.
func (s *CertificateService) issue(userID int, conference *models.Conference, certType, name, role string, submissionID int, paperTitle *string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Certificate{}).
		Where("user_id = ? AND conference_id = ? AND type = ? AND submission_id = ?",
			userID, conference.ConferenceID, certType, submissionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	buffer, err := RenderCertificate(name, role, conference, paperTitle)
	if err != nil {
		return false, fmt.Errorf("render failed: %w", err)
	}

	certificate := models.Certificate{
		UserID:              userID,
		ConferenceID:        conference.ConferenceID,
		Type:                certType,
		SubmissionID:        submissionID,
		Role:                role,
		UniqueCertificateID: uuid.NewString(),
		CertificateBuffer:   buffer,
		IssuedAt:            time.Now(),
	}
	if err := s.db.Create(&certificate).Error; err != nil {
		if IsDuplicateKey(err) {
			log.Printf("Certificate for user %d already issued concurrently, skipping", userID)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CertificateRoleSummary is one role's eligibility breakdown.
type CertificateRoleSummary struct {
	Eligible int `json:"eligible"`
	Existing int `json:"existing"`
	Pending  int `json:"pending"`
}

// CertificateEligibilitySummary answers "who is owed what" without issuing.
type CertificateEligibilitySummary struct {
	Participation CertificateRoleSummary `json:"participation"`
	Presentation  CertificateRoleSummary `json:"presentation"`
	Reviewer      CertificateRoleSummary `json:"reviewer"`
}

// EligibilitySummary computes eligible/existing/pending counts per role.
func (s *CertificateService) EligibilitySummary(conferenceID int) (*CertificateEligibilitySummary, error) {
	var conference models.Conference
	err := s.db.Where("conference_id = ? AND delete_at IS NULL", conferenceID).First(&conference).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("Conference not found")
		}
		return nil, err
	}

	summary := &CertificateEligibilitySummary{}

	var submissions []models.Submission
	if err := s.db.Preload("Author").Preload("Coauthors").
		Where("conference_id = ? AND status = ? AND author_attendance_marked = 1 AND deleted_at IS NULL",
			conferenceID, models.SubmissionStatusAccepted).
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	summary.Presentation.Eligible = len(EligiblePresentationIdentities(submissions))

	var attended int64
	if err := s.db.Model(&models.Registration{}).
		Where("conference_id = ? AND attendance_marked = 1", conferenceID).
		Count(&attended).Error; err != nil {
		return nil, err
	}
	summary.Participation.Eligible = int(attended)

	reviews, err := s.finalizedReviews(conferenceID)
	if err != nil {
		return nil, err
	}
	summary.Reviewer.Eligible = len(EligibleReviewerIDs(reviews))

	for certType, role := range map[string]*CertificateRoleSummary{
		models.CertificateTypeParticipation: &summary.Participation,
		models.CertificateTypePresentation:  &summary.Presentation,
		models.CertificateTypeReviewer:      &summary.Reviewer,
	} {
		var existing int64
		if err := s.db.Model(&models.Certificate{}).
			Where("conference_id = ? AND type = ?", conferenceID, certType).
			Count(&existing).Error; err != nil {
			return nil, err
		}
		role.Existing = int(existing)
		role.Pending = role.Eligible - role.Existing
		if role.Pending < 0 {
			role.Pending = 0
		}
	}

	return summary, nil
}
