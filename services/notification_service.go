package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"time"

	"conference-management-api/config"
	"conference-management-api/models"

	"gorm.io/gorm"
)

// NotificationService dispatches in-app notifications plus email. All sends
// are fire-and-forget: failures are logged and never reach the caller of
// the state-changing operation.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

var emailBodyTmpl = template.Must(template.New("email").Parse(`
<p>Dear {{.Name}},</p>
<p>{{.Message}}</p>
{{if .Detail}}<blockquote>{{.Detail}}</blockquote>{{end}}
<p>— {{.ConferenceName}}</p>
`))

type emailData struct {
	Name           string
	Message        string
	Detail         string
	ConferenceName string
}

// notify writes the in-app row and attempts email delivery.
func (s *NotificationService) notify(user *models.User, title, message, detail, notifType, conferenceName string, relatedSubmissionID *int) {
	if user == nil {
		return
	}

	row := models.Notification{
		UserID:              user.UserID,
		Title:               title,
		Message:             message,
		Type:                notifType,
		RelatedSubmissionID: relatedSubmissionID,
		CreateAt:            time.Now(),
	}
	if err := s.db.Create(&row).Error; err != nil {
		log.Printf("Failed to store notification for user %d: %v", user.UserID, err)
	}

	if user.Email == "" {
		return
	}
	var body bytes.Buffer
	data := emailData{
		Name:           user.FullName(),
		Message:        message,
		Detail:         detail,
		ConferenceName: conferenceName,
	}
	if err := emailBodyTmpl.Execute(&body, data); err != nil {
		log.Printf("Failed to render notification email for user %d: %v", user.UserID, err)
		return
	}
	if err := config.SendMail([]string{user.Email}, title, body.String()); err != nil {
		log.Printf("Failed to send notification email to %s: %v", user.Email, err)
	}
}

// loadUser fetches a live user or returns nil.
func (s *NotificationService) loadUser(userID int) *models.User {
	var user models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		log.Printf("Failed to load notification recipient %d: %v", userID, err)
		return nil
	}
	return &user
}

// authorRecipients resolves the primary author plus every co-author with a
// linked account.
func (s *NotificationService) authorRecipients(submission *models.Submission) []*models.User {
	recipients := make([]*models.User, 0, 1+len(submission.Coauthors))
	seen := map[int]bool{}

	if submission.Author != nil {
		recipients = append(recipients, submission.Author)
		seen[submission.Author.UserID] = true
	} else if author := s.loadUser(submission.AuthorID); author != nil {
		recipients = append(recipients, author)
		seen[author.UserID] = true
	}

	for _, coauthor := range submission.Coauthors {
		if coauthor.UserID == nil || seen[*coauthor.UserID] {
			continue
		}
		if user := s.loadUser(*coauthor.UserID); user != nil {
			recipients = append(recipients, user)
			seen[user.UserID] = true
		}
	}
	return recipients
}

func (s *NotificationService) conferenceName(submission *models.Submission) string {
	if submission.Conference != nil {
		return submission.Conference.Name
	}
	var conference models.Conference
	if err := s.db.Where("conference_id = ?", submission.ConferenceID).First(&conference).Error; err != nil {
		return "the conference"
	}
	return conference.Name
}

// NotifyRevisionRequested queues a "revision requested" notice to the
// author and linked co-authors after a revision verdict.
func (s *NotificationService) NotifyRevisionRequested(submission *models.Submission, feedback string) {
	subID := submission.SubmissionID
	title := "Revision requested for your submission"
	message := fmt.Sprintf("A reviewer has requested a revision of \"%s\". Please update your paper and re-upload.", submission.Title)
	for _, user := range s.authorRecipients(submission) {
		s.notify(user, title, message, feedback, "warning", s.conferenceName(submission), &subID)
	}
}

// NotifyAllReviewsComplete tells the conference organizer that every
// assigned reviewer has submitted a review.
func (s *NotificationService) NotifyAllReviewsComplete(submission *models.Submission) {
	var conference models.Conference
	if err := s.db.Where("conference_id = ?", submission.ConferenceID).First(&conference).Error; err != nil {
		log.Printf("Failed to load conference %d for completion notice: %v", submission.ConferenceID, err)
		return
	}
	subID := submission.SubmissionID
	title := "All reviews complete"
	message := fmt.Sprintf("All assigned reviews for \"%s\" have been submitted.", submission.Title)
	s.notify(s.loadUser(conference.OrganizerID), title, message, "", "info", conference.Name, &subID)
}

// NotifyDecision dispatches the role-specific notices for an organizer
// decision: authors hear about accepted/rejected/revision, assigned
// reviewers only about final outcomes.
func (s *NotificationService) NotifyDecision(submission *models.Submission, newStatus, feedback string) {
	subID := submission.SubmissionID
	confName := s.conferenceName(submission)

	var title, message, notifType string
	switch newStatus {
	case models.SubmissionStatusAccepted:
		title = "Submission accepted"
		message = fmt.Sprintf("Congratulations, \"%s\" has been accepted.", submission.Title)
		notifType = "success"
	case models.SubmissionStatusRejected:
		title = "Submission rejected"
		message = fmt.Sprintf("We are sorry, \"%s\" was not accepted.", submission.Title)
		notifType = "error"
	case models.SubmissionStatusRevision:
		title = "Revision requested for your submission"
		message = fmt.Sprintf("The organizers have requested a revision of \"%s\".", submission.Title)
		notifType = "warning"
	default:
		return
	}

	for _, user := range s.authorRecipients(submission) {
		s.notify(user, title, message, feedback, notifType, confName, &subID)
	}

	if newStatus != models.SubmissionStatusAccepted && newStatus != models.SubmissionStatusRejected {
		return
	}
	reviewerTitle := "Review outcome: " + newStatus
	reviewerMessage := fmt.Sprintf("The submission \"%s\" you reviewed has been %s.", submission.Title, newStatus)
	for _, assigned := range submission.AssignedReviewers {
		s.notify(s.loadUser(assigned.ReviewerID), reviewerTitle, reviewerMessage, "", "info", confName, &subID)
	}
}
