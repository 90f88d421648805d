package models

import "time"

// Certificate types.
const (
	CertificateTypeParticipation = "participation"
	CertificateTypePresentation  = "presentation"
	CertificateTypeReviewer      = "reviewer"
)

// Certificate is issued once per (user, conference, type) and, for
// presentation certificates, per submission. It is never mutated. The unique
// index makes concurrent generation runs collapse to a no-op.
type Certificate struct {
	CertificateID int    `gorm:"primaryKey;column:certificate_id" json:"certificate_id"`
	UserID        int    `gorm:"column:user_id;uniqueIndex:uq_certificate_identity" json:"user_id"`
	ConferenceID  int    `gorm:"column:conference_id;uniqueIndex:uq_certificate_identity" json:"conference_id"`
	Type          string `gorm:"column:type;uniqueIndex:uq_certificate_identity" json:"type"`
	// SubmissionID is 0 for conference-scoped certificates (participation,
	// reviewer). The column must stay NOT NULL: MySQL treats NULLs in a
	// unique key as distinct, which would disarm uq_certificate_identity
	// for exactly those rows.
	SubmissionID        int       `gorm:"column:submission_id;not null;default:0;uniqueIndex:uq_certificate_identity" json:"submission_id,omitempty"`
	Role                string    `gorm:"column:role" json:"role"`
	UniqueCertificateID string    `gorm:"column:unique_certificate_id;unique" json:"unique_certificate_id"`
	CertificateBuffer   []byte    `gorm:"column:certificate_buffer" json:"-"`
	IssuedAt            time.Time `gorm:"column:issued_at" json:"issued_at"`

	// Relations
	User       *User       `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	Conference *Conference `gorm:"foreignKey:ConferenceID;references:ConferenceID" json:"conference,omitempty"`
}

// TableName overrides
func (Certificate) TableName() string {
	return "certificates"
}
