package models

import "time"

type Conference struct {
	ConferenceID int        `gorm:"primaryKey;column:conference_id" json:"conference_id"`
	Name         string     `gorm:"column:name" json:"name"`
	Description  *string    `gorm:"column:description" json:"description,omitempty"`
	Location     *string    `gorm:"column:location" json:"location,omitempty"`
	OrganizerID  int        `gorm:"column:organizer_id" json:"organizer_id"`
	StartDate    *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate      *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Organizer *User   `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	Tracks    []Track `gorm:"foreignKey:ConferenceID" json:"tracks,omitempty"`
}

type Track struct {
	TrackID      int        `gorm:"primaryKey;column:track_id" json:"track_id"`
	ConferenceID int        `gorm:"column:conference_id" json:"conference_id"`
	Name         string     `gorm:"column:name" json:"name"`
	Description  *string    `gorm:"column:description" json:"description,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Conference *Conference `gorm:"foreignKey:ConferenceID;references:ConferenceID" json:"conference,omitempty"`
}

// Registration links a participant to a conference; attendance drives
// participation certificates.
type Registration struct {
	RegistrationID   int        `gorm:"primaryKey;column:registration_id" json:"registration_id"`
	ConferenceID     int        `gorm:"column:conference_id;uniqueIndex:uq_registration_conference_user" json:"conference_id"`
	UserID           int        `gorm:"column:user_id;uniqueIndex:uq_registration_conference_user" json:"user_id"`
	AttendanceMarked bool       `gorm:"column:attendance_marked" json:"attendance_marked"`
	RegisteredAt     time.Time  `gorm:"column:registered_at" json:"registered_at"`
	UpdateAt         *time.Time `gorm:"column:update_at" json:"update_at"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName overrides
func (Conference) TableName() string {
	return "conferences"
}

func (Track) TableName() string {
	return "tracks"
}

func (Registration) TableName() string {
	return "registrations"
}
