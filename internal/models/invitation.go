package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invitation asks the MLA to attend a citizen's event.
type Invitation struct {
	ID            string           `gorm:"primaryKey;type:uuid" json:"id"`
	SubmittedBy   string           `gorm:"type:uuid;not null;index" json:"submittedBy"`
	MlaID         string           `gorm:"type:uuid;not null;index:idx_invitation_mla" json:"mlaId"`
	InviterName   string           `gorm:"not null" json:"inviterName"`
	InviterPhone  string           `gorm:"not null" json:"inviterPhone"`
	InviterEmail  string           `gorm:"not null" json:"inviterEmail"`
	JobProfile    string           `gorm:"not null" json:"jobProfile"`
	Subject       string           `gorm:"not null" json:"subject"`
	EventType     string           `gorm:"not null" json:"eventType"`
	EventDate     time.Time        `gorm:"not null" json:"eventDate"`
	EventTime     string           `gorm:"not null" json:"eventTime"`
	EventLocation string           `gorm:"not null" json:"eventLocation"`
	Message       string           `gorm:"type:text;not null" json:"message"`
	MediaFiles    []MediaFile      `gorm:"polymorphic:Owner;polymorphicValue:invitation" json:"mediaFiles"`
	Status        InvitationStatus `gorm:"type:text;default:Sent;index:idx_invitation_mla" json:"status"`
	MlaResponse   string           `gorm:"type:text" json:"mlaResponse"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`

	Submitter *User `gorm:"foreignKey:SubmittedBy" json:"submitter,omitempty"`
	Mla       *User `gorm:"foreignKey:MlaID" json:"mla,omitempty"`
}

// BeforeCreate assigns a UUID when the caller has not set one.
func (i *Invitation) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.Status == "" {
		i.Status = InvitationSent
	}
	return
}

// IsStale reports whether an unanswered invitation's event date has passed.
func (i *Invitation) IsStale(now time.Time) bool {
	return (i.Status == InvitationSent || i.Status == InvitationSeen) && i.EventDate.Before(now)
}
