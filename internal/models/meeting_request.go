package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeetingRequest is a citizen's request for an audience with the MLA.
type MeetingRequest struct {
	ID                   string        `gorm:"primaryKey;type:uuid" json:"id"`
	RequestedBy          string        `gorm:"type:uuid;not null;index" json:"requestedBy"`
	MlaID                string        `gorm:"type:uuid;not null;index:idx_meeting_mla_status" json:"mlaId"`
	FullName             string        `gorm:"not null" json:"fullName"`
	FatherName           string        `gorm:"not null" json:"fatherName"`
	Email                string        `gorm:"not null" json:"email"`
	Phone                string        `gorm:"not null" json:"phone"`
	AlternatePhone       string        `json:"alternatePhone,omitempty"`
	AddressLine1         string        `gorm:"not null" json:"addressLine1"`
	AddressLine2         string        `json:"addressLine2,omitempty"`
	PradhanName          string        `json:"pradhanName,omitempty"`
	JobProfile           string        `gorm:"not null" json:"jobProfile"`
	Purpose              string        `gorm:"not null" json:"purpose"`
	MeetingDate          time.Time     `gorm:"not null" json:"meetingDate"`
	MediaFiles           []MediaFile   `gorm:"polymorphic:Owner;polymorphicValue:meeting_request" json:"mediaFiles"`
	ScheduledMeetingTime *time.Time    `json:"scheduledMeetingTime,omitempty"`
	MeetingNotes         string        `json:"meetingNotes,omitempty"`
	Status               MeetingStatus `gorm:"type:text;default:Pending;index:idx_meeting_mla_status" json:"status"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`

	Requester *User `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
	Mla       *User `gorm:"foreignKey:MlaID" json:"mla,omitempty"`
}

// BeforeCreate assigns a UUID when the caller has not set one.
func (m *MeetingRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Status == "" {
		m.Status = MeetingPending
	}
	return
}

// IsStale reports whether a pending request's meeting date has already passed.
func (m *MeetingRequest) IsStale(now time.Time) bool {
	return m.Status == MeetingPending && m.MeetingDate.Before(now)
}
