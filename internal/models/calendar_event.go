package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CalendarEvent is an entry on the MLA's schedule.
type CalendarEvent struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	MlaID       string    `gorm:"type:uuid;not null;index" json:"mlaId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	EventType   EventType `gorm:"type:text;not null" json:"eventType"`
	Location    string    `json:"location,omitempty"`
	StartTime   time.Time `gorm:"not null;index" json:"startTime"`
	EndTime     time.Time `gorm:"not null" json:"endTime"`
	IsAllDay    bool      `gorm:"default:false" json:"isAllDay"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller has not set one.
func (e *CalendarEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}

// PublicEvent is what anonymous visitors see of a calendar entry.
type PublicEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	EventType   EventType `json:"eventType"`
	Location    string    `json:"location,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	IsAllDay    bool      `json:"isAllDay"`
}

// Public strips owner and bookkeeping fields.
func (e *CalendarEvent) Public() PublicEvent {
	return PublicEvent{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		EventType:   e.EventType,
		Location:    e.Location,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		IsAllDay:    e.IsAllDay,
	}
}
