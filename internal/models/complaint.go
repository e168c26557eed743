package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Complaint is a grievance a citizen files with the MLA's office.
type Complaint struct {
	ID                     string          `gorm:"primaryKey;type:uuid" json:"id"`
	SubmittedBy            string          `gorm:"type:uuid;not null;index" json:"submittedBy"`
	MlaID                  string          `gorm:"type:uuid;not null;index:idx_complaint_mla" json:"mlaId"`
	FillerName             string          `gorm:"not null" json:"fillerName"`
	FillerPhone            string          `gorm:"not null" json:"fillerPhone"`
	FillerEmail            string          `gorm:"not null" json:"fillerEmail"`
	FillerAddress          string          `gorm:"not null" json:"fillerAddress"`
	Tehsil                 string          `gorm:"not null" json:"tehsil"`
	ProblemLocationAddress string          `gorm:"not null" json:"problemLocationAddress"`
	Message                string          `gorm:"type:text;not null" json:"message"`
	MediaFiles             []MediaFile     `gorm:"polymorphic:Owner;polymorphicValue:complaint" json:"mediaFiles"`
	Status                 ComplaintStatus `gorm:"type:text;default:Submitted;index:idx_complaint_mla" json:"status"`
	IsRead                 bool            `gorm:"default:false" json:"isRead"`
	MlaResponse            string          `gorm:"type:text" json:"mlaResponse,omitempty"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`

	Submitter *User `gorm:"foreignKey:SubmittedBy" json:"submitter,omitempty"`
	Mla       *User `gorm:"foreignKey:MlaID" json:"mla,omitempty"`
}

// BeforeCreate assigns a UUID when the caller has not set one.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = ComplaintSubmitted
	}
	return
}
