package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Role separates citizens from the representative's office.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleMLA     Role = "mla"
)

// Genders accepted at signup.
var Genders = []string{"Male", "Female", "Other"}

// Phone is stored inline on the users table.
type Phone struct {
	CountryCode string `gorm:"column:phone_country_code;default:+91" json:"countryCode"`
	Number      string `gorm:"column:phone_number;uniqueIndex;not null" json:"number"`
}

// String renders the number with its country code for SMS delivery.
func (p Phone) String() string {
	return p.CountryCode + p.Number
}

// User is either a citizen or an MLA. MLA-only fields stay empty for citizens.
type User struct {
	ID           string         `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string         `gorm:"not null" json:"fullName"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Phone        Phone          `gorm:"embedded" json:"phone"`
	IsVerified   bool           `gorm:"default:false" json:"isVerified"`
	Gender       string         `json:"gender"`
	Address      string         `json:"address"`
	District     string         `json:"district,omitempty"`
	Role         Role           `gorm:"type:text;default:citizen;index" json:"role"`
	JobProfile   string         `json:"jobProfile,omitempty"`
	Constituency string         `json:"constituency,omitempty"`
	Tehsils      pq.StringArray `gorm:"type:text[]" json:"tehsils,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller has not set one.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// IsMLA reports whether the user belongs to the representative's office.
func (u *User) IsMLA() bool {
	return u != nil && u.Role == RoleMLA
}

// ServesTehsil reports whether a complaint from tehsil can be filed with this
// MLA. An MLA with no tehsils on record accepts any.
func (u *User) ServesTehsil(tehsil string) bool {
	if len(u.Tehsils) == 0 {
		return true
	}
	for _, t := range u.Tehsils {
		if t == tehsil {
			return true
		}
	}
	return false
}

// MLAListing is the public directory entry for an MLA.
type MLAListing struct {
	ID           string         `json:"id"`
	FullName     string         `json:"fullName"`
	Constituency string         `json:"constituency,omitempty"`
	Tehsils      pq.StringArray `json:"tehsils"`
}

// Listing projects an MLA onto its directory entry.
func (u *User) Listing() MLAListing {
	tehsils := u.Tehsils
	if tehsils == nil {
		tehsils = pq.StringArray{}
	}
	return MLAListing{ID: u.ID, FullName: u.FullName, Constituency: u.Constituency, Tehsils: tehsils}
}
