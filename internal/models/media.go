package models

import "time"

// FileType classifies an uploaded attachment.
type FileType string

const (
	FileImage FileType = "image"
	FileVideo FileType = "video"
	FilePDF   FileType = "pdf"
)

// MediaFile is an attachment owned by a meeting request, complaint or invitation.
type MediaFile struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	OwnerID   string    `gorm:"type:uuid;index:idx_media_owner" json:"-"`
	OwnerType string    `gorm:"index:idx_media_owner" json:"-"`
	URL       string    `gorm:"not null" json:"url"`
	FileType  FileType  `gorm:"type:text;not null" json:"fileType"`
	CreatedAt time.Time `json:"-"`
}
