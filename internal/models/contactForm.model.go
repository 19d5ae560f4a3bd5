package models

import "time"

// ContactForm is a standalone inbox of inbound inquiries; it has no
// relationships to the insurance domain.
type ContactForm struct {
	VersionedModel
	FullName      string    `gorm:"type:text;not null" json:"fullName" validate:"required"`
	Email         string    `gorm:"type:text;not null" json:"email"    validate:"required,email"`
	Message       string    `gorm:"type:text;not null" json:"message"  validate:"required"`
	DateSubmitted time.Time `gorm:"not null"           json:"dateSubmitted"`
}

func (ContactForm) TableName() string { return "contact_forms" }

// ContactFormRequest is the bind whitelist for create and edit.
// DateSubmitted is server-assigned on create.
type ContactFormRequest struct {
	ID       int    `json:"id"`
	Version  int    `json:"version"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}
