package models

import "time"

const RoleAdmin = "admin"

type User struct {
	BaseModel
	Email        string `gorm:"type:text;not null;uniqueIndex" json:"email" validate:"required,email"`
	PasswordHash string `gorm:"type:text;not null"             json:"-"`

	Roles []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

func (User) TableName() string { return "users" }

func (u User) IsInRole(role string) bool {
	for _, r := range u.Roles {
		if r.Name == role {
			return true
		}
	}
	return false
}

type Role struct {
	BaseModel
	Name string `gorm:"type:text;not null;uniqueIndex" json:"name"`
}

func (Role) TableName() string { return "roles" }

// Session is the server-side session record behind the cookie token.
type Session struct {
	Token      string    `gorm:"type:text;primaryKey" json:"token"`
	UserID     int       `gorm:"not null;index"       json:"userId"`
	RememberMe bool      `gorm:"not null"             json:"rememberMe"`
	ExpiresAt  time.Time `gorm:"not null"             json:"expiresAt"`
	CreatedAt  time.Time `gorm:"autoCreateTime"       json:"createdAt"`
}

func (Session) TableName() string { return "sessions" }

func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
	ReturnURL  string `json:"returnUrl"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	ReturnURL       string `json:"returnUrl"`
}
