package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	BaseUUIDModel
	Email        string     `gorm:"type:text;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:text;not null"             json:"-"`
	FirstName    string     `gorm:"type:text"                      json:"firstName"`
	LastName     string     `gorm:"type:text"                      json:"lastName"`
	FullName     string     `gorm:"type:text"                      json:"fullName"`
	IsAdmin      bool       `gorm:"type:bool;default:false"        json:"isAdmin"`
	IsActive     bool       `gorm:"type:bool;default:true"         json:"isActive"`
	LastLoginAt  *time.Time `gorm:"type:timestamp"                 json:"lastLoginAt,omitempty"`

	Vehicles []Vehicle `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"vehicles,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.FullName = strings.TrimSpace(u.FirstName + " " + u.LastName)
	return nil
}

type UserProfile struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	FullName    string     `json:"fullName"`
	IsActive    bool       `json:"isActive"`
	IsAdmin     bool       `json:"isAdmin"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// ToProfile converts a User to a UserProfile (public information only)
func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:          u.ID.String(),
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsAdmin:     u.IsAdmin,
		LastLoginAt: u.LastLoginAt,
	}
}
