package models

import "gorm.io/gorm"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account belonging to an organization (or an auditor/admin with
// no organization). Password holds the bcrypt hash and is never serialized.
type User struct {
	gorm.Model
	Email          string        `json:"email" gorm:"uniqueIndex;not null"`
	Password       string        `json:"-" gorm:"not null"`
	Role           string        `json:"role" gorm:"not null;default:user"`
	OrganizationID *uint         `json:"organizationId"`
	Organization   *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}

// IsAdmin reports whether the user has the auditor/admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
