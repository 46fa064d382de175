package models

import "gorm.io/gorm"

// Organization is a student organization under audit.
type Organization struct {
	gorm.Model
	Name    string   `json:"name" gorm:"uniqueIndex;not null"`
	Budgets []Budget `json:"budgets,omitempty" gorm:"foreignKey:OrganizationID"`
	Users   []User   `json:"users,omitempty" gorm:"foreignKey:OrganizationID"`
}
