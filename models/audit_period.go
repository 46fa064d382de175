package models

import (
	"time"

	"gorm.io/gorm"
)

// AuditPeriod is the window during which organizations may submit or change
// budgets and transactions for a given year/half. Outside the window the
// middleware rejects mutations (admins bypass).
type AuditPeriod struct {
	gorm.Model
	Year  int       `json:"year" gorm:"not null;uniqueIndex:idx_audit_period"`
	Half  string    `json:"half" gorm:"not null;uniqueIndex:idx_audit_period"`
	Start time.Time `json:"start" gorm:"not null"`
	End   time.Time `json:"end" gorm:"not null"`
}

// Contains reports whether t falls inside the period (inclusive start,
// exclusive end).
func (p *AuditPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}
