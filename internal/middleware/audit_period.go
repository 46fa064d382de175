package middleware

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"bai-backend/config"
	"bai-backend/models"
)

var (
	ErrPeriodMissing = errors.New("no audit period is configured for this year/half")
	ErrPeriodClosed  = errors.New("the audit period for this year/half is not open")
)

// CheckAuditPeriod verifies that budget/transaction mutations for the given
// year/half happen inside the configured audit window. Admins are expected to
// bypass this at the call site.
func CheckAuditPeriod(year int, half string, now time.Time) error {
	var period models.AuditPeriod
	err := config.DB.Where("year = ? AND half = ?", year, half).First(&period).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPeriodMissing
		}
		return err
	}
	if !period.Contains(now) {
		return ErrPeriodClosed
	}
	return nil
}
