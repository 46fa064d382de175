package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bai-backend/internal/ledger"
	"bai-backend/internal/middleware"
	"bai-backend/models"
)

// Ledger is the shared balance-maintenance service, wired in main.
var Ledger *ledger.Service

func currentRole(c *gin.Context) string {
	if role, exists := c.Get("role"); exists {
		if name, ok := role.(string); ok {
			return name
		}
	}
	return ""
}

func currentUserID(c *gin.Context) uint {
	if id, exists := c.Get("user_id"); exists {
		if uid, ok := id.(uint); ok {
			return uid
		}
	}
	return 0
}

// canAccessOrganization reports whether the requester may act on the given
// organization: admins always, members only on their own.
func canAccessOrganization(c *gin.Context, organizationID uint) bool {
	if currentRole(c) == models.RoleAdmin {
		return true
	}
	if orgID, exists := c.Get("organization_id"); exists {
		if id, ok := orgID.(uint); ok {
			return id == organizationID
		}
	}
	return false
}

// ensureAuditPeriod writes the error response and returns false when the
// audit window for year/half is closed or missing. Admins bypass the window.
func ensureAuditPeriod(c *gin.Context, year int, half string) bool {
	if currentRole(c) == models.RoleAdmin {
		return true
	}
	if err := middleware.CheckAuditPeriod(year, half, time.Now()); err != nil {
		switch {
		case errors.Is(err, middleware.ErrPeriodMissing), errors.Is(err, middleware.ErrPeriodClosed):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not check the audit period"})
		}
		return false
	}
	return true
}

// ledgerErrorResponse maps core ledger errors onto HTTP statuses.
func ledgerErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Referenced transaction or budget item not found"})
	case errors.Is(err, ledger.ErrLinkConflict), errors.Is(err, ledger.ErrLinkMissing):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ledger operation failed"})
	}
}
