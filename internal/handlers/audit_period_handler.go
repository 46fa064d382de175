package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bai-backend/config"
	"bai-backend/models"
)

// AuditPeriodInput defines the payload for configuring an audit window.
type AuditPeriodInput struct {
	Year  int       `json:"year" binding:"required"`
	Half  string    `json:"half" binding:"required,oneof=spring fall"`
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// ListAuditPeriodsHandler returns all configured audit windows.
func ListAuditPeriodsHandler(c *gin.Context) {
	var periods []models.AuditPeriod
	if err := config.DB.Order("year desc, half asc").Find(&periods).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch audit periods"})
		return
	}
	c.JSON(http.StatusOK, periods)
}

// CreateAuditPeriodHandler opens an audit window for a year/half.
func CreateAuditPeriodHandler(c *gin.Context) {
	var input AuditPeriodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.End.After(input.Start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End must be after start"})
		return
	}

	period := models.AuditPeriod{
		Year:  input.Year,
		Half:  input.Half,
		Start: input.Start,
		End:   input.End,
	}
	if err := config.DB.Create(&period).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An audit period for this year/half already exists"})
		return
	}
	c.JSON(http.StatusCreated, period)
}

// UpdateAuditPeriodHandler moves an audit window.
func UpdateAuditPeriodHandler(c *gin.Context) {
	var period models.AuditPeriod
	if err := config.DB.First(&period, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audit period not found"})
		return
	}

	var input struct {
		Start time.Time `json:"start" binding:"required"`
		End   time.Time `json:"end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.End.After(input.Start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End must be after start"})
		return
	}

	period.Start = input.Start
	period.End = input.End
	if err := config.DB.Save(&period).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update audit period"})
		return
	}
	c.JSON(http.StatusOK, period)
}

// DeleteAuditPeriodHandler removes an audit window.
func DeleteAuditPeriodHandler(c *gin.Context) {
	if result := config.DB.Delete(&models.AuditPeriod{}, c.Param("id")); result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete audit period"})
	} else if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audit period not found"})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "Audit period deleted"})
	}
}
