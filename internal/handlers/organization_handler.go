package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bai-backend/config"
	"bai-backend/models"
)

// ListOrganizationsHandler returns a paginated list of organizations.
func ListOrganizationsHandler(c *gin.Context) {
	var orgs []models.Organization

	query := config.DB.Order("id asc")
	if c.Query("all") == "true" {
		if err := query.Find(&orgs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch organizations"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": orgs})
		return
	}

	var totalRows int64
	config.DB.Model(&models.Organization{}).Count(&totalRows)
	if err := query.Scopes(Paginate(c)).Find(&orgs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch organizations"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, orgs, totalRows))
}

// OrganizationInput defines the payload for creating or renaming an
// organization.
type OrganizationInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateOrganizationHandler registers a new organization under audit.
func CreateOrganizationHandler(c *gin.Context) {
	var input OrganizationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org := models.Organization{Name: input.Name}
	if err := config.DB.Create(&org).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An organization with this name already exists"})
		return
	}
	c.JSON(http.StatusCreated, org)
}

// UpdateOrganizationHandler renames an organization.
func UpdateOrganizationHandler(c *gin.Context) {
	id := c.Param("id")
	var input OrganizationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var org models.Organization
	if err := config.DB.First(&org, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	org.Name = input.Name
	if err := config.DB.Save(&org).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update organization"})
		return
	}
	c.JSON(http.StatusOK, org)
}

// DeleteOrganizationHandler removes an organization that has no budgets.
func DeleteOrganizationHandler(c *gin.Context) {
	id := c.Param("id")

	var count int64
	if err := config.DB.Model(&models.Budget{}).Where("organization_id = ?", id).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not check related budgets"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Organization still has budgets and cannot be deleted"})
		return
	}

	if result := config.DB.Delete(&models.Organization{}, id); result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete organization"})
	} else if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "Organization deleted"})
	}
}
