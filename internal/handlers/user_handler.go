package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bai-backend/config"
	"bai-backend/internal/middleware"
	"bai-backend/models"
)

// UserResponse is the user shape returned by the API. It exists so the
// password hash can never leak into a response.
type UserResponse struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	OrganizationID *uint     `json:"organizationId"`
	Organization   string    `json:"organization,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toUserResponse(user models.User) UserResponse {
	resp := UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		CreatedAt:      user.CreatedAt,
	}
	if user.Organization != nil {
		resp.Organization = user.Organization.Name
	}
	return resp
}

// ListUsersHandler returns a paginated list of accounts with their
// organizations.
func ListUsersHandler(c *gin.Context) {
	query := config.DB.Preload("Organization").Order("id asc")

	var users []models.User
	var totalRows int64
	config.DB.Model(&models.User{}).Count(&totalRows)
	if err := query.Scopes(Paginate(c)).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch users"})
		return
	}

	responseData := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responseData = append(responseData, toUserResponse(user))
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, responseData, totalRows))
}

// UpdateUserInput defines the role/organization change payload.
type UpdateUserInput struct {
	Role           string `json:"role" binding:"required,oneof=user admin"`
	OrganizationID *uint  `json:"organizationId"`
}

// UpdateUserHandler changes a user's role or organization binding and drops
// their cached auth data.
func UpdateUserHandler(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.OrganizationID != nil {
		var org models.Organization
		if err := config.DB.First(&org, *input.OrganizationID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
			return
		}
	}

	user.Role = input.Role
	user.OrganizationID = input.OrganizationID
	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update user"})
		return
	}

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusOK, toUserResponse(user))
}

// DeleteUserHandler removes an account.
func DeleteUserHandler(c *gin.Context) {
	if result := config.DB.Delete(&models.User{}, c.Param("id")); result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete user"})
	} else if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}
