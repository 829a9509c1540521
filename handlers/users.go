package handlers

import (
	"net/http"

	"homebite/config"
	"homebite/middleware"
	"homebite/models"

	"github.com/gin-gonic/gin"
)

// ListUsers returns all accounts, admin only.
func ListUsers(c *gin.Context) {
	var users []models.User
	query := config.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// GetUserByEmail returns one account. Callers may read themselves; only
// admins may read others, since approval flows refetch the requester.
func GetUserByEmail(c *gin.Context) {
	email := c.Param("email")
	if email != middleware.GetEmail(c) && middleware.GetRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot read another user's account", "code": "forbidden"})
		return
	}
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "code": "not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// MarkUserFraud flags an account as fraudulent, admin only. The flag
// revokes chef/admin powers; the user's pending role requests are left
// untouched.
func MarkUserFraud(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "code": "not_found"})
		return
	}
	if user.Role == models.RoleAdmin {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Admins cannot be marked fraud", "code": "illegal_transition"})
		return
	}
	if user.Status == models.StatusFraud {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "User is already marked fraud", "code": "illegal_transition"})
		return
	}

	if err := config.DB.Model(&user).Update("status", models.StatusFraud).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	config.DB.First(&user, user.ID)
	c.JSON(http.StatusOK, gin.H{"message": user.Name + " is marked as fraud", "user": user})
}
