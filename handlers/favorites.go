package handlers

import (
	"net/http"

	"homebite/config"
	"homebite/middleware"
	"homebite/models"

	"github.com/gin-gonic/gin"
)

// ListFavorites returns the caller's bookmarked meals.
func ListFavorites(c *gin.Context) {
	email := c.Param("email")
	if email != middleware.GetEmail(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot list another user's favorites", "code": "forbidden"})
		return
	}
	var favorites []models.Favorite
	config.DB.Preload("Meal").Where("user_email = ?", email).Find(&favorites)
	c.JSON(http.StatusOK, gin.H{"count": len(favorites), "favorites": favorites})
}

type FavoriteRequest struct {
	MealID uint `json:"meal_id" binding:"required"`
}

// AddFavorite bookmarks a meal for the caller. Adding the same meal twice
// returns the existing record.
func AddFavorite(c *gin.Context) {
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	var meal models.Meal
	if err := config.DB.First(&meal, req.MealID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found", "code": "not_found"})
		return
	}

	email := middleware.GetEmail(c)
	var favorite models.Favorite
	if err := config.DB.Where("user_email = ? AND meal_id = ?", email, req.MealID).First(&favorite).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Already in favorites", "favorite": favorite})
		return
	}

	favorite = models.Favorite{UserEmail: email, MealID: req.MealID}
	if err := config.DB.Create(&favorite).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Added to favorites", "favorite": favorite})
}

// RemoveFavorite deletes one of the caller's bookmarks.
func RemoveFavorite(c *gin.Context) {
	var favorite models.Favorite
	if err := config.DB.First(&favorite, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found", "code": "not_found"})
		return
	}
	if favorite.UserEmail != middleware.GetEmail(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "This favorite does not belong to you", "code": "forbidden"})
		return
	}
	config.DB.Delete(&favorite)
	c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites", "favorite_id": favorite.ID})
}
