package handlers

import (
	"net/http"

	"homebite/config"
	"homebite/middleware"
	"homebite/models"

	"github.com/gin-gonic/gin"
)

// ListMeals returns available meals (public).
func ListMeals(c *gin.Context) {
	var meals []models.Meal
	query := config.DB.Preload("Chef")

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if c.Query("all") != "true" {
		query = query.Where("is_available = ?", true)
	}

	query.Find(&meals)
	c.JSON(http.StatusOK, gin.H{"count": len(meals), "meals": meals})
}

// GetMeal returns a single meal (public).
func GetMeal(c *gin.Context) {
	var meal models.Meal
	if err := config.DB.Preload("Chef").First(&meal, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found", "code": "not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal": meal})
}

type MealRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
	IsAvailable bool    `json:"is_available"`
}

// CreateMeal adds a meal owned by the calling chef.
func CreateMeal(c *gin.Context) {
	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	meal := models.Meal{
		ChefID:      middleware.GetUserID(c),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	}
	if err := config.DB.Create(&meal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create meal"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Meal created", "meal": meal})
}

// UpdateMeal edits a meal the calling chef owns. Orders keep their
// snapshotted name and price.
func UpdateMeal(c *gin.Context) {
	meal, ok := ownedMeal(c)
	if !ok {
		return
	}

	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	meal.Name = req.Name
	meal.Description = req.Description
	meal.Price = req.Price
	meal.Category = req.Category
	meal.ImageURL = req.ImageURL
	meal.IsAvailable = req.IsAvailable
	if err := config.DB.Save(meal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update meal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meal updated", "meal": meal})
}

// DeleteMeal removes a meal the calling chef owns.
func DeleteMeal(c *gin.Context) {
	meal, ok := ownedMeal(c)
	if !ok {
		return
	}
	if err := config.DB.Delete(meal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete meal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal deleted", "meal_id": meal.ID})
}

func ownedMeal(c *gin.Context) (*models.Meal, bool) {
	var meal models.Meal
	if err := config.DB.First(&meal, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found", "code": "not_found"})
		return nil, false
	}
	if meal.ChefID != middleware.GetUserID(c) && middleware.GetRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "This meal does not belong to you", "code": "forbidden"})
		return nil, false
	}
	return &meal, true
}
