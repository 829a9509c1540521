package handlers

import (
	"net/http"

	"homebite/config"
	"homebite/middleware"
	"homebite/models"

	"github.com/gin-gonic/gin"
)

// ListReviews returns all reviews for a meal (public).
func ListReviews(c *gin.Context) {
	var meal models.Meal
	if err := config.DB.First(&meal, c.Param("mealId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found", "code": "not_found"})
		return
	}
	var reviews []models.Review
	config.DB.Where("meal_id = ?", meal.ID).Order("created_at desc").Find(&reviews)
	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}

type ReviewRequest struct {
	MealID  uint   `json:"meal_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// CreateReview posts a review by the caller for an existing meal.
func CreateReview(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	var meal models.Meal
	if err := config.DB.First(&meal, req.MealID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found", "code": "not_found"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, middleware.GetUserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "code": "not_found"})
		return
	}

	review := models.Review{
		MealID:    meal.ID,
		UserEmail: user.Email,
		UserName:  user.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := config.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Review posted", "review": review})
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// UpdateReview edits one of the caller's reviews.
func UpdateReview(c *gin.Context) {
	review, ok := ownedReview(c)
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	if err := config.DB.Save(review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review updated", "review": review})
}

// DeleteReview removes one of the caller's reviews.
func DeleteReview(c *gin.Context) {
	review, ok := ownedReview(c)
	if !ok {
		return
	}
	config.DB.Delete(review)
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted", "review_id": review.ID})
}

func ownedReview(c *gin.Context) (*models.Review, bool) {
	var review models.Review
	if err := config.DB.First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found", "code": "not_found"})
		return nil, false
	}
	if review.UserEmail != middleware.GetEmail(c) && middleware.GetRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "This review does not belong to you", "code": "forbidden"})
		return nil, false
	}
	return &review, true
}
