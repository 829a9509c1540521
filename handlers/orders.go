package handlers

import (
	"net/http"
	"time"

	"homebite/config"
	"homebite/lifecycle"
	"homebite/middleware"
	"homebite/models"

	"github.com/gin-gonic/gin"
)

type CreateOrderRequest struct {
	MealID   uint   `json:"meal_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Address  string `json:"address" binding:"required"`
}

// CreateOrder places a new order (customer only). Price, meal name and
// chef are snapshotted from the meal so later edits never rewrite an
// order's total.
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	var meal models.Meal
	if err := config.DB.Preload("Chef").First(&meal, req.MealID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found", "code": "not_found"})
		return
	}
	if !meal.IsAvailable {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Meal '" + meal.Name + "' is not available", "code": "validation"})
		return
	}

	order := models.Order{
		MealID:        meal.ID,
		MealName:      meal.Name,
		Price:         meal.Price,
		Quantity:      req.Quantity,
		Address:       req.Address,
		CustomerEmail: middleware.GetEmail(c),
		ChefID:        meal.ChefID,
		ChefName:      meal.Chef.Name,
		OrderStatus:   models.OrderPending,
		PaymentStatus: models.PaymentPending,
		OrderTime:     time.Now(),
	}

	if err := config.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
		"total":   order.Total(),
	})
}

// GetOrder returns one order, visible to its customer, its chef, or an admin.
func GetOrder(c *gin.Context) {
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "code": "not_found"})
		return
	}
	if !callerMaySee(c, &order) {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you", "code": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "total": order.Total()})
}

func callerMaySee(c *gin.Context, order *models.Order) bool {
	switch middleware.GetRole(c) {
	case models.RoleAdmin:
		return true
	case models.RoleChef:
		var user models.User
		if err := config.DB.First(&user, middleware.GetUserID(c)).Error; err != nil {
			return false
		}
		return order.ChefID == user.ID || order.CustomerEmail == user.Email
	default:
		return order.CustomerEmail == middleware.GetEmail(c)
	}
}

// ListMyOrders returns the caller's orders, newest first.
func ListMyOrders(c *gin.Context) {
	email := c.Param("email")
	if email != middleware.GetEmail(c) && middleware.GetRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot list another customer's orders", "code": "forbidden"})
		return
	}
	var orders []models.Order
	config.DB.Where("customer_email = ?", email).
		Order("order_time desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// ListChefOrders returns all orders addressed to a chef, newest first,
// with a per-status summary for the dashboard.
func ListChefOrders(c *gin.Context) {
	chefID := c.Param("chefId")

	var chef models.User
	if err := config.DB.First(&chef, chefID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chef not found", "code": "not_found"})
		return
	}
	if middleware.GetRole(c) != models.RoleAdmin && chef.ID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "These orders do not belong to you", "code": "forbidden"})
		return
	}

	var orders []models.Order
	config.DB.Where("chef_id = ?", chef.ID).Order("order_time desc").Find(&orders)

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.OrderStatus)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"chef":          chef.Name,
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

type SetOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// SetOrderStatus applies one status transition. Legality is checked with
// the same transition table the client uses; a legal transition that
// loses the race to a concurrent update answers 409 instead, via a
// guarded conditional update.
func SetOrderStatus(c *gin.Context) {
	var req SetOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "code": "not_found"})
		return
	}

	role := middleware.GetRole(c)
	switch role {
	case models.RoleCustomer:
		if order.CustomerEmail != middleware.GetEmail(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you", "code": "forbidden"})
			return
		}
	case models.RoleChef:
		if order.ChefID != middleware.GetUserID(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you", "code": "forbidden"})
			return
		}
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Admins do not transition orders", "code": "forbidden"})
		return
	}

	if err := lifecycle.StatusReachable(&order, role, req.Status); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          err.Error(),
			"code":           "illegal_transition",
			"current_status": order.OrderStatus,
			"requested":      req.Status,
		})
		return
	}

	// guarded update: zero affected rows means the order moved under us
	res := config.DB.Model(&models.Order{}).
		Where("id = ? AND order_status = ?", order.ID, order.OrderStatus).
		Update("order_status", req.Status)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Order state changed, please retry", "code": "conflict"})
		return
	}

	config.DB.First(&order, order.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}

// AdminListOrders returns every order with a status summary, admin only.
func AdminListOrders(c *gin.Context) {
	var orders []models.Order
	query := config.DB
	if status := c.Query("status"); status != "" {
		query = query.Where("order_status = ?", status)
	}
	query.Order("order_time desc").Find(&orders)

	summary := map[string]int{}
	var revenue float64
	for _, o := range orders {
		summary[string(o.OrderStatus)]++
		if o.PaymentStatus == models.PaymentPaid {
			revenue += o.Total()
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": revenue,
		"count":         len(orders),
		"orders":        orders,
	})
}
