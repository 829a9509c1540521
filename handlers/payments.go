package handlers

import (
	"net/http"
	"time"

	"homebite/config"
	"homebite/lifecycle"
	"homebite/middleware"
	"homebite/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckoutRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// CreateCheckoutSession opens an external checkout for a pending, unpaid
// order and returns the redirect URL carrying the session id. The order
// itself is untouched until the session reconciles.
func CreateCheckoutSession(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, req.OrderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "code": "not_found"})
		return
	}
	if order.CustomerEmail != middleware.GetEmail(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you", "code": "forbidden"})
		return
	}
	if _, err := lifecycle.CanAct(&order, models.RoleCustomer, lifecycle.ActionPay); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": "illegal_transition"})
		return
	}

	session := models.CheckoutSession{
		ID:      "cs_" + uuid.NewString(),
		OrderID: order.ID,
		Amount:  order.Total(),
		Status:  models.SessionOpen,
	}
	if err := config.DB.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	base := config.GetEnv("CHECKOUT_RETURN_URL", "http://localhost:5173/payment-success")
	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"url":        base + "?session_id=" + session.ID,
	})
}

// PaymentSuccess reconciles a checkout session after the customer is
// redirected back. Idempotent: replaying a completed session returns the
// recorded transaction identifier, because the return navigation can fire
// more than once (refresh, back/forward).
func PaymentSuccess(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required", "code": "validation"})
		return
	}

	var session models.CheckoutSession
	if err := config.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending checkout matches this session", "code": "unknown_session"})
		return
	}

	if session.Status == models.SessionCompleted {
		c.JSON(http.StatusOK, gin.H{
			"message":        "Payment already reconciled",
			"transaction_id": session.TransactionID,
			"tracking_id":    session.TrackingID,
			"order_id":       session.OrderID,
		})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, session.OrderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order behind this session no longer exists", "code": "unknown_session"})
		return
	}

	session.Status = models.SessionCompleted
	session.TransactionID = "txn_" + uuid.NewString()
	session.TrackingID = "trk_" + uuid.NewString()

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// guarded update: an order cancelled since checkout must not settle
		res := tx.Model(&models.Order{}).
			Where("id = ? AND order_status != ?", order.ID, models.OrderCancelled).
			Update("payment_status", models.PaymentPaid)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errConflict
		}
		if err := tx.Save(&session).Error; err != nil {
			return err
		}
		payment := models.Payment{
			OrderID:       order.ID,
			CustomerEmail: order.CustomerEmail,
			MealName:      order.MealName,
			Amount:        session.Amount,
			TransactionID: session.TransactionID,
			TrackingID:    session.TrackingID,
			PaidAt:        time.Now(),
		}
		return tx.Create(&payment).Error
	})
	if err == errConflict {
		c.JSON(http.StatusConflict, gin.H{"error": "Order was cancelled before the payment settled", "code": "conflict"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Payment reconciled",
		"transaction_id": session.TransactionID,
		"tracking_id":    session.TrackingID,
		"order_id":       session.OrderID,
	})
}

// ListPayments returns a customer's settled payments, newest first.
func ListPayments(c *gin.Context) {
	email := c.Param("email")
	if email != middleware.GetEmail(c) && middleware.GetRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot list another customer's payments", "code": "forbidden"})
		return
	}
	var payments []models.Payment
	config.DB.Where("customer_email = ?", email).Order("paid_at desc").Find(&payments)
	c.JSON(http.StatusOK, gin.H{"count": len(payments), "payments": payments})
}
