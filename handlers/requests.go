package handlers

import (
	"errors"
	"net/http"
	"time"

	"homebite/config"
	"homebite/lifecycle"
	"homebite/middleware"
	"homebite/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// errConflict aborts a transaction whose guarded update lost a race.
var errConflict = errors.New("resolved concurrently")

type CreateRoleRequestRequest struct {
	RequestedRole models.UserRole `json:"requested_role" binding:"required"`
}

// CreateRoleRequest files a role-upgrade petition for the caller.
// Duplicate pending requests for the same role are tolerated but refused,
// to keep the admin queue meaningful.
func CreateRoleRequest(c *gin.Context) {
	var req CreateRoleRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}
	if !lifecycle.ValidRequestedRole(req.RequestedRole) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requested role must be chef or admin", "code": "validation"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, middleware.GetUserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "code": "not_found"})
		return
	}
	if user.Role == req.RequestedRole {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You already hold this role", "code": "validation"})
		return
	}

	var outstanding models.RoleRequest
	err := config.DB.Where("user_email = ? AND requested_role = ? AND status = ?",
		user.Email, req.RequestedRole, models.RequestPending).First(&outstanding).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A pending request for this role already exists", "code": "conflict"})
		return
	}

	request := models.RoleRequest{
		UserEmail:     user.Email,
		UserName:      user.Name,
		RequestedRole: req.RequestedRole,
		Status:        models.RequestPending,
		RequestTime:   time.Now(),
	}
	if err := config.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create role request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Role request submitted", "request": request})
}

// ListRoleRequests returns all role requests, pending first, admin only.
func ListRoleRequests(c *gin.Context) {
	var requests []models.RoleRequest
	query := config.DB
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Order("request_time desc").Find(&requests)
	c.JSON(http.StatusOK, gin.H{"count": len(requests), "requests": requests})
}

// GetRoleRequest returns one role request, admin only.
func GetRoleRequest(c *gin.Context) {
	var request models.RoleRequest
	if err := config.DB.First(&request, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role request not found", "code": "not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request})
}

// ApproveRoleRequest resolves a pending request and promotes the
// requester, both inside one transaction with a guarded status flip so a
// concurrent resolve cannot double-apply the role change.
func ApproveRoleRequest(c *gin.Context) {
	resolveRoleRequest(c, lifecycle.DecisionApprove)
}

// RejectRoleRequest resolves a pending request without touching the
// requester's role.
func RejectRoleRequest(c *gin.Context) {
	resolveRoleRequest(c, lifecycle.DecisionReject)
}

func resolveRoleRequest(c *gin.Context, decision lifecycle.Decision) {
	var request models.RoleRequest
	if err := config.DB.First(&request, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role request not found", "code": "not_found"})
		return
	}

	target, err := lifecycle.CanResolve(&request, middleware.GetRole(c), decision)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": "illegal_transition"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RoleRequest{}).
			Where("id = ? AND status = ?", request.ID, models.RequestPending).
			Update("status", target)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errConflict
		}
		if decision == lifecycle.DecisionApprove {
			return tx.Model(&models.User{}).
				Where("email = ?", request.UserEmail).
				Update("role", request.RequestedRole).Error
		}
		return nil
	})
	if err == errConflict {
		c.JSON(http.StatusConflict, gin.H{"error": "Request was resolved concurrently", "code": "conflict"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role request"})
		return
	}

	config.DB.First(&request, request.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Role request " + string(target), "request": request})
}
