package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebite/config"
	"homebite/middleware"
	"homebite/models"
)

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.InitDB(filepath.Join(t.TempDir(), "homebite-test.db"))
	r := gin.New()
	SetupRoutes(r)
	return r
}

func seedUser(t *testing.T, name, email string, role models.UserRole) (*models.User, string) {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "not-checked-here",
		Role:         role,
		Status:       models.StatusActive,
	}
	require.NoError(t, config.DB.Create(&user).Error)
	token, err := middleware.GenerateToken(&user)
	require.NoError(t, err)
	return &user, token
}

func seedMeal(t *testing.T, chef *models.User, name string, price float64) *models.Meal {
	t.Helper()
	meal := models.Meal{
		ChefID:      chef.ID,
		Name:        name,
		Price:       price,
		Category:    "mains",
		IsAvailable: true,
	}
	require.NoError(t, config.DB.Create(&meal).Error)
	return &meal
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func placeOrder(t *testing.T, r *gin.Engine, token string, mealID uint, qty int) uint {
	t.Helper()
	code, body := doJSON(t, r, http.MethodPost, "/orders", token, gin.H{
		"meal_id": mealID, "quantity": qty, "address": "12 Elm St",
	})
	require.Equal(t, http.StatusCreated, code, "place order: %v", body)
	order := body["order"].(map[string]interface{})
	return uint(order["id"].(float64))
}

func orderStatus(t *testing.T, id uint) (models.OrderStatus, models.PaymentStatus) {
	t.Helper()
	var order models.Order
	require.NoError(t, config.DB.First(&order, id).Error)
	return order.OrderStatus, order.PaymentStatus
}

func TestRegisterLoginProfile(t *testing.T) {
	r := setupServer(t)

	code, body := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "Maya", "email": "maya@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, code, "register: %v", body)
	assert.Equal(t, "customer", body["user"].(map[string]interface{})["role"],
		"registration never grants elevated roles")

	// duplicate email
	code, body = doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "Maya2", "email": "maya@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "conflict", body["code"])

	code, body = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": "maya@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, code)
	token := body["token"].(string)

	code, body = doJSON(t, r, http.MethodGet, "/profile", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "maya@example.com", body["user"].(map[string]interface{})["email"])

	code, _ = doJSON(t, r, http.MethodGet, "/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": "maya@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthorized", body["code"])
}

func TestOrderHappyPath(t *testing.T) {
	r := setupServer(t)
	chef, chefToken := seedUser(t, "Luca", "luca@example.com", models.RoleChef)
	_, custToken := seedUser(t, "Maya", "maya@example.com", models.RoleCustomer)
	meal := seedMeal(t, chef, "Dal Tadka", 10)

	orderID := placeOrder(t, r, custToken, meal.ID, 2)
	status, pay := orderStatus(t, orderID)
	assert.Equal(t, models.OrderPending, status)
	assert.Equal(t, models.PaymentPending, pay)

	// chef accepts
	code, body := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/status/%d", orderID),
		chefToken, gin.H{"status": "accepted"})
	require.Equal(t, http.StatusOK, code, "accept: %v", body)

	// then delivers
	code, body = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/status/%d", orderID),
		chefToken, gin.H{"status": "delivered"})
	require.Equal(t, http.StatusOK, code, "deliver: %v", body)

	status, _ = orderStatus(t, orderID)
	assert.Equal(t, models.OrderDelivered, status)

	// delivered is final
	code, body = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/status/%d", orderID),
		custToken, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "illegal_transition", body["code"])
}

func TestOrderIllegalTransitions(t *testing.T) {
	r := setupServer(t)
	chef, chefToken := seedUser(t, "Luca", "luca@example.com", models.RoleChef)
	_, custToken := seedUser(t, "Maya", "maya@example.com", models.RoleCustomer)
	meal := seedMeal(t, chef, "Dal Tadka", 10)
	orderID := placeOrder(t, r, custToken, meal.ID, 1)

	// pending cannot jump straight to delivered
	code, body := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/status/%d", orderID),
		chefToken, gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "illegal_transition", body["code"])

	// customer cannot accept their own order
	code, _ = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/status/%d", orderID),
		custToken, gin.H{"status": "accepted"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	// a stranger chef cannot touch the order
	_, otherToken := seedUser(t, "Ines", "ines@example.com", models.RoleChef)
	code, body = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/status/%d", orderID),
		otherToken, gin.H{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", body["code"])
}

func TestCancelOnlyWhileUnpaid(t *testing.T) {
	r := setupServer(t)
	chef, chefToken := seedUser(t, "Luca", "luca@example.com", models.RoleChef)
	_, custToken := seedUser(t, "Maya", "maya@example.com", models.RoleCustomer)
	meal := seedMeal(t, chef, "Dal Tadka", 10)

	unpaid := placeOrder(t, r, custToken, meal.ID, 1)
	code, body := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/status/%d", unpaid),
		custToken, gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, code, "cancel unpaid: %v", body)

	paid := placeOrder(t, r, custToken, meal.ID, 1)
	require.NoError(t, config.DB.Model(&models.Order{}).Where("id = ?", paid).
		Update("payment_status", models.PaymentPaid).Error)

	// neither actor may cancel once the order is paid
	for name, token := range map[string]string{"customer": custToken, "chef": chefToken} {
		code, body = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/status/%d", paid),
			token, gin.H{"status": "cancelled"})
		assert.Equal(t, http.StatusUnprocessableEntity, code, name)
		assert.Equal(t, "illegal_transition", body["code"], name)
	}

	status, _ := orderStatus(t, paid)
	assert.Equal(t, models.OrderPending, status)
}

func TestPaymentReconciliation(t *testing.T) {
	r := setupServer(t)
	chef, _ := seedUser(t, "Luca", "luca@example.com", models.RoleChef)
	_, custToken := seedUser(t, "Maya", "maya@example.com", models.RoleCustomer)
	meal := seedMeal(t, chef, "Dal Tadka", 10)
	orderID := placeOrder(t, r, custToken, meal.ID, 2)

	code, body := doJSON(t, r, http.MethodPost, "/create-checkout-session", custToken,
		gin.H{"order_id": orderID})
	require.Equal(t, http.StatusOK, code, "checkout: %v", body)
	sessionID := body["session_id"].(string)
	assert.Contains(t, body["url"].(string), "session_id="+sessionID)

	// order untouched until reconciliation
	_, pay := orderStatus(t, orderID)
	assert.Equal(t, models.PaymentPending, pay)

	code, body = doJSON(t, r, http.MethodPatch, "/payment-success?session_id="+sessionID,
		custToken, nil)
	require.Equal(t, http.StatusOK, code, "reconcile: %v", body)
	txn := body["transaction_id"].(string)
	require.NotEmpty(t, txn)

	_, pay = orderStatus(t, orderID)
	assert.Equal(t, models.PaymentPaid, pay)

	// replaying the return navigation yields the same transaction id
	code, body = doJSON(t, r, http.MethodPatch, "/payment-success?session_id="+sessionID,
		custToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, txn, body["transaction_id"].(string))

	var payments []models.Payment
	config.DB.Where("transaction_id = ?", txn).Find(&payments)
	assert.Len(t, payments, 1, "replay must not record a second payment")

	// unknown and missing sessions
	code, body = doJSON(t, r, http.MethodPatch, "/payment-success?session_id=cs_nope", custToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "unknown_session", body["code"])

	code, body = doJSON(t, r, http.MethodPatch, "/payment-success", custToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation", body["code"])
}

func TestReconcileRefusedAfterCancellation(t *testing.T) {
	r := setupServer(t)
	chef, chefToken := seedUser(t, "Luca", "luca@example.com", models.RoleChef)
	_, custToken := seedUser(t, "Maya", "maya@example.com", models.RoleCustomer)
	meal := seedMeal(t, chef, "Dal Tadka", 10)
	orderID := placeOrder(t, r, custToken, meal.ID, 1)

	code, body := doJSON(t, r, http.MethodPost, "/create-checkout-session", custToken,
		gin.H{"order_id": orderID})
	require.Equal(t, http.StatusOK, code, "checkout: %v", body)
	sessionID := body["session_id"].(string)

	// the chef cancels while the customer is away at checkout
	code, body = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/status/%d", orderID),
		chefToken, gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, code, "cancel: %v", body)

	code, body = doJSON(t, r, http.MethodPatch, "/payment-success?session_id="+sessionID,
		custToken, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "conflict", body["code"])

	// the cancelled order must never read as paid
	status, pay := orderStatus(t, orderID)
	assert.Equal(t, models.OrderCancelled, status)
	assert.Equal(t, models.PaymentPending, pay)

	var payments []models.Payment
	config.DB.Where("order_id = ?", orderID).Find(&payments)
	assert.Empty(t, payments, "no payment record for a refused settlement")
}

func TestCheckoutRequiresPendingUnpaidOwnOrder(t *testing.T) {
	r := setupServer(t)
	chef, _ := seedUser(t, "Luca", "luca@example.com", models.RoleChef)
	_, custToken := seedUser(t, "Maya", "maya@example.com", models.RoleCustomer)
	_, otherToken := seedUser(t, "Ana", "ana@example.com", models.RoleCustomer)
	meal := seedMeal(t, chef, "Dal Tadka", 10)
	orderID := placeOrder(t, r, custToken, meal.ID, 1)

	code, body := doJSON(t, r, http.MethodPost, "/create-checkout-session", otherToken,
		gin.H{"order_id": orderID})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", body["code"])

	require.NoError(t, config.DB.Model(&models.Order{}).Where("id = ?", orderID).
		Update("payment_status", models.PaymentPaid).Error)
	code, body = doJSON(t, r, http.MethodPost, "/create-checkout-session", custToken,
		gin.H{"order_id": orderID})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "illegal_transition", body["code"])
}

func TestRoleRequestLifecycle(t *testing.T) {
	r := setupServer(t)
	_, adminToken := seedUser(t, "Root", "root@example.com", models.RoleAdmin)
	ana, anaToken := seedUser(t, "Ana", "ana@example.com", models.RoleCustomer)

	code, body := doJSON(t, r, http.MethodPost, "/role-requests", anaToken,
		gin.H{"requested_role": "chef"})
	require.Equal(t, http.StatusCreated, code, "request: %v", body)
	reqID := uint(body["request"].(map[string]interface{})["id"].(float64))

	// duplicate pending request is refused
	code, body = doJSON(t, r, http.MethodPost, "/role-requests", anaToken,
		gin.H{"requested_role": "chef"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "conflict", body["code"])

	// a non-admin cannot see or resolve the queue
	code, _ = doJSON(t, r, http.MethodGet, "/role-requests", anaToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/role-requests/approve/%d", reqID), anaToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/role-requests/approve/%d", reqID), adminToken, nil)
	require.Equal(t, http.StatusOK, code, "approve: %v", body)

	var promoted models.User
	require.NoError(t, config.DB.First(&promoted, ana.ID).Error)
	assert.Equal(t, models.RoleChef, promoted.Role, "approval promotes the requester")

	// resolved requests are final
	code, body = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/role-requests/reject/%d", reqID), adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "illegal_transition", body["code"])
}

func TestRoleRequestRejectLeavesRole(t *testing.T) {
	r := setupServer(t)
	_, adminToken := seedUser(t, "Root", "root@example.com", models.RoleAdmin)
	ana, anaToken := seedUser(t, "Ana", "ana@example.com", models.RoleCustomer)

	code, body := doJSON(t, r, http.MethodPost, "/role-requests", anaToken,
		gin.H{"requested_role": "chef"})
	require.Equal(t, http.StatusCreated, code)
	reqID := uint(body["request"].(map[string]interface{})["id"].(float64))

	code, _ = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/role-requests/reject/%d", reqID), adminToken, nil)
	require.Equal(t, http.StatusOK, code)

	var unchanged models.User
	require.NoError(t, config.DB.First(&unchanged, ana.ID).Error)
	assert.Equal(t, models.RoleCustomer, unchanged.Role)
}

func TestFraudRevokesChefPowers(t *testing.T) {
	r := setupServer(t)
	_, adminToken := seedUser(t, "Root", "root@example.com", models.RoleAdmin)
	chef, chefToken := seedUser(t, "Luca", "luca@example.com", models.RoleChef)
	_, anaToken := seedUser(t, "Ana", "ana@example.com", models.RoleCustomer)

	// chef also has a pending admin request on file
	code, body := doJSON(t, r, http.MethodPost, "/role-requests", chefToken,
		gin.H{"requested_role": "admin"})
	require.Equal(t, http.StatusCreated, code, "request: %v", body)
	reqID := uint(body["request"].(map[string]interface{})["id"].(float64))

	code, _ = doJSON(t, r, http.MethodPost, "/meals", chefToken,
		gin.H{"name": "Dal Tadka", "price": 10.0, "is_available": true})
	require.Equal(t, http.StatusCreated, code, "chef can create meals before the flag")

	code, _ = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/users/fraud/%d", chef.ID), anaToken, nil)
	assert.Equal(t, http.StatusForbidden, code, "only admins flag fraud")

	code, body = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/users/fraud/%d", chef.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, code, "fraud: %v", body)

	// the token is unchanged but the role check re-reads the store
	code, body = doJSON(t, r, http.MethodPost, "/meals", chefToken,
		gin.H{"name": "Paneer", "price": 12.0, "is_available": true})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", body["code"])

	// flagging does not cascade to the pending request
	var request models.RoleRequest
	require.NoError(t, config.DB.First(&request, reqID).Error)
	assert.Equal(t, models.RequestPending, request.Status)

	// flagging twice is an illegal transition
	code, body = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/users/fraud/%d", chef.ID), adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "illegal_transition", body["code"])
}

func TestOrderVisibility(t *testing.T) {
	r := setupServer(t)
	chef, chefToken := seedUser(t, "Luca", "luca@example.com", models.RoleChef)
	_, custToken := seedUser(t, "Maya", "maya@example.com", models.RoleCustomer)
	_, otherToken := seedUser(t, "Ana", "ana@example.com", models.RoleCustomer)
	_, adminToken := seedUser(t, "Root", "root@example.com", models.RoleAdmin)
	meal := seedMeal(t, chef, "Dal Tadka", 10)
	orderID := placeOrder(t, r, custToken, meal.ID, 2)

	for name, tc := range map[string]struct {
		token string
		want  int
	}{
		"customer": {custToken, http.StatusOK},
		"chef":     {chefToken, http.StatusOK},
		"admin":    {adminToken, http.StatusOK},
		"stranger": {otherToken, http.StatusForbidden},
	} {
		code, _ := doJSON(t, r, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), tc.token, nil)
		assert.Equal(t, tc.want, code, name)
	}

	code, body := doJSON(t, r, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), custToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 20.0, body["total"], "total is unit price times quantity")

	// listing another customer's orders is refused
	code, _ = doJSON(t, r, http.MethodGet, "/my-orders/maya@example.com", otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = doJSON(t, r, http.MethodGet, "/my-orders/maya@example.com", adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestMealsAndReviews(t *testing.T) {
	r := setupServer(t)
	chef, _ := seedUser(t, "Luca", "luca@example.com", models.RoleChef)
	_, custToken := seedUser(t, "Maya", "maya@example.com", models.RoleCustomer)
	meal := seedMeal(t, chef, "Dal Tadka", 10)
	seedMeal(t, chef, "Paneer Tikka", 12)

	code, body := doJSON(t, r, http.MethodGet, "/meals", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["count"])

	// customers cannot create meals
	code, _ = doJSON(t, r, http.MethodPost, "/meals", custToken,
		gin.H{"name": "Soup", "price": 5.0})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = doJSON(t, r, http.MethodPost, "/reviews", custToken,
		gin.H{"meal_id": meal.ID, "rating": 5, "comment": "great"})
	require.Equal(t, http.StatusCreated, code, "review: %v", body)

	code, body = doJSON(t, r, http.MethodGet, fmt.Sprintf("/reviews/%d", meal.ID), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])

	// a chef cannot edit another chef's meal
	_, otherToken := seedUser(t, "Ines", "ines@example.com", models.RoleChef)
	code, _ = doJSON(t, r, http.MethodPut, fmt.Sprintf("/meals/%d", meal.ID), otherToken,
		gin.H{"name": "Hijacked", "price": 1.0})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestFavorites(t *testing.T) {
	r := setupServer(t)
	chef, _ := seedUser(t, "Luca", "luca@example.com", models.RoleChef)
	_, custToken := seedUser(t, "Maya", "maya@example.com", models.RoleCustomer)
	meal := seedMeal(t, chef, "Dal Tadka", 10)

	code, body := doJSON(t, r, http.MethodPost, "/favorites", custToken,
		gin.H{"meal_id": meal.ID})
	require.Equal(t, http.StatusCreated, code, "favorite: %v", body)
	favID := uint(body["favorite"].(map[string]interface{})["id"].(float64))

	// re-adding is idempotent
	code, body = doJSON(t, r, http.MethodPost, "/favorites", custToken,
		gin.H{"meal_id": meal.ID})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(favID), body["favorite"].(map[string]interface{})["id"])

	code, body = doJSON(t, r, http.MethodGet, "/favorites/maya@example.com", custToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])

	code, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/favorites/%d", favID), custToken, nil)
	assert.Equal(t, http.StatusOK, code)
}
