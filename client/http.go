package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"homebite/lifecycle"
	"homebite/models"
)

// HTTPStore is the RemoteStore adapter over the platform's REST API.
type HTTPStore struct {
	BaseURL string
	Token   string // bearer token from login, empty for public calls
	Client  *http.Client
}

func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is the wire shape of a rejection from the remote store.
type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// do issues one request and decodes the response into out (when non-nil).
// Transport failures become NetworkError; rejections are mapped onto the
// error taxonomy by status code and the server's machine-readable code.
func (s *HTTPStore) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &NetworkError{Op: method + " " + path, Err: err}
		}
		return nil
	}

	var ae apiError
	_ = json.NewDecoder(resp.Body).Decode(&ae)
	return mapRemoteError(resp.StatusCode, ae)
}

func mapRemoteError(status int, ae apiError) error {
	switch {
	case status == http.StatusUnprocessableEntity || ae.Code == "illegal_transition":
		return &lifecycle.IllegalTransitionError{Reason: ae.Error}
	case status == http.StatusConflict || ae.Code == "conflict":
		return &ConflictError{Message: ae.Error}
	case ae.Code == "unknown_session":
		return &UnknownSessionError{}
	case status == http.StatusBadRequest:
		return &ValidationError{Message: ae.Error}
	}
	return &RemoteError{StatusCode: status, Code: ae.Code, Message: ae.Error}
}

// ── Auth ───────────────────────────────────────────────────────────────

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login authenticates and stores the bearer token on the adapter.
func (s *HTTPStore) Login(ctx context.Context, creds Credentials) (*models.User, error) {
	var out authResponse
	if err := s.do(ctx, http.MethodPost, "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	s.Token = out.Token
	return &out.User, nil
}

// Register creates a customer account and stores the bearer token.
func (s *HTTPStore) Register(ctx context.Context, info RegisterInfo) (*models.User, error) {
	var out authResponse
	if err := s.do(ctx, http.MethodPost, "/auth/register", info, &out); err != nil {
		return nil, err
	}
	s.Token = out.Token
	return &out.User, nil
}

// Profile returns the account behind the current token.
func (s *HTTPStore) Profile(ctx context.Context) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := s.do(ctx, http.MethodGet, "/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ── Orders ─────────────────────────────────────────────────────────────

func (s *HTTPStore) CreateOrder(ctx context.Context, draft OrderDraft) (*models.Order, error) {
	var out struct {
		Order models.Order `json:"order"`
	}
	if err := s.do(ctx, http.MethodPost, "/orders", draft, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

func (s *HTTPStore) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var out struct {
		Order models.Order `json:"order"`
	}
	if err := s.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

func (s *HTTPStore) SetOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	var out struct {
		Order models.Order `json:"order"`
	}
	body := map[string]models.OrderStatus{"status": status}
	if err := s.do(ctx, http.MethodPatch, fmt.Sprintf("/orders/status/%d", id), body, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

func (s *HTTPStore) ListCustomerOrders(ctx context.Context, email string) ([]models.Order, error) {
	var out struct {
		Orders []models.Order `json:"orders"`
	}
	if err := s.do(ctx, http.MethodGet, "/my-orders/"+email, nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (s *HTTPStore) ListChefOrders(ctx context.Context, chefID uint) ([]models.Order, error) {
	var out struct {
		Orders []models.Order `json:"orders"`
	}
	if err := s.do(ctx, http.MethodGet, fmt.Sprintf("/chef-orders/%d", chefID), nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// ── Payments ───────────────────────────────────────────────────────────

func (s *HTTPStore) CreateCheckoutSession(ctx context.Context, draft OrderDraft, orderID uint) (*CheckoutRedirect, error) {
	body := struct {
		OrderDraft
		OrderID uint `json:"order_id"`
	}{draft, orderID}
	var out CheckoutRedirect
	if err := s.do(ctx, http.MethodPost, "/create-checkout-session", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *HTTPStore) ReconcilePayment(ctx context.Context, sessionID string) (*Receipt, error) {
	var out Receipt
	if err := s.do(ctx, http.MethodPatch, "/payment-success?session_id="+sessionID, nil, &out); err != nil {
		if ue, ok := err.(*UnknownSessionError); ok {
			ue.SessionID = sessionID
		}
		return nil, err
	}
	return &out, nil
}

func (s *HTTPStore) ListPayments(ctx context.Context, email string) ([]models.Payment, error) {
	var out struct {
		Payments []models.Payment `json:"payments"`
	}
	if err := s.do(ctx, http.MethodGet, "/payments/"+email, nil, &out); err != nil {
		return nil, err
	}
	return out.Payments, nil
}

// ── Role requests ──────────────────────────────────────────────────────

func (s *HTTPStore) CreateRoleRequest(ctx context.Context, email, name string, role models.UserRole) (*models.RoleRequest, error) {
	body := map[string]string{
		"user_email":     email,
		"user_name":      name,
		"requested_role": string(role),
	}
	var out struct {
		Request models.RoleRequest `json:"request"`
	}
	if err := s.do(ctx, http.MethodPost, "/role-requests", body, &out); err != nil {
		return nil, err
	}
	return &out.Request, nil
}

func (s *HTTPStore) GetRoleRequest(ctx context.Context, id uint) (*models.RoleRequest, error) {
	var out struct {
		Request models.RoleRequest `json:"request"`
	}
	if err := s.do(ctx, http.MethodGet, fmt.Sprintf("/role-requests/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Request, nil
}

func (s *HTTPStore) ListRoleRequests(ctx context.Context) ([]models.RoleRequest, error) {
	var out struct {
		Requests []models.RoleRequest `json:"requests"`
	}
	if err := s.do(ctx, http.MethodGet, "/role-requests", nil, &out); err != nil {
		return nil, err
	}
	return out.Requests, nil
}

func (s *HTTPStore) ResolveRoleRequest(ctx context.Context, id uint, decision lifecycle.Decision) (*models.RoleRequest, error) {
	var out struct {
		Request models.RoleRequest `json:"request"`
	}
	path := fmt.Sprintf("/role-requests/%s/%d", decision, id)
	if err := s.do(ctx, http.MethodPatch, path, nil, &out); err != nil {
		return nil, err
	}
	return &out.Request, nil
}

// ── Users ──────────────────────────────────────────────────────────────

func (s *HTTPStore) GetUser(ctx context.Context, email string) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := s.do(ctx, http.MethodGet, "/users/"+email, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (s *HTTPStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var out struct {
		Users []models.User `json:"users"`
	}
	if err := s.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (s *HTTPStore) MarkUserFraud(ctx context.Context, id uint) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := s.do(ctx, http.MethodPatch, fmt.Sprintf("/users/fraud/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ── Meals ──────────────────────────────────────────────────────────────

func (s *HTTPStore) ListMeals(ctx context.Context) ([]models.Meal, error) {
	var out struct {
		Meals []models.Meal `json:"meals"`
	}
	if err := s.do(ctx, http.MethodGet, "/meals", nil, &out); err != nil {
		return nil, err
	}
	return out.Meals, nil
}

func (s *HTTPStore) GetMeal(ctx context.Context, id uint) (*models.Meal, error) {
	var out struct {
		Meal models.Meal `json:"meal"`
	}
	if err := s.do(ctx, http.MethodGet, fmt.Sprintf("/meals/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Meal, nil
}

func (s *HTTPStore) CreateMeal(ctx context.Context, draft MealDraft) (*models.Meal, error) {
	var out struct {
		Meal models.Meal `json:"meal"`
	}
	if err := s.do(ctx, http.MethodPost, "/meals", draft, &out); err != nil {
		return nil, err
	}
	return &out.Meal, nil
}

func (s *HTTPStore) UpdateMeal(ctx context.Context, id uint, draft MealDraft) (*models.Meal, error) {
	var out struct {
		Meal models.Meal `json:"meal"`
	}
	if err := s.do(ctx, http.MethodPut, fmt.Sprintf("/meals/%d", id), draft, &out); err != nil {
		return nil, err
	}
	return &out.Meal, nil
}

func (s *HTTPStore) DeleteMeal(ctx context.Context, id uint) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/meals/%d", id), nil, nil)
}

// ── Favorites ──────────────────────────────────────────────────────────

func (s *HTTPStore) ListFavorites(ctx context.Context, email string) ([]models.Favorite, error) {
	var out struct {
		Favorites []models.Favorite `json:"favorites"`
	}
	if err := s.do(ctx, http.MethodGet, "/favorites/"+email, nil, &out); err != nil {
		return nil, err
	}
	return out.Favorites, nil
}

func (s *HTTPStore) AddFavorite(ctx context.Context, email string, mealID uint) (*models.Favorite, error) {
	body := map[string]interface{}{"user_email": email, "meal_id": mealID}
	var out struct {
		Favorite models.Favorite `json:"favorite"`
	}
	if err := s.do(ctx, http.MethodPost, "/favorites", body, &out); err != nil {
		return nil, err
	}
	return &out.Favorite, nil
}

func (s *HTTPStore) RemoveFavorite(ctx context.Context, id uint) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/favorites/%d", id), nil, nil)
}

// ── Reviews ────────────────────────────────────────────────────────────

func (s *HTTPStore) ListReviews(ctx context.Context, mealID uint) ([]models.Review, error) {
	var out struct {
		Reviews []models.Review `json:"reviews"`
	}
	if err := s.do(ctx, http.MethodGet, fmt.Sprintf("/reviews/%d", mealID), nil, &out); err != nil {
		return nil, err
	}
	return out.Reviews, nil
}

func (s *HTTPStore) CreateReview(ctx context.Context, draft ReviewDraft) (*models.Review, error) {
	var out struct {
		Review models.Review `json:"review"`
	}
	if err := s.do(ctx, http.MethodPost, "/reviews", draft, &out); err != nil {
		return nil, err
	}
	return &out.Review, nil
}

func (s *HTTPStore) UpdateReview(ctx context.Context, id uint, draft ReviewDraft) (*models.Review, error) {
	var out struct {
		Review models.Review `json:"review"`
	}
	if err := s.do(ctx, http.MethodPut, fmt.Sprintf("/reviews/%d", id), draft, &out); err != nil {
		return nil, err
	}
	return &out.Review, nil
}

func (s *HTTPStore) DeleteReview(ctx context.Context, id uint) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/reviews/%d", id), nil, nil)
}

// compile-time check that HTTPStore satisfies the RemoteStore contract
var _ RemoteStore = (*HTTPStore)(nil)
