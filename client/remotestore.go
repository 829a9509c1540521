package client

import (
	"context"

	"homebite/lifecycle"
	"homebite/models"
)

// OrderDraft is the shape of a new order before the remote store assigns
// identity and timestamps. Validation tags are checked client-side before
// anything is sent.
type OrderDraft struct {
	MealID        uint    `json:"meal_id" validate:"required"`
	MealName      string  `json:"meal_name" validate:"required"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	Quantity      int     `json:"quantity" validate:"required,min=1"`
	Address       string  `json:"address" validate:"required"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	ChefID        uint    `json:"chef_id" validate:"required"`
	ChefName      string  `json:"chef_name"`
}

// MealDraft is the shape of a meal create/update payload.
type MealDraft struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
	IsAvailable bool    `json:"is_available"`
}

// ReviewDraft is the shape of a review create/update payload.
type ReviewDraft struct {
	MealID    uint   `json:"meal_id" validate:"required"`
	UserEmail string `json:"user_email" validate:"required,email"`
	UserName  string `json:"user_name"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// CheckoutRedirect is the remote store's answer to a checkout session
// request: the URL the customer is sent to for the external payment.
type CheckoutRedirect struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// Receipt is the result of reconciling a payment session. Replaying the
// same session returns the same transaction identifier.
type Receipt struct {
	TransactionID string `json:"transaction_id"`
	TrackingID    string `json:"tracking_id"`
	OrderID       uint   `json:"order_id"`
}

// RemoteStore is the authoritative backend. It exclusively owns canonical
// entity state; everything the client holds is a possibly-stale copy to
// be refreshed after every mutating command.
type RemoteStore interface {
	// Orders
	CreateOrder(ctx context.Context, draft OrderDraft) (*models.Order, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	SetOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error)
	ListCustomerOrders(ctx context.Context, email string) ([]models.Order, error)
	ListChefOrders(ctx context.Context, chefID uint) ([]models.Order, error)

	// Payments
	CreateCheckoutSession(ctx context.Context, draft OrderDraft, orderID uint) (*CheckoutRedirect, error)
	ReconcilePayment(ctx context.Context, sessionID string) (*Receipt, error)
	ListPayments(ctx context.Context, email string) ([]models.Payment, error)

	// Role requests
	CreateRoleRequest(ctx context.Context, email, name string, role models.UserRole) (*models.RoleRequest, error)
	GetRoleRequest(ctx context.Context, id uint) (*models.RoleRequest, error)
	ListRoleRequests(ctx context.Context) ([]models.RoleRequest, error)
	ResolveRoleRequest(ctx context.Context, id uint, decision lifecycle.Decision) (*models.RoleRequest, error)

	// Users
	GetUser(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	MarkUserFraud(ctx context.Context, id uint) (*models.User, error)

	// Meals
	ListMeals(ctx context.Context) ([]models.Meal, error)
	GetMeal(ctx context.Context, id uint) (*models.Meal, error)
	CreateMeal(ctx context.Context, draft MealDraft) (*models.Meal, error)
	UpdateMeal(ctx context.Context, id uint, draft MealDraft) (*models.Meal, error)
	DeleteMeal(ctx context.Context, id uint) error

	// Favorites
	ListFavorites(ctx context.Context, email string) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, email string, mealID uint) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, id uint) error

	// Reviews
	ListReviews(ctx context.Context, mealID uint) ([]models.Review, error)
	CreateReview(ctx context.Context, draft ReviewDraft) (*models.Review, error)
	UpdateReview(ctx context.Context, id uint, draft ReviewDraft) (*models.Review, error)
	DeleteReview(ctx context.Context, id uint) error
}
