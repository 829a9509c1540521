package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"homebite/lifecycle"
	"homebite/models"
)

// Actor is the identity attempting a command. It is always passed in
// explicitly by the caller, never read from ambient state, so the command
// layer stays testable in isolation.
type Actor struct {
	ID     uint
	Email  string
	Name   string
	Role   models.UserRole
	Status models.UserStatus
}

// Commander is the single mutation funnel between a view and the remote
// store. It checks transition legality before sending, refuses a second
// action on an entity that is still awaiting a response, and never trusts
// its own mutation result: every successful command ends with a refetch
// of the authoritative state.
type Commander struct {
	store    RemoteStore
	validate *validator.Validate

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewCommander(store RemoteStore) *Commander {
	return &Commander{
		store:    store,
		validate: validator.New(),
		inflight: make(map[string]struct{}),
	}
}

// begin claims the in-flight slot for an entity/action pair. The key is
// entity id plus action name, so paying one order does not block
// cancelling another, but double-submitting the same button does block.
func (c *Commander) begin(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[key]; busy {
		return ErrActionInFlight
	}
	c.inflight[key] = struct{}{}
	return nil
}

func (c *Commander) end(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
}

func (c *Commander) checkDraft(draft interface{}) error {
	err := c.validate.Struct(draft)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return &ValidationError{Field: errs[0].Field(), Message: "failed rule " + errs[0].Tag()}
	}
	return &ValidationError{Message: err.Error()}
}

// PlaceOrder validates the draft locally, creates the order and returns
// the server-assigned entity. New orders start pending/pending.
func (c *Commander) PlaceOrder(ctx context.Context, actor Actor, draft OrderDraft) (*models.Order, error) {
	if err := c.checkDraft(draft); err != nil {
		return nil, err
	}
	draft.CustomerEmail = actor.Email
	return c.store.CreateOrder(ctx, draft)
}

// AttemptTransition applies one status action to an order on behalf of an
// actor. Legality is checked against the current state before anything is
// sent; the remote store's own rejection of the same action is treated as
// authoritative and surfaces after a refetch either way. ActionPay is not
// a status transition and goes through Pay instead.
func (c *Commander) AttemptTransition(ctx context.Context, actor Actor, order *models.Order, action lifecycle.Action) (*models.Order, error) {
	if action == lifecycle.ActionPay {
		return nil, &ValidationError{Message: "pay is not a status transition, use Pay"}
	}
	target, err := lifecycle.CanAct(order, actor.Role, action)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("order:%d:%s", order.ID, action)
	if err := c.begin(key); err != nil {
		return nil, err
	}
	defer c.end(key)

	if _, err := c.store.SetOrderStatus(ctx, order.ID, target); err != nil {
		// the server may know something we do not (a concurrent actor,
		// a fraud flag); refetch so the view can render the truth
		if fresh, ferr := c.store.GetOrder(ctx, order.ID); ferr == nil {
			*order = *fresh
		}
		return nil, err
	}

	return c.store.GetOrder(ctx, order.ID)
}

// Pay opens an external checkout session for a pending, unpaid order and
// returns the redirect the customer must follow. The order itself does
// not change until the return navigation reconciles the session.
func (c *Commander) Pay(ctx context.Context, actor Actor, order *models.Order) (*CheckoutRedirect, error) {
	if _, err := lifecycle.CanAct(order, actor.Role, lifecycle.ActionPay); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("order:%d:%s", order.ID, lifecycle.ActionPay)
	if err := c.begin(key); err != nil {
		return nil, err
	}
	defer c.end(key)

	draft := OrderDraft{
		MealID:        order.MealID,
		MealName:      order.MealName,
		Price:         order.Price,
		Quantity:      order.Quantity,
		Address:       order.Address,
		CustomerEmail: actor.Email,
		ChefID:        order.ChefID,
		ChefName:      order.ChefName,
	}
	return c.store.CreateCheckoutSession(ctx, draft, order.ID)
}

// RequestRole files a role-upgrade petition for the acting user.
func (c *Commander) RequestRole(ctx context.Context, actor Actor, role models.UserRole) (*models.RoleRequest, error) {
	if !lifecycle.ValidRequestedRole(role) {
		return nil, &ValidationError{Field: "role", Message: "must be chef or admin"}
	}
	return c.store.CreateRoleRequest(ctx, actor.Email, actor.Name, role)
}

// ResolveRoleRequest approves or rejects a pending request. Approval is a
// single perceived unit: the requester is refetched before the command
// reports success, so the caller only ever sees the role change complete.
// One in-flight slot covers both decisions for a request id, matching the
// requirement that a resolve in flight disables further resolves.
func (c *Commander) ResolveRoleRequest(ctx context.Context, actor Actor, req *models.RoleRequest, decision lifecycle.Decision) (*models.RoleRequest, *models.User, error) {
	if _, err := lifecycle.CanResolve(req, actor.Role, decision); err != nil {
		return nil, nil, err
	}

	key := fmt.Sprintf("rolerequest:%d:resolve", req.ID)
	if err := c.begin(key); err != nil {
		return nil, nil, err
	}
	defer c.end(key)

	if _, err := c.store.ResolveRoleRequest(ctx, req.ID, decision); err != nil {
		if fresh, ferr := c.store.GetRoleRequest(ctx, req.ID); ferr == nil {
			*req = *fresh
		}
		return nil, nil, err
	}

	resolved, err := c.store.GetRoleRequest(ctx, req.ID)
	if err != nil {
		return nil, nil, err
	}
	requester, err := c.store.GetUser(ctx, req.UserEmail)
	if err != nil {
		return resolved, nil, err
	}
	return resolved, requester, nil
}

// MarkFraud flags a user as fraudulent and returns the refetched user.
// Pending role requests of that user are left untouched.
func (c *Commander) MarkFraud(ctx context.Context, actor Actor, user *models.User) (*models.User, error) {
	if actor.Role != models.RoleAdmin {
		return nil, &lifecycle.IllegalTransitionError{
			Entity: "user",
			From:   string(user.Status),
			Actor:  string(actor.Role),
			Action: "fraud",
			Reason: "only an admin may mark users fraud",
		}
	}
	if user.Status == models.StatusFraud {
		return nil, &lifecycle.IllegalTransitionError{
			Entity: "user",
			From:   string(user.Status),
			Actor:  string(actor.Role),
			Action: "fraud",
			Reason: "user is already marked fraud",
		}
	}

	key := fmt.Sprintf("user:%d:fraud", user.ID)
	if err := c.begin(key); err != nil {
		return nil, err
	}
	defer c.end(key)

	if _, err := c.store.MarkUserFraud(ctx, user.ID); err != nil {
		return nil, err
	}
	return c.store.GetUser(ctx, user.Email)
}

// AddMeal validates and creates a meal for a chef.
func (c *Commander) AddMeal(ctx context.Context, actor Actor, draft MealDraft) (*models.Meal, error) {
	if err := c.checkDraft(draft); err != nil {
		return nil, err
	}
	return c.store.CreateMeal(ctx, draft)
}

// SubmitReview validates and creates a review by the acting user.
func (c *Commander) SubmitReview(ctx context.Context, actor Actor, draft ReviewDraft) (*models.Review, error) {
	draft.UserEmail = actor.Email
	draft.UserName = actor.Name
	if err := c.checkDraft(draft); err != nil {
		return nil, err
	}
	return c.store.CreateReview(ctx, draft)
}
