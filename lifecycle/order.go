// Package lifecycle holds the pure transition rules for orders and role
// requests. It performs no I/O: callers check legality here, issue exactly
// one remote mutation on success, and refetch the authoritative state.
package lifecycle

import "homebite/models"

// Action is a verb an actor can apply to an order.
type Action string

const (
	ActionPay     Action = "pay"
	ActionAccept  Action = "accept"
	ActionDeliver Action = "deliver"
	ActionCancel  Action = "cancel"
)

// Transition defines a valid order state change and who can perform it.
// Target is the resulting order status; ActionPay has no target because
// paying opens a checkout session instead of moving the order.
type Transition struct {
	From       models.OrderStatus
	Actor      models.UserRole
	Action     Action
	Target     models.OrderStatus
	UnpaidOnly bool // legal only while the order is unpaid
}

// validTransitions is the authoritative transition table. Cancel is
// legal only while the order is unpaid, for every actor; a paid order
// can only move forward to delivered.
var validTransitions = []Transition{
	{From: models.OrderPending, Actor: models.RoleCustomer, Action: ActionPay, Target: models.OrderPending, UnpaidOnly: true},
	{From: models.OrderPending, Actor: models.RoleCustomer, Action: ActionCancel, Target: models.OrderCancelled, UnpaidOnly: true},
	{From: models.OrderPending, Actor: models.RoleChef, Action: ActionAccept, Target: models.OrderAccepted},
	{From: models.OrderPending, Actor: models.RoleChef, Action: ActionCancel, Target: models.OrderCancelled, UnpaidOnly: true},
	{From: models.OrderAccepted, Actor: models.RoleChef, Action: ActionDeliver, Target: models.OrderDelivered},
	{From: models.OrderAccepted, Actor: models.RoleCustomer, Action: ActionCancel, Target: models.OrderCancelled, UnpaidOnly: true},
	// preparing is never entered by a client action; it survives as a
	// stored state that an unpaid customer may still cancel out of.
	{From: models.OrderPreparing, Actor: models.RoleCustomer, Action: ActionCancel, Target: models.OrderCancelled, UnpaidOnly: true},
}

type transitionKey struct {
	From   models.OrderStatus
	Actor  models.UserRole
	Action Action
}

var transitionMap = func() map[transitionKey]Transition {
	m := make(map[transitionKey]Transition)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.Actor, t.Action}] = t
	}
	return m
}()

// CanAct checks whether an actor may apply an action to an order in its
// current state, and returns the resulting status. ActionPay returns the
// unchanged status: payment completion arrives via reconciliation only.
func CanAct(order *models.Order, actor models.UserRole, action Action) (models.OrderStatus, error) {
	t, ok := transitionMap[transitionKey{order.OrderStatus, actor, action}]
	if !ok {
		return "", &IllegalTransitionError{
			Entity: "order",
			From:   string(order.OrderStatus),
			Actor:  string(actor),
			Action: string(action),
			Reason: "no such transition; legal actions: " + describeActions(order, actor),
		}
	}
	if t.UnpaidOnly && order.PaymentStatus == models.PaymentPaid {
		return "", &IllegalTransitionError{
			Entity: "order",
			From:   string(order.OrderStatus),
			Actor:  string(actor),
			Action: string(action),
			Reason: "order is already paid",
		}
	}
	return t.Target, nil
}

// StatusReachable reports whether newStatus is reachable from the order's
// current state for the given actor through some action. The server side
// uses this to answer Conflict for stale or out-of-order updates.
func StatusReachable(order *models.Order, actor models.UserRole, newStatus models.OrderStatus) error {
	for _, t := range validTransitions {
		if t.From != order.OrderStatus || t.Actor != actor || t.Action == ActionPay {
			continue
		}
		if t.Target != newStatus {
			continue
		}
		if t.UnpaidOnly && order.PaymentStatus == models.PaymentPaid {
			continue
		}
		return nil
	}
	return &IllegalTransitionError{
		Entity: "order",
		From:   string(order.OrderStatus),
		Actor:  string(actor),
		Action: string(newStatus),
		Reason: "status not reachable from current state",
	}
}

// Actions returns the legal actions for an actor on an order in its
// current state, for rendering enabled controls.
func Actions(order *models.Order, actor models.UserRole) []Action {
	var out []Action
	for _, t := range validTransitions {
		if t.From != order.OrderStatus || t.Actor != actor {
			continue
		}
		if t.UnpaidOnly && order.PaymentStatus == models.PaymentPaid {
			continue
		}
		out = append(out, t.Action)
	}
	return out
}

func describeActions(order *models.Order, actor models.UserRole) string {
	acts := Actions(order, actor)
	if len(acts) == 0 {
		return "none"
	}
	s := ""
	for i, a := range acts {
		if i > 0 {
			s += ", "
		}
		s += string(a)
	}
	return s
}
