package lifecycle

import "homebite/models"

// Decision is an admin's verdict on a pending role request.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// CanResolve checks whether an actor may resolve a role request with the
// given decision and returns the resulting request status. A request is
// resolved at most once; anything but a pending request is terminal.
func CanResolve(req *models.RoleRequest, actor models.UserRole, decision Decision) (models.RequestStatus, error) {
	if actor != models.RoleAdmin {
		return "", &IllegalTransitionError{
			Entity: "role request",
			From:   string(req.Status),
			Actor:  string(actor),
			Action: string(decision),
			Reason: "only an admin may resolve role requests",
		}
	}
	if req.Status != models.RequestPending {
		return "", &IllegalTransitionError{
			Entity: "role request",
			From:   string(req.Status),
			Actor:  string(actor),
			Action: string(decision),
			Reason: "request is already resolved",
		}
	}
	switch decision {
	case DecisionApprove:
		return models.RequestApproved, nil
	case DecisionReject:
		return models.RequestRejected, nil
	}
	return "", &IllegalTransitionError{
		Entity: "role request",
		From:   string(req.Status),
		Actor:  string(actor),
		Action: string(decision),
		Reason: "unknown decision",
	}
}

// ValidRequestedRole reports whether a role can be petitioned for.
// Customers ask to become chefs or admins; nobody requests customer.
func ValidRequestedRole(role models.UserRole) bool {
	return role == models.RoleChef || role == models.RoleAdmin
}
