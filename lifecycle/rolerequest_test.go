package lifecycle

import (
	"testing"

	"homebite/models"
)

func request(status models.RequestStatus) *models.RoleRequest {
	return &models.RoleRequest{
		ID:            7,
		UserEmail:     "ana@example.com",
		UserName:      "Ana",
		RequestedRole: models.RoleChef,
		Status:        status,
	}
}

func TestCanResolve_PendingOnly(t *testing.T) {
	got, err := CanResolve(request(models.RequestPending), models.RoleAdmin, DecisionApprove)
	if err != nil {
		t.Fatalf("expected approve of pending request to succeed, got: %v", err)
	}
	if got != models.RequestApproved {
		t.Errorf("expected approved, got %q", got)
	}

	got, err = CanResolve(request(models.RequestPending), models.RoleAdmin, DecisionReject)
	if err != nil {
		t.Fatalf("expected reject of pending request to succeed, got: %v", err)
	}
	if got != models.RequestRejected {
		t.Errorf("expected rejected, got %q", got)
	}
}

func TestCanResolve_ResolvedIsTerminal(t *testing.T) {
	for _, status := range []models.RequestStatus{models.RequestApproved, models.RequestRejected} {
		for _, decision := range []Decision{DecisionApprove, DecisionReject} {
			_, err := CanResolve(request(status), models.RoleAdmin, decision)
			if err == nil {
				t.Fatalf("expected %s of %s request to fail", decision, status)
			}
			if !IsIllegalTransition(err) {
				t.Errorf("expected IllegalTransitionError, got %T", err)
			}
		}
	}
}

func TestCanResolve_AdminOnly(t *testing.T) {
	for _, actor := range []models.UserRole{models.RoleCustomer, models.RoleChef} {
		if _, err := CanResolve(request(models.RequestPending), actor, DecisionApprove); err == nil {
			t.Errorf("expected resolve by %s to fail", actor)
		}
	}
}

func TestCanResolve_UnknownDecision(t *testing.T) {
	if _, err := CanResolve(request(models.RequestPending), models.RoleAdmin, Decision("defer")); err == nil {
		t.Error("expected unknown decision to fail")
	}
}

func TestValidRequestedRole(t *testing.T) {
	if !ValidRequestedRole(models.RoleChef) || !ValidRequestedRole(models.RoleAdmin) {
		t.Error("chef and admin must be requestable")
	}
	if ValidRequestedRole(models.RoleCustomer) {
		t.Error("customer must not be requestable")
	}
}
