package lifecycle

import (
	"errors"
	"fmt"
)

// IllegalTransitionError reports an action that is not legal for the
// entity's current state and the acting role.
type IllegalTransitionError struct {
	Entity string
	From   string
	Actor  string
	Action string
	Reason string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition: %q is not allowed on %s in state %q for actor %q: %s",
		e.Action, e.Entity, e.From, e.Actor, e.Reason)
}

// IsIllegalTransition reports whether err is an IllegalTransitionError,
// possibly wrapped.
func IsIllegalTransition(err error) bool {
	var ite *IllegalTransitionError
	return errors.As(err, &ite)
}
