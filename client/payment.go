package client

import "context"

// Reconcile finalizes a payment after the external checkout redirects
// back with a session id. It is safe to call any number of times for the
// same session: the remote store answers a replay with the original
// transaction identifier, so refresh or back/forward navigation cannot
// double-settle an order.
//
// An empty session id is not an error: the return page may be visited
// without one, and the caller shows an informational state instead.
func (c *Commander) Reconcile(ctx context.Context, sessionID string) (*Receipt, error) {
	if sessionID == "" {
		return nil, nil
	}
	return c.store.ReconcilePayment(ctx, sessionID)
}
