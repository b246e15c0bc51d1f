// internal/domain/order/repository_port.go
package order

import "context"

// Submitter is the Order Submission Service boundary. Submit persists the
// draft's header and line batch as one logical unit and returns the created
// order id. Any failure is a recoverable error: the caller keeps its cart and
// may retry the entire submission.
type Submitter interface {
	Submit(ctx context.Context, d Draft) (orderID string, err error)
}

// Query is the read side used by the storefront's order history.
type Query interface {
	// ListByUser returns the user's orders newest-first, lines included.
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}
