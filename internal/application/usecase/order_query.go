// internal/application/usecase/order_query.go
package usecase

import (
	"context"
	"errors"
	"strings"

	orderdom "tastebite/internal/domain/order"
)

var ErrOrderInvalidArgument = errors.New("order_query: invalid argument")

// OrderQueryUsecase serves the storefront's order history.
type OrderQueryUsecase struct {
	query orderdom.Query
}

func NewOrderQueryUsecase(q orderdom.Query) *OrderQueryUsecase {
	return &OrderQueryUsecase{query: q}
}

// ListByUser returns the user's orders newest-first.
func (uc *OrderQueryUsecase) ListByUser(ctx context.Context, userID string) ([]orderdom.Order, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrOrderInvalidArgument
	}
	return uc.query.ListByUser(ctx, uid)
}
