// internal/domain/cart/repository_port.go
package cart

import (
	"context"
	"errors"
)

// ErrCorruptRecord is returned by Load when the persisted record exists but
// cannot be decoded. Callers are expected to recover by falling back to the
// empty initial state; a corrupt record must never be fatal.
var ErrCorruptRecord = errors.New("cart: corrupt persisted record")

// Repository is the persistence port for the cart.
//
// The cart is a single durable key-value record addressed by a fixed key.
// Not-found policy:
//   - Load returns (nil, nil) when no record exists (normal cold start).
//   - Save with a non-empty cart overwrites the record.
//   - Delete removes the record entirely; an empty cart is never stored as an
//     empty record.
type Repository interface {
	Load(ctx context.Context) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context) error
}
