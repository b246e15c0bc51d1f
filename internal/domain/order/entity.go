// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"
)

// Status values mirror the storefront's order lifecycle. The backend only ever
// creates orders as StatusPending; the remaining transitions belong to the
// fulfillment side and are read back as-is.
const (
	StatusPending        = "pending"
	StatusConfirmed      = "confirmed"
	StatusPreparing      = "preparing"
	StatusOutForDelivery = "out-for-delivery"
	StatusDelivered      = "delivered"
)

var (
	ErrInvalidUserID     = errors.New("order: invalid userId")
	ErrInvalidRestaurant = errors.New("order: invalid restaurant")
	ErrInvalidItems      = errors.New("order: invalid items")
	ErrInvalidItem       = errors.New("order: invalid item snapshot")
)

// ItemSnapshot is one order line, denormalized from the cart line that
// produced it.
type ItemSnapshot struct {
	MenuItemID          string  `json:"menuItemId"`
	Name                string  `json:"name"`
	Price               float64 `json:"price"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions *string `json:"specialInstructions,omitempty"`
}

// Draft is a finalized cart plus delivery/payment selections, ready for
// submission as one logical unit. DeliveryAddress is nil for pickup.
type Draft struct {
	UserID         string
	RestaurantID   string
	RestaurantName string
	Total          float64

	DeliveryAddress       *string
	RequestedEtaOffsetMin int

	Items []ItemSnapshot
}

// Order is a submitted order as read back from the submission service.
type Order struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	RestaurantID    string         `json:"restaurantId"`
	RestaurantName  string         `json:"restaurantName"`
	Total           float64        `json:"total"`
	Status          string         `json:"status"`
	DeliveryAddress *string        `json:"deliveryAddress,omitempty"`
	Items           []ItemSnapshot `json:"items"`

	CreatedAt             time.Time  `json:"createdAt"`
	EstimatedDeliveryTime *time.Time `json:"estimatedDeliveryTime,omitempty"`
}

// Validate checks a draft before it leaves the process. It does not verify
// restaurant existence or pricing; the draft is trusted as a snapshot.
func (d *Draft) Validate() error {
	if d == nil || strings.TrimSpace(d.UserID) == "" {
		return ErrInvalidUserID
	}
	if strings.TrimSpace(d.RestaurantID) == "" {
		return ErrInvalidRestaurant
	}
	if len(d.Items) == 0 {
		return ErrInvalidItems
	}
	for _, it := range d.Items {
		if strings.TrimSpace(it.MenuItemID) == "" || it.Quantity < 1 {
			return ErrInvalidItem
		}
	}
	return nil
}
