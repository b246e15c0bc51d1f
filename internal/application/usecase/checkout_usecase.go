// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	orderdom "tastebite/internal/domain/order"
)

// Fulfillment options accepted by checkout.
const (
	FulfillmentDelivery = "delivery"
	FulfillmentPickup   = "pickup"
)

// Storefront fee policy and requested ETA, as rendered to the customer.
const (
	DeliveryFee           = 2.99
	ServiceFee            = 1.99
	RequestedEtaOffsetMin = 45
)

// defaultSubmitTimeout bounds one submission attempt; expiry surfaces as a
// retryable ErrSubmitFailed, never as a success.
const defaultSubmitTimeout = 15 * time.Second

var (
	// Precondition failures: surfaced before any network call, cart untouched.
	ErrNotAuthenticated        = errors.New("checkout: not authenticated")
	ErrDeliveryAddressRequired = errors.New("checkout: delivery address required")
	ErrCartEmpty               = errors.New("checkout: cart is empty")
	ErrInvalidFulfillment      = errors.New("checkout: invalid fulfillment option")

	// ErrCheckoutInFlight rejects a second submission while one is
	// outstanding (no double-submission of the same cart).
	ErrCheckoutInFlight = errors.New("checkout: submission already in flight")

	// ErrSubmitFailed wraps any order-submission failure. The cart and its
	// restaurant context are preserved unchanged; the caller may retry the
	// entire checkout.
	ErrSubmitFailed = errors.New("checkout: order submission failed")
)

// Mailer sends the order confirmation. Best-effort: failures are logged and
// never fail the checkout.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// CheckoutInput carries the externally supplied identity and
// delivery/payment selections.
type CheckoutInput struct {
	UserID    string
	UserEmail string

	Fulfillment     string // "delivery" or "pickup"
	DeliveryAddress string // required when Fulfillment is "delivery"
	PaymentMethod   string // opaque to the core; processing is delegated
}

// CheckoutResult reports a confirmed submission.
type CheckoutResult struct {
	OrderID  string  `json:"orderId"`
	Subtotal float64 `json:"subtotal"`
	Total    float64 `json:"total"`
}

// CheckoutUsecase converts the current cart into a submitted order. Only a
// confirmed submission clears the cart; every failure path leaves it intact
// so the customer can retry without data loss or duplicate local state.
type CheckoutUsecase struct {
	store     *CartStore
	submitter orderdom.Submitter

	mailer   Mailer
	mailFrom string

	timeout time.Duration
	busy    atomic.Bool
}

func NewCheckoutUsecase(store *CartStore, submitter orderdom.Submitter) *CheckoutUsecase {
	return &CheckoutUsecase{
		store:     store,
		submitter: submitter,
		timeout:   defaultSubmitTimeout,
	}
}

// WithMailer enables the best-effort confirmation mail.
func (uc *CheckoutUsecase) WithMailer(m Mailer, from string) *CheckoutUsecase {
	uc.mailer = m
	uc.mailFrom = strings.TrimSpace(from)
	return uc
}

// WithTimeout overrides the per-submission timeout (tests).
func (uc *CheckoutUsecase) WithTimeout(d time.Duration) *CheckoutUsecase {
	if d > 0 {
		uc.timeout = d
	}
	return uc
}

// Submit runs the checkout hand-off.
func (uc *CheckoutUsecase) Submit(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	if uc == nil || uc.store == nil || uc.submitter == nil {
		return CheckoutResult{}, ErrSubmitFailed
	}

	if !uc.busy.CompareAndSwap(false, true) {
		return CheckoutResult{}, ErrCheckoutInFlight
	}
	defer uc.busy.Store(false)

	uid := strings.TrimSpace(in.UserID)
	if uid == "" {
		return CheckoutResult{}, ErrNotAuthenticated
	}

	fulfillment := strings.TrimSpace(in.Fulfillment)
	switch fulfillment {
	case FulfillmentDelivery, FulfillmentPickup:
	default:
		return CheckoutResult{}, ErrInvalidFulfillment
	}

	address := strings.TrimSpace(in.DeliveryAddress)
	if fulfillment == FulfillmentDelivery && address == "" {
		return CheckoutResult{}, ErrDeliveryAddressRequired
	}

	snap := uc.store.Snapshot()
	if snap.IsEmpty() {
		return CheckoutResult{}, ErrCartEmpty
	}

	subtotal := snap.Total()
	total := subtotal + DeliveryFee + ServiceFee

	draft := orderdom.Draft{
		UserID:                uid,
		RestaurantID:          snap.RestaurantID,
		RestaurantName:        snap.RestaurantName,
		Total:                 total,
		RequestedEtaOffsetMin: RequestedEtaOffsetMin,
		Items:                 make([]orderdom.ItemSnapshot, 0, len(snap.Lines)),
	}
	if fulfillment == FulfillmentDelivery {
		draft.DeliveryAddress = &address
	}
	for _, l := range snap.Lines {
		draft.Items = append(draft.Items, orderdom.ItemSnapshot{
			MenuItemID:          l.MenuItemID,
			Name:                l.Name,
			Price:               l.Price,
			Quantity:            l.Quantity,
			SpecialInstructions: l.SpecialInstructions,
		})
	}
	if err := draft.Validate(); err != nil {
		return CheckoutResult{}, err
	}

	subCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	orderID, err := uc.submitter.Submit(subCtx, draft)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	// Confirmed success: only now is the local cart cleared.
	uc.store.Clear()

	uc.sendConfirmation(in, orderID, total)

	return CheckoutResult{OrderID: orderID, Subtotal: subtotal, Total: total}, nil
}

func (uc *CheckoutUsecase) sendConfirmation(in CheckoutInput, orderID string, total float64) {
	if uc.mailer == nil || uc.mailFrom == "" {
		return
	}
	to := strings.TrimSpace(in.UserEmail)
	if to == "" {
		return
	}

	subject := "Your order is confirmed"
	body := fmt.Sprintf("Order %s received. Total: $%.2f. We'll let you know when it's on the way.", orderID, total)

	mailCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := uc.mailer.Send(mailCtx, uc.mailFrom, to, subject, body); err != nil {
		log.Printf("[checkout] WARN: confirmation mail failed orderId=%s: %v", orderID, err)
	}
}
