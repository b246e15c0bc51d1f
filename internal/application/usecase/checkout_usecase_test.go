package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cartdom "tastebite/internal/domain/cart"
	orderdom "tastebite/internal/domain/order"
)

type fakeSubmitter struct {
	mu     sync.Mutex
	drafts []orderdom.Draft
	err    error
	block  chan struct{} // when set, Submit waits for it (or ctx) before returning
}

func (f *fakeSubmitter) Submit(ctx context.Context, d orderdom.Draft) (string, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.drafts = append(f.drafts, d)
	return fmt.Sprintf("order-%d", len(f.drafts)), nil
}

func (f *fakeSubmitter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.drafts)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, from, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func newStoreWithLine(t *testing.T) (*CartStore, *fakeCartRepo) {
	t.Helper()
	repo := &fakeCartRepo{}
	s, err := NewCartStoreWithIDs(context.Background(), repo, seqIDs())
	require.NoError(t, err)
	t.Cleanup(s.Close)

	_, err = s.Add(cartdom.Candidate{MenuItemID: "m1", Name: "Pad Thai", Price: 10.0, Quantity: 2}, "r1", "Thai Palace")
	require.NoError(t, err)
	return s, repo
}

func deliveryInput() CheckoutInput {
	return CheckoutInput{
		UserID:          "u1",
		UserEmail:       "u1@example.com",
		Fulfillment:     FulfillmentDelivery,
		DeliveryAddress: "1 Main St",
		PaymentMethod:   "card",
	}
}

func TestCheckoutRequiresAuthentication(t *testing.T) {
	s, _ := newStoreWithLine(t)
	sub := &fakeSubmitter{}
	uc := NewCheckoutUsecase(s, sub)

	in := deliveryInput()
	in.UserID = ""
	_, err := uc.Submit(context.Background(), in)
	require.ErrorIs(t, err, ErrNotAuthenticated)
	require.Equal(t, 0, sub.calls(), "no network call before preconditions pass")
	require.Equal(t, 1, s.LineCount(), "cart left untouched")
}

func TestCheckoutRequiresDeliveryAddressForDelivery(t *testing.T) {
	s, _ := newStoreWithLine(t)
	sub := &fakeSubmitter{}
	uc := NewCheckoutUsecase(s, sub)

	in := deliveryInput()
	in.DeliveryAddress = "   "
	_, err := uc.Submit(context.Background(), in)
	require.ErrorIs(t, err, ErrDeliveryAddressRequired)
	require.Equal(t, 0, sub.calls())
	require.Equal(t, 1, s.LineCount())
}

func TestCheckoutPickupNeedsNoAddress(t *testing.T) {
	s, _ := newStoreWithLine(t)
	sub := &fakeSubmitter{}
	uc := NewCheckoutUsecase(s, sub)

	in := deliveryInput()
	in.Fulfillment = FulfillmentPickup
	in.DeliveryAddress = ""
	res, err := uc.Submit(context.Background(), in)
	require.NoError(t, err)
	require.NotEmpty(t, res.OrderID)
	require.Nil(t, sub.drafts[0].DeliveryAddress, "pickup submits a null address")
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	repo := &fakeCartRepo{}
	s, err := NewCartStore(context.Background(), repo)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	uc := NewCheckoutUsecase(s, &fakeSubmitter{})
	_, err = uc.Submit(context.Background(), deliveryInput())
	require.ErrorIs(t, err, ErrCartEmpty)
}

func TestCheckoutSubmitsDraftAndClearsCartOnSuccess(t *testing.T) {
	s, _ := newStoreWithLine(t)
	sub := &fakeSubmitter{}
	uc := NewCheckoutUsecase(s, sub)

	res, err := uc.Submit(context.Background(), deliveryInput())
	require.NoError(t, err)

	require.Equal(t, "order-1", res.OrderID)
	require.InDelta(t, 20.0, res.Subtotal, 1e-9)
	require.InDelta(t, 20.0+DeliveryFee+ServiceFee, res.Total, 1e-9)

	d := sub.drafts[0]
	require.Equal(t, "u1", d.UserID)
	require.Equal(t, "r1", d.RestaurantID)
	require.Equal(t, "Thai Palace", d.RestaurantName)
	require.Equal(t, RequestedEtaOffsetMin, d.RequestedEtaOffsetMin)
	require.Len(t, d.Items, 1)
	require.Equal(t, 2, d.Items[0].Quantity)
	require.NotNil(t, d.DeliveryAddress)
	require.Equal(t, "1 Main St", *d.DeliveryAddress)

	require.Equal(t, 0, s.LineCount(), "confirmed success clears the cart")
}

func TestCheckoutFailurePreservesCartForRetry(t *testing.T) {
	s, _ := newStoreWithLine(t)
	sub := &fakeSubmitter{err: fmt.Errorf("service unavailable")}
	uc := NewCheckoutUsecase(s, sub)

	_, err := uc.Submit(context.Background(), deliveryInput())
	require.ErrorIs(t, err, ErrSubmitFailed)

	snap := s.Snapshot()
	require.Equal(t, 1, snap.LineCount())
	require.Equal(t, "r1", snap.RestaurantID, "restaurant context preserved for retry")

	// Retry succeeds once the service recovers.
	sub.err = nil
	res, err := uc.Submit(context.Background(), deliveryInput())
	require.NoError(t, err)
	require.Equal(t, "order-1", res.OrderID)
	require.Equal(t, 0, s.LineCount())
}

func TestCheckoutRejectsConcurrentSubmission(t *testing.T) {
	s, _ := newStoreWithLine(t)
	block := make(chan struct{})
	sub := &fakeSubmitter{block: block}
	uc := NewCheckoutUsecase(s, sub)

	firstDone := make(chan error, 1)
	go func() {
		_, err := uc.Submit(context.Background(), deliveryInput())
		firstDone <- err
	}()

	// Wait for the first submission to take the busy flag.
	require.Eventually(t, func() bool {
		_, err := uc.Submit(context.Background(), deliveryInput())
		return err != nil && err == ErrCheckoutInFlight
	}, time.Second, 5*time.Millisecond)

	close(block)
	require.NoError(t, <-firstDone)
	require.Equal(t, 1, sub.calls(), "exactly one submission went out")
}

func TestCheckoutTimeoutIsRetryableFailure(t *testing.T) {
	s, _ := newStoreWithLine(t)
	sub := &fakeSubmitter{block: make(chan struct{})} // never released: only ctx expiry returns
	uc := NewCheckoutUsecase(s, sub).WithTimeout(20 * time.Millisecond)

	_, err := uc.Submit(context.Background(), deliveryInput())
	require.ErrorIs(t, err, ErrSubmitFailed)
	require.Equal(t, 1, s.LineCount(), "cart intact after timeout; retry is possible")
}

func TestCheckoutMailFailureDoesNotFailCheckout(t *testing.T) {
	s, _ := newStoreWithLine(t)
	sub := &fakeSubmitter{}
	mailer := &fakeMailer{err: fmt.Errorf("smtp down")}
	uc := NewCheckoutUsecase(s, sub).WithMailer(mailer, "orders@tastebite.example")

	res, err := uc.Submit(context.Background(), deliveryInput())
	require.NoError(t, err)
	require.NotEmpty(t, res.OrderID)
	require.Equal(t, 0, s.LineCount())
}

func TestCheckoutSendsConfirmationMail(t *testing.T) {
	s, _ := newStoreWithLine(t)
	mailer := &fakeMailer{}
	uc := NewCheckoutUsecase(s, &fakeSubmitter{}).WithMailer(mailer, "orders@tastebite.example")

	_, err := uc.Submit(context.Background(), deliveryInput())
	require.NoError(t, err)
	require.Equal(t, []string{"u1@example.com"}, mailer.sent)
}
