// internal/application/usecase/cart_store.go
package usecase

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	cartdom "tastebite/internal/domain/cart"
)

var (
	ErrCartStoreClosed = errors.New("cart_store: closed")
)

// CartStore owns the process-wide cart state for one browsing session.
//
// Mutations are synchronous and atomic with respect to the in-memory state;
// the durable save is fire-and-forget relative to the caller. A single
// background writer applies saves in mutation order, so the persisted record
// always reflects some prior in-memory state and is never an interleaving of
// two states. A crash between a mutation and its save loses at most that
// mutation (best-effort persistence).
//
// There is one logical writer; the store is still safe against concurrent
// reads while a save is pending.
type CartStore struct {
	mu    sync.RWMutex
	state *cartdom.Cart

	repo  cartdom.Repository
	newID func() string

	saveCh chan saveOp
	wg     sync.WaitGroup
	closed bool
}

type saveOp struct {
	snapshot *cartdom.Cart
	empty    bool
}

// saveQueueDepth bounds how far the in-memory state may run ahead of the
// durable record before mutations start waiting on the writer.
const saveQueueDepth = 64

// NewCartStore loads the persisted cart and starts the background writer.
//
// A missing record is the normal cold-start path. A corrupt record is logged
// as a warning and replaced by the empty initial state; it never fails
// startup. Any other load error is returned to the caller.
func NewCartStore(ctx context.Context, repo cartdom.Repository) (*CartStore, error) {
	if repo == nil {
		return nil, errors.New("cart_store: repository is nil")
	}

	state, err := repo.Load(ctx)
	if err != nil {
		if errors.Is(err, cartdom.ErrCorruptRecord) {
			log.Printf("[cart_store] WARN: persisted cart is corrupt, starting empty: %v", err)
			state = nil
		} else {
			return nil, err
		}
	}
	if state == nil {
		state = cartdom.New()
	}

	s := &CartStore{
		state:  state,
		repo:   repo,
		newID:  uuid.NewString,
		saveCh: make(chan saveOp, saveQueueDepth),
	}

	s.wg.Add(1)
	go s.saver()

	return s, nil
}

// NewCartStoreWithIDs is useful for tests that need deterministic line ids.
func NewCartStoreWithIDs(ctx context.Context, repo cartdom.Repository, newID func() string) (*CartStore, error) {
	s, err := NewCartStore(ctx, repo)
	if err != nil {
		return nil, err
	}
	if newID != nil {
		s.newID = newID
	}
	return s, nil
}

// Add inserts the candidate per the cart's add policy and returns the id of
// the line the candidate landed on (the merged line's id on the merge path).
func (s *CartStore) Add(cand cartdom.Candidate, restaurantID, restaurantName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrCartStoreClosed
	}

	id := s.newID()
	if err := s.state.Add(id, cand, restaurantID, restaurantName); err != nil {
		return "", err
	}

	// The merge path keeps the existing line; report its id, not the unused
	// fresh one.
	for _, l := range s.state.Lines {
		if l.MenuItemID == cand.MenuItemID {
			id = l.ID
			break
		}
	}

	s.enqueueSaveLocked()
	return id, nil
}

// Remove deletes a line by id. Absent ids are a no-op and skip the save.
func (s *CartStore) Remove(lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	before := s.state.LineCount()
	s.state.Remove(lineID)
	if s.state.LineCount() != before {
		s.enqueueSaveLocked()
	}
}

// SetQuantity updates a line's quantity; quantity <= 0 removes the line.
func (s *CartStore) SetQuantity(lineID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.state.SetQuantity(lineID, quantity)
	s.enqueueSaveLocked()
}

// Clear resets to the empty state (used after a confirmed checkout).
func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.state.Clear()
	s.enqueueSaveLocked()
}

// Snapshot returns a deep copy of the current state.
func (s *CartStore) Snapshot() *cartdom.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Total is the exact sum of price * quantity over all lines.
func (s *CartStore) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Total()
}

// ItemCount is the sum of quantities (badge count).
func (s *CartStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ItemCount()
}

// LineCount is the number of distinct lines.
func (s *CartStore) LineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.LineCount()
}

// Close stops accepting mutations and waits for queued saves to drain.
func (s *CartStore) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.saveCh)
	s.mu.Unlock()

	s.wg.Wait()
}

// enqueueSaveLocked snapshots the state and hands it to the writer. Caller
// holds s.mu. Enqueueing may block when the writer is far behind; that keeps
// the queue bounded without ever reordering writes.
func (s *CartStore) enqueueSaveLocked() {
	s.saveCh <- saveOp{
		snapshot: s.state.Clone(),
		empty:    s.state.IsEmpty(),
	}
}

func (s *CartStore) saver() {
	defer s.wg.Done()

	for op := range s.saveCh {
		ctx := context.Background()

		var err error
		if op.empty {
			// An empty cart deletes the record; it is never stored as an
			// empty marker.
			err = s.repo.Delete(ctx)
		} else {
			err = s.repo.Save(ctx, op.snapshot)
		}
		if err != nil {
			log.Printf("[cart_store] WARN: save failed (state kept in memory): %v", err)
		}
	}
}
