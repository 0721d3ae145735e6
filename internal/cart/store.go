package cart

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-client/pkg/broadcast"
	"github.com/angelmondragon/storefront-client/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/metrics"
)

// Store keeps the server cart of the current identity in memory. The cart
// service is the system of record; nothing is applied before it answers.
type Store struct {
	api      API
	identity IdentitySource
	logg     *logger.Logger
	metrics  *metrics.OperationMetrics

	mu     sync.Mutex
	state  State
	epoch  uint64
	closed bool

	changes     *broadcast.Subject[State]
	unsubscribe func()
	refreshes   sync.WaitGroup
}

// NewStore wires a store to identity changes. It performs no I/O; call
// Refresh to load the initial cart.
func NewStore(api API, identity IdentitySource, logg *logger.Logger, m *metrics.OperationMetrics) *Store {
	s := &Store{
		api:      api,
		identity: identity,
		logg:     logg,
		metrics:  m,
		state:    Empty(),
		changes:  broadcast.NewSubject[State](),
	}
	s.unsubscribe = identity.OnIdentityChanged(s.identityChanged)
	return s
}

func (s *Store) identityChanged() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	// Anything still in flight belongs to the previous identity.
	s.epoch++
	s.refreshes.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.refreshes.Done()
		if _, err := s.Refresh(context.Background()); err != nil {
			s.logg.Warn(context.Background(), "cart.auto_refresh_failed")
		}
	}()
}

// Snapshot returns a copy of the current cart.
func (s *Store) Snapshot(context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn for every committed change.
func (s *Store) Subscribe(fn func(State)) func() {
	return s.changes.Subscribe(fn)
}

func (s *Store) begin() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch, !s.closed
}

// commit replaces the state if no identity change or Close happened since
// epoch was read. Listeners run after the lock is released.
func (s *Store) commit(epoch uint64, next State) (State, bool) {
	s.mu.Lock()
	if s.closed || s.epoch != epoch {
		current := s.state.Clone()
		s.mu.Unlock()
		return current, false
	}
	s.state = next.Clone()
	s.mu.Unlock()

	s.changes.Publish(next.Clone())
	return next, true
}

// Refresh loads the active cart of the current identity. Without an identity
// the cart is emptied and no request is made. A failed fetch also empties
// the cart and returns the FETCH_FAILED error.
func (s *Store) Refresh(ctx context.Context) (State, error) {
	started := time.Now()
	epoch, open := s.begin()
	if !open {
		return s.Snapshot(ctx), nil
	}

	userID, ok := s.identity.GetIdentity(ctx)
	if !ok {
		state, _ := s.commit(epoch, Empty())
		s.metrics.Observe("cart.refresh", started, "")
		return state, nil
	}
	ctx = s.logg.WithUserID(ctx, userID)

	resp, err := s.api.ActiveByUser(ctx, userID)
	if err != nil {
		state, _ := s.commit(epoch, Empty())
		s.logg.Error(ctx, "cart.refresh_failed", err)
		s.metrics.Observe("cart.refresh", started, string(pkgerrors.CodeFetchFailed))
		return state, asFetchFailed(err, "refresh cart")
	}

	state, applied := s.commit(epoch, resp.ToState())
	if !applied {
		s.logg.Debug(ctx, "cart.refresh_superseded")
	}
	s.metrics.Observe("cart.refresh", started, "")
	return state, nil
}

// AddItem adds one unit of productID to the server cart and adopts the
// server's answer.
func (s *Store) AddItem(ctx context.Context, productID int64) (State, error) {
	started := time.Now()
	// The epoch is read before the identity so an identity change between
	// the two reads invalidates this call.
	s.mu.Lock()
	epoch := s.epoch
	cartID := s.state.Clone().ID
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return Empty(), pkgerrors.New(pkgerrors.CodeStateConflict, "cart store is closed")
	}

	userID, ok := s.identity.GetIdentity(ctx)
	if !ok {
		s.metrics.Observe("cart.add_item", started, string(pkgerrors.CodeAuthRequired))
		return s.Snapshot(ctx), pkgerrors.New(pkgerrors.CodeAuthRequired, "sign in to add items to the cart")
	}
	if productID <= 0 {
		return s.Snapshot(ctx), pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	ctx = s.logg.WithFields(s.logg.WithUserID(ctx, userID), map[string]any{"product_id": productID})

	resp, err := s.api.Add(ctx, AddRequest{
		ID:     cartID,
		Items:  []int64{productID},
		UserID: userID,
		Status: enums.CartStatusActive,
	})
	if err != nil {
		s.logg.Error(ctx, "cart.add_item_failed", err)
		s.metrics.Observe("cart.add_item", started, string(pkgerrors.CodeFetchFailed))
		return s.Snapshot(ctx), asFetchFailed(err, "add item to cart")
	}

	state, applied := s.commit(epoch, resp.ToState())
	if !applied {
		s.metrics.Observe("cart.add_item", started, string(pkgerrors.CodeStateConflict))
		return state, pkgerrors.New(pkgerrors.CodeStateConflict, "identity changed while adding the item")
	}
	s.logg.Info(ctx, "cart.item_added")
	s.metrics.Observe("cart.add_item", started, "")
	return state, nil
}

// Clear empties the server cart. A cart the server never created is reset
// locally without a request.
func (s *Store) Clear(ctx context.Context) (State, error) {
	started := time.Now()
	s.mu.Lock()
	epoch := s.epoch
	cartID := s.state.Clone().ID
	s.mu.Unlock()

	if cartID == nil {
		state, _ := s.commit(epoch, Empty())
		s.metrics.Observe("cart.clear", started, "")
		return state, nil
	}
	ctx = s.logg.WithCartID(ctx, *cartID)

	resp, err := s.api.ReplaceItems(ctx, *cartID, []int64{})
	if err != nil {
		s.logg.Error(ctx, "cart.clear_failed", err)
		s.metrics.Observe("cart.clear", started, string(pkgerrors.CodeFetchFailed))
		return s.Snapshot(ctx), asFetchFailed(err, "clear cart")
	}

	state, _ := s.commit(epoch, resp.ToState())
	s.metrics.Observe("cart.clear", started, "")
	return state, nil
}

// ResetItems empties the items locally and keeps the cart id. A closed store
// is left untouched.
func (s *Store) ResetItems(context.Context) State {
	s.mu.Lock()
	if s.closed {
		current := s.state.Clone()
		s.mu.Unlock()
		return current
	}
	s.state = State{ID: s.state.ID, Items: []int64{}}
	next := s.state.Clone()
	s.mu.Unlock()

	s.changes.Publish(next.Clone())
	return next
}

// Close detaches from identity changes and waits for automatic refreshes.
// Results arriving afterwards are dropped.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.epoch++
	s.mu.Unlock()

	s.unsubscribe()
	s.refreshes.Wait()
	return nil
}

func asFetchFailed(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeFetchFailed {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeFetchFailed, err, message)
}
