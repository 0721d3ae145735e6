package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/angelmondragon/storefront-client/pkg/broadcast"
	"github.com/angelmondragon/storefront-client/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/metrics"
	"github.com/angelmondragon/storefront-client/pkg/storage"
)

// StorageKey holds the JSON cart snapshot in local mode.
const StorageKey = "cartState"

// LocalStore is the legacy mode: the cart lives in shared storage and the
// cart service only receives writes. Unlike Store it never asks for an
// identity; a shopper without one writes as FallbackUserID.
type LocalStore struct {
	store          storage.Store
	api            API
	identity       IdentitySource
	fallbackUserID int64
	logg           *logger.Logger
	metrics        *metrics.OperationMetrics

	changes *broadcast.Subject[State]
	unwatch func()
}

func NewLocalStore(store storage.Store, api API, identity IdentitySource, fallbackUserID int64, logg *logger.Logger, m *metrics.OperationMetrics) *LocalStore {
	l := &LocalStore{
		store:          store,
		api:            api,
		identity:       identity,
		fallbackUserID: fallbackUserID,
		logg:           logg,
		metrics:        m,
		changes:        broadcast.NewSubject[State](),
	}
	l.unwatch = store.Watch(func(key string) {
		if key == StorageKey {
			l.changes.Publish(l.Snapshot(context.Background()))
		}
	})
	return l
}

// Snapshot reads the stored cart. Missing or unreadable data is an empty cart.
func (l *LocalStore) Snapshot(ctx context.Context) State {
	raw, err := l.store.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			l.logg.Error(ctx, "cart.local_read_failed", err)
		}
		return Empty()
	}
	return decodeLocal(raw)
}

// Refresh re-reads storage. Local mode has no remote read.
func (l *LocalStore) Refresh(ctx context.Context) (State, error) {
	return l.Snapshot(ctx), nil
}

func (l *LocalStore) Subscribe(fn func(State)) func() {
	return l.changes.Subscribe(fn)
}

func (l *LocalStore) resolveUserID(ctx context.Context) int64 {
	if l.identity != nil {
		if id, ok := l.identity.GetIdentity(ctx); ok {
			return id
		}
	}
	return l.fallbackUserID
}

// AddItem writes one unit through to the cart service and stores its answer.
func (l *LocalStore) AddItem(ctx context.Context, productID int64) (State, error) {
	started := time.Now()
	if productID <= 0 {
		return l.Snapshot(ctx), pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	current := l.Snapshot(ctx)
	userID := l.resolveUserID(ctx)
	ctx = l.logg.WithFields(l.logg.WithUserID(ctx, userID), map[string]any{"product_id": productID})

	resp, err := l.api.Add(ctx, AddRequest{
		ID:     current.ID,
		Items:  []int64{productID},
		UserID: userID,
		Status: enums.CartStatusActive,
	})
	if err != nil {
		l.logg.Error(ctx, "cart.local_add_item_failed", err)
		l.metrics.Observe("cart.add_item", started, string(pkgerrors.CodeFetchFailed))
		return current, asFetchFailed(err, "add item to cart")
	}

	next := resp.ToState()
	if next.ID == nil {
		next.ID = current.ID
	}
	if err := l.write(ctx, next); err != nil {
		l.metrics.Observe("cart.add_item", started, string(pkgerrors.CodeDependency))
		return current, err
	}
	l.metrics.Observe("cart.add_item", started, "")
	return next, nil
}

// Clear removes the stored cart. The server cart is left alone.
func (l *LocalStore) Clear(ctx context.Context) (State, error) {
	if err := l.store.Remove(ctx, StorageKey); err != nil {
		return l.Snapshot(ctx), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear local cart")
	}
	l.changes.Publish(Empty())
	return Empty(), nil
}

// ResetItems keeps the stored cart id and drops its items.
func (l *LocalStore) ResetItems(ctx context.Context) State {
	next := State{ID: l.Snapshot(ctx).ID, Items: []int64{}}
	if err := l.write(ctx, next); err != nil {
		return l.Snapshot(ctx)
	}
	return next
}

func (l *LocalStore) write(ctx context.Context, next State) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode local cart")
	}
	if err := l.store.Set(ctx, StorageKey, string(raw)); err != nil {
		l.logg.Error(ctx, "cart.local_write_failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store local cart")
	}
	l.changes.Publish(next.Clone())
	return nil
}

func (l *LocalStore) Close() error {
	if l.unwatch != nil {
		l.unwatch()
	}
	return nil
}

// decodeLocal accepts whatever earlier clients wrote: a non-integral id is
// dropped and non-numeric items are skipped.
func decodeLocal(raw string) State {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var doc struct {
		ID    any   `json:"id"`
		Items []any `json:"items"`
	}
	if err := dec.Decode(&doc); err != nil {
		return Empty()
	}

	out := Empty()
	if id, ok := integral(doc.ID); ok {
		out.ID = &id
	}
	for _, item := range doc.Items {
		if id, ok := integral(item); ok {
			out.Items = append(out.Items, id)
		}
	}
	return out
}

func integral(v any) (int64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(n.String(), 10, 64)
	return id, err == nil
}
