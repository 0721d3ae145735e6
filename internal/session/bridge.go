// Package session derives the shopper identity from the stored credential
// and tells listeners when it changes.
package session

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/angelmondragon/storefront-client/pkg/auth"
	"github.com/angelmondragon/storefront-client/pkg/broadcast"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/storage"
)

const (
	KeyToken  = "authToken"
	KeyUserID = "userId"
	// KeyLegacyCart is the local cart snapshot; it belongs to the identity
	// and goes away with it.
	KeyLegacyCart = "cartState"
)

// Bridge reads and writes the credential in shared storage.
type Bridge struct {
	store   storage.Store
	logg    *logger.Logger
	changes *broadcast.Subject[struct{}]
	unwatch func()
}

func NewBridge(store storage.Store, logg *logger.Logger) *Bridge {
	b := &Bridge{
		store:   store,
		logg:    logg,
		changes: broadcast.NewSubject[struct{}](),
	}
	// The userId key is derived from the token, so only token writes by
	// other contexts count as identity changes.
	b.unwatch = store.Watch(func(key string) {
		if key == KeyToken {
			b.changes.Publish(struct{}{})
		}
	})
	return b
}

// GetIdentity returns the user id decoded from the stored credential.
// Missing, unreadable or malformed credentials all mean no identity.
func (b *Bridge) GetIdentity(ctx context.Context) (int64, bool) {
	token, ok := b.Token(ctx)
	if !ok {
		return 0, false
	}
	id, ok := auth.UserIDFromToken(token)
	if !ok {
		b.logg.Debug(ctx, "session.credential_undecodable")
	}
	return id, ok
}

// Token returns the raw stored credential.
func (b *Bridge) Token(ctx context.Context) (string, bool) {
	token, err := b.store.Get(ctx, KeyToken)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			b.logg.Error(ctx, "session.read_token_failed", err)
		}
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// StoredUserID reads the derived id key without decoding the token.
func (b *Bridge) StoredUserID(ctx context.Context) (int64, bool) {
	raw, err := b.store.Get(ctx, KeyUserID)
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// SetIdentity stores token and its derived id, then notifies listeners.
func (b *Bridge) SetIdentity(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "credential is empty")
	}
	if err := b.store.Set(ctx, KeyToken, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store credential")
	}
	if id, ok := auth.UserIDFromToken(token); ok {
		if err := b.store.Set(ctx, KeyUserID, strconv.FormatInt(id, 10)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store user id")
		}
		b.logg.Info(b.logg.WithUserID(ctx, id), "session.identity_set")
	} else {
		if err := b.store.Remove(ctx, KeyUserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "drop stale user id")
		}
		b.logg.Warn(ctx, "session.identity_set_without_user_id")
	}
	b.changes.Publish(struct{}{})
	return nil
}

// ClearIdentity removes the credential, the derived id and the local cart,
// then notifies listeners.
func (b *Bridge) ClearIdentity(ctx context.Context) error {
	if err := b.store.Remove(ctx, KeyToken, KeyUserID, KeyLegacyCart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear credential")
	}
	b.logg.Info(ctx, "session.identity_cleared")
	b.changes.Publish(struct{}{})
	return nil
}

// OnIdentityChanged registers fn for local and cross-context identity
// changes. The returned func is safe to call more than once.
func (b *Bridge) OnIdentityChanged(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return b.changes.Subscribe(func(struct{}) { fn() })
}

// Close stops watching storage. Subscribers are left in place.
func (b *Bridge) Close() {
	if b.unwatch != nil {
		b.unwatch()
	}
}
