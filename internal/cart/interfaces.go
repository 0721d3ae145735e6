package cart

import "context"

// API is the cart service surface the stores depend on.
type API interface {
	ActiveByUser(ctx context.Context, userID int64) (Response, error)
	Add(ctx context.Context, req AddRequest) (Response, error)
	ReplaceItems(ctx context.Context, cartID int64, items []int64) (Response, error)
}

// IdentitySource resolves the current shopper and reports changes.
type IdentitySource interface {
	GetIdentity(ctx context.Context) (int64, bool)
	OnIdentityChanged(fn func()) func()
}

// Cart is the contract both persistence modes satisfy.
type Cart interface {
	Snapshot(ctx context.Context) State
	Refresh(ctx context.Context) (State, error)
	AddItem(ctx context.Context, productID int64) (State, error)
	Clear(ctx context.Context) (State, error)
	// ResetItems empties the items locally and keeps the cart id.
	ResetItems(ctx context.Context) State
	Subscribe(fn func(State)) func()
	Close() error
}
