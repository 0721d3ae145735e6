package cart

import (
	"fmt"

	"github.com/angelmondragon/storefront-client/pkg/config"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/metrics"
	"github.com/angelmondragon/storefront-client/pkg/storage"
)

// New returns the cart configured as system of record. Only one mode is live
// per process.
func New(cfg config.CartConfig, store storage.Store, api API, identity IdentitySource, logg *logger.Logger, m *metrics.OperationMetrics) (Cart, error) {
	switch cfg.Mode {
	case config.CartModeServer, "":
		return NewStore(api, identity, logg, m), nil
	case config.CartModeLocal:
		return NewLocalStore(store, api, identity, cfg.FallbackUserID, logg, m), nil
	}
	return nil, fmt.Errorf("unknown cart mode %q", cfg.Mode)
}
