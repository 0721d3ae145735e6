package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-client/pkg/config"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	redisclient "github.com/angelmondragon/storefront-client/pkg/redis"
	"go.uber.org/multierr"
)

// Open builds the Store selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case config.StorageDriverMemory:
		return NewMemory(), nil
	case config.StorageDriverSQL:
		return OpenSQLite(cfg.Storage.SQLPath)
	case config.StorageDriverRedis:
		client, err := redisclient.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, err
		}
		store, err := NewRedis(ctx, client, true, logg)
		if err != nil {
			return nil, multierr.Append(err, client.Close())
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
