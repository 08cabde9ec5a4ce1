package storage

import (
	"context"
	"fmt"

	"gitlab.com/aoterocom/AOForexSignals/config"
	"gitlab.com/aoterocom/AOForexSignals/database"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
)

// KeyValueStoreFactory builds the configured backend. The database service is returned
// as well when the mysql backend is selected so it can be reused for signal archiving.
func KeyValueStoreFactory(ctx context.Context, cfg *config.Config) (interfaces.KeyValueStore, *database.DBService, error) {

	switch cfg.StoreBackend {
	case "", "memory":
		return NewMemoryStore(cfg.StorePrefix), nil, nil
	case "redis":
		redisStore := NewRedisStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.StorePrefix)
		if err := redisStore.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
		return redisStore, nil, nil
	case "mysql":
		dbService, err := database.NewDBService(cfg.DSN(), cfg.StorePrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to mysql: %w", err)
		}
		return dbService, dbService, nil
	default:
		return nil, nil, fmt.Errorf("%s is not a known store backend", cfg.StoreBackend)
	}

}
