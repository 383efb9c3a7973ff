package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/league-scoreboard/internal/config"
	"github.com/riskibarqy/league-scoreboard/internal/domain/match"
	"github.com/riskibarqy/league-scoreboard/internal/infrastructure/repository/file"
	"github.com/riskibarqy/league-scoreboard/internal/infrastructure/repository/kv"
	"github.com/riskibarqy/league-scoreboard/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-scoreboard/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/league-scoreboard/internal/infrastructure/repository/redis"
)

func (a *App) buildMatchRepository(ctx context.Context) (match.Repository, error) {
	primary, err := a.openStore(ctx, a.cfg.StorageBackend)
	if err != nil {
		return nil, err
	}

	store := primary
	if len(a.cfg.StorageMirrors) > 0 {
		mirrors := make([]kv.Store, 0, len(a.cfg.StorageMirrors))
		for _, backend := range a.cfg.StorageMirrors {
			mirror, err := a.openStore(ctx, backend)
			if err != nil {
				return nil, err
			}
			mirrors = append(mirrors, mirror)
		}

		mirrored, err := kv.NewMirroredStore(primary, mirrors, a.cfg.StorageWorkers, a.logger)
		if err != nil {
			return nil, fmt.Errorf("build mirrored store: %w", err)
		}
		a.onClose(func() error {
			mirrored.Close()
			return nil
		})
		store = mirrored
	}

	return kv.NewMatchRepository(store, a.cfg.StorageKey), nil
}

func (a *App) openStore(ctx context.Context, backend string) (kv.Store, error) {
	switch backend {
	case config.BackendMemory:
		return memory.NewStore(), nil
	case config.BackendFile:
		store, err := file.NewStore(a.cfg.StorageDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return store, nil
	case config.BackendRedis:
		dialCtx, cancel := context.WithTimeout(ctx, a.cfg.StorageTimeout)
		defer cancel()

		store, err := redis.NewStore(dialCtx, a.cfg.RedisURL, a.cfg.RedisKeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		a.onClose(store.Close)
		return a.remote(store), nil
	case config.BackendPostgres:
		dialCtx, cancel := context.WithTimeout(ctx, a.cfg.StorageTimeout)
		defer cancel()

		db, err := postgres.Open(dialCtx, a.cfg.DBURL, a.cfg.DBDisablePreparedBinary)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		a.onClose(db.Close)
		return a.remote(postgres.NewKVStore(db)), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend)
	}
}

// remote bounds each call by the storage timeout, then guards it with a
// circuit breaker so a dead backend fails fast.
func (a *App) remote(store kv.Store) kv.Store {
	return kv.Guard(kv.WithTimeout(store, a.cfg.StorageTimeout), a.cfg.StorageCircuit, a.logger)
}
