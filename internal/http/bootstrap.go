package httpapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-health-assistant/internal/config"
	"github.com/tbourn/go-health-assistant/internal/generator"
	"github.com/tbourn/go-health-assistant/internal/repo"
	"github.com/tbourn/go-health-assistant/internal/services"
	"github.com/tbourn/go-health-assistant/internal/symptoms"
)

// migrate is swapped in tests.
var migrate = repo.AutoMigrate

// OpenDeps opens the database, migrates it and builds the generator, the
// generation lock and the optional symptom reference from cfg. The returned
// close function releases the database and Redis connections.
func OpenDeps(ctx context.Context, cfg config.Config) (Deps, func(), error) {
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return Deps{}, nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	closers := []func(){func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	if err := migrate(db); err != nil {
		closeAll()
		return Deps{}, nil, fmt.Errorf("migrate: %w", err)
	}

	d := Deps{
		DB:  db,
		Gen: generator.New(generator.NewOpenAI(cfg.LLM), cfg.LLM),
	}

	if cfg.Lock.Backend == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Lock.RedisAddr,
			Password: cfg.Lock.RedisPassword,
			DB:       cfg.Lock.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			closeAll()
			return Deps{}, nil, fmt.Errorf("redis %s: %w", cfg.Lock.RedisAddr, err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		d.Locks = services.NewRedisLocker(rdb, cfg.Lock.TTL, cfg.Lock.Wait)
	}

	if p := strings.TrimSpace(cfg.SymptomDBPath); p != "" {
		idx, err := symptoms.LoadFile(p)
		if err != nil {
			// follow-ups still work without a reference
			log.Warn().Err(err).Str("path", p).Msg("symptom reference not loaded")
		} else {
			log.Info().Str("path", p).Int("entries", idx.Len()).Msg("symptom reference loaded")
			d.Symptoms = idx
		}
	}

	return d, closeAll, nil
}
