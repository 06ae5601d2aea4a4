// internal/service/factory.go
package service

import (
	"context"
	"fmt"
	"time"

	"loantracker/internal/common/config"
	"loantracker/internal/common/database"
	"loantracker/internal/common/logger"
	"loantracker/internal/files"
	"loantracker/internal/store"
)

// New builds the ApplicationService the configuration asks for. The
// returned cleanup closes whatever connections were opened; it is safe
// to call on a nil-error return only.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (ApplicationService, func(), error) {
	var (
		svc     ApplicationService
		cleanup = func() {}
	)

	switch cfg.Service.Mode {
	case "memory":
		svc = NewMemory(log)

	case "http":
		timeout := time.Duration(cfg.Service.Timeout) * time.Millisecond
		svc = NewClient(cfg.Service.BaseURL, timeout, log)

	case "postgres":
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Ping(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		docs, err := newDocumentStorage(ctx, cfg.Storage)
		if err != nil {
			pg.Close()
			return nil, nil, err
		}
		svc = store.NewPostgres(pg.GetDB(), docs, log)
		cleanup = func() { pg.Close() }

	default:
		return nil, nil, fmt.Errorf("unknown service mode: %q", cfg.Service.Mode)
	}

	if cfg.Cache.Enabled {
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			cleanup()
			return nil, nil, err
		}
		inner := cleanup
		cleanup = func() {
			rc.Close()
			inner()
		}
		ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
		svc = NewCached(svc, rc.GetClient(), ttl, log)
	}

	return svc, cleanup, nil
}

func newDocumentStorage(ctx context.Context, cfg config.StorageConfig) (files.Storage, error) {
	switch cfg.Backend {
	case "s3":
		return files.NewS3(ctx, cfg.S3.Bucket, cfg.S3.Region)
	default:
		return files.NewLocal(cfg.LocalDir)
	}
}
