// internal/service/cached.go
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"loantracker/internal/common/logger"
	"loantracker/internal/models"
	"loantracker/internal/report"
	"loantracker/internal/report/export"
)

const cacheVersionKey = "loantracker:applications:version"

// Cached decorates an ApplicationService with read-through Redis caching
// for the listing and report projections. Writes bump a version counter
// so every cached page goes stale at once; nothing is invalidated
// key-by-key.
type Cached struct {
	next ApplicationService
	rdb  *redis.Client
	ttl  time.Duration
	log  logger.Logger
}

func NewCached(next ApplicationService, rdb *redis.Client, ttl time.Duration, log logger.Logger) *Cached {
	return &Cached{next: next, rdb: rdb, ttl: ttl, log: log}
}

func (c *Cached) List(ctx context.Context, status models.Status) ([]models.Application, error) {
	key := c.versionedKey(ctx, fmt.Sprintf("list:%s", status))
	var out []models.Application
	if c.readCache(ctx, key, &out) {
		return out, nil
	}
	out, err := c.next.List(ctx, status)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, key, out)
	return out, nil
}

func (c *Cached) Get(ctx context.Context, id string) (*models.Application, error) {
	return c.next.Get(ctx, id)
}

func (c *Cached) SearchByName(ctx context.Context, firstName, lastName string) (*models.Application, error) {
	return c.next.SearchByName(ctx, firstName, lastName)
}

func (c *Cached) Create(ctx context.Context, app *models.Application) (string, error) {
	id, err := c.next.Create(ctx, app)
	if err != nil {
		return "", err
	}
	c.bumpVersion(ctx)
	return id, nil
}

func (c *Cached) Update(ctx context.Context, id string, upd models.ApplicationUpdate) error {
	if err := c.next.Update(ctx, id, upd); err != nil {
		return err
	}
	c.bumpVersion(ctx)
	return nil
}

func (c *Cached) Report(ctx context.Context, f report.Filter, s report.Sort, page, pageSize int) (*report.Page, error) {
	key := c.versionedKey(ctx, fmt.Sprintf("report:%s:%s:%d:%d:%s:%t:%d:%d",
		f.Search, f.Status, f.From.Unix(), f.To.Unix(), s.Column, s.Desc, page, pageSize))
	var out report.Page
	if c.readCache(ctx, key, &out) {
		return &out, nil
	}
	pg, err := c.next.Report(ctx, f, s, page, pageSize)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, key, pg)
	return pg, nil
}

func (c *Cached) Summary(ctx context.Context, f report.Filter) (*report.Overview, error) {
	key := c.versionedKey(ctx, fmt.Sprintf("summary:%s:%s:%d:%d",
		f.Search, f.Status, f.From.Unix(), f.To.Unix()))
	var out report.Overview
	if c.readCache(ctx, key, &out) {
		return &out, nil
	}
	ov, err := c.next.Summary(ctx, f)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, key, ov)
	return ov, nil
}

func (c *Cached) DownloadReport(ctx context.Context, format export.Format, f report.Filter, s report.Sort) ([]byte, error) {
	return c.next.DownloadReport(ctx, format, f, s)
}

func (c *Cached) UploadFile(ctx context.Context, id string, fileType models.FileType, filename string, r io.Reader) error {
	return c.next.UploadFile(ctx, id, fileType, filename, r)
}

func (c *Cached) ListFiles(ctx context.Context, id string) ([]string, error) {
	return c.next.ListFiles(ctx, id)
}

func (c *Cached) DownloadFile(ctx context.Context, id string, fileType models.FileType) ([]byte, error) {
	return c.next.DownloadFile(ctx, id, fileType)
}

// versionedKey prefixes the key with the current write-version so stale
// pages are never served after a mutation. A cache miss on the version
// counter reads as version 0.
func (c *Cached) versionedKey(ctx context.Context, suffix string) string {
	ver, err := c.rdb.Get(ctx, cacheVersionKey).Int64()
	if err != nil && err != redis.Nil {
		c.log.WithError(err).Warn("cache version read failed", nil)
	}
	return fmt.Sprintf("loantracker:applications:v%d:%s", ver, suffix)
}

func (c *Cached) bumpVersion(ctx context.Context) {
	if err := c.rdb.Incr(ctx, cacheVersionKey).Err(); err != nil {
		c.log.WithError(err).Warn("cache invalidation failed", nil)
	}
}

func (c *Cached) readCache(ctx context.Context, key string, out interface{}) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).Warn("cache read failed", map[string]interface{}{"key": key})
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false
	}
	return true
}

func (c *Cached) writeCache(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("cache write failed", map[string]interface{}{"key": key})
	}
}
