// Package health probes the service's backing stores. The database is
// required; the cache is optional, so a missing Redis client reports as
// skipped rather than failing the check.
package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const probeTimeout = 2 * time.Second

const (
	StatusUp      = "up"
	StatusDown    = "down"
	StatusSkipped = "skipped"
)

type Component struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type Report struct {
	Healthy    bool                 `json:"healthy"`
	Components map[string]Component `json:"components"`
}

type Checker struct {
	pool  *pgxpool.Pool
	cache *redis.Client
}

func NewChecker(pool *pgxpool.Pool, cache *redis.Client) *Checker {
	return &Checker{pool: pool, cache: cache}
}

// Check pings every component. The report is healthy when the database
// answers; a down cache degrades reads but does not fail the service.
func (c *Checker) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	db := probe(func() error { return c.pool.Ping(ctx) })

	cacheStatus := Component{Status: StatusSkipped}
	if c.cache != nil {
		cacheStatus = probe(func() error { return c.cache.Ping(ctx).Err() })
	}

	return Report{
		Healthy: db.Status == StatusUp,
		Components: map[string]Component{
			"database": db,
			"cache":    cacheStatus,
		},
	}
}

func probe(ping func() error) Component {
	start := time.Now()
	err := ping()
	comp := Component{Status: StatusUp, LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		comp.Status = StatusDown
		comp.Error = err.Error()
	}
	return comp
}
