package geocode

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stayhub/internal/infra/db"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/pkg/pgconv"
	"stayhub/internal/usecase/commands"

	"github.com/jackc/pgx/v5/pgtype"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Resolver is the upstream geocoding service.
type Resolver interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

// Cache fronts the resolver with two tiers: a process-local map and the
// geocode_cache table shared across instances. Database trouble degrades to
// resolver calls instead of failing lookups.
type Cache struct {
	db       db.DBTX
	resolver Resolver
	ttl      time.Duration
	clock    clock.Clock

	mu  sync.RWMutex
	mem map[string]memEntry
}

type memEntry struct {
	coords     Coordinates
	resolvedAt time.Time
}

func NewCache(pool db.DBTX, resolver Resolver, cfg config.GeocodeConfig, clk clock.Clock) *Cache {
	return &Cache{
		db:       pool,
		resolver: resolver,
		ttl:      cfg.TTL,
		clock:    clk,
		mem:      make(map[string]memEntry),
	}
}

func (c *Cache) Resolve(ctx context.Context, address string) (Coordinates, error) {
	now := c.clock.Now()

	c.mu.RLock()
	entry, ok := c.mem[address]
	c.mu.RUnlock()
	if ok && now.Sub(entry.resolvedAt) < c.ttl {
		return entry.coords, nil
	}

	if coords, resolvedAt, ok := c.lookupStored(ctx, address); ok && now.Sub(resolvedAt) < c.ttl {
		c.remember(address, coords, resolvedAt)
		return coords, nil
	}

	coords, err := c.resolver.Geocode(ctx, address)
	if err != nil {
		return Coordinates{}, errs.Wrap(err, "failed to geocode address")
	}
	c.remember(address, coords, now)
	c.store(ctx, address, coords, now)
	return coords, nil
}

// Invalidate drops the address from both tiers. Used when a property update
// reports a changed address; the next lookup re-resolves.
func (c *Cache) Invalidate(ctx context.Context, address string) {
	c.mu.Lock()
	delete(c.mem, address)
	c.mu.Unlock()

	if _, err := c.db.Exec(ctx, `DELETE FROM geocode_cache WHERE address = $1`, address); err != nil {
		slog.Warn("failed to invalidate stored geocode entry", "address", address, "error", err)
	}
}

func (c *Cache) remember(address string, coords Coordinates, resolvedAt time.Time) {
	c.mu.Lock()
	c.mem[address] = memEntry{coords: coords, resolvedAt: resolvedAt}
	c.mu.Unlock()
}

func (c *Cache) lookupStored(ctx context.Context, address string) (Coordinates, time.Time, bool) {
	const query = `SELECT latitude, longitude, resolved_at FROM geocode_cache WHERE address = $1`

	var (
		coords     Coordinates
		resolvedAt pgtype.Timestamptz
	)
	err := c.db.QueryRow(ctx, query, address).Scan(&coords.Latitude, &coords.Longitude, &resolvedAt)
	if err != nil {
		if !pgconv.IsNoRows(err) {
			slog.Warn("geocode cache read failed, falling through to resolver", "error", err)
		}
		return Coordinates{}, time.Time{}, false
	}
	return coords, pgconv.TimeFromPgtype(resolvedAt), true
}

func (c *Cache) store(ctx context.Context, address string, coords Coordinates, resolvedAt time.Time) {
	const query = `
		INSERT INTO geocode_cache (address, latitude, longitude, resolved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (address) DO UPDATE
		SET latitude = EXCLUDED.latitude,
		    longitude = EXCLUDED.longitude,
		    resolved_at = EXCLUDED.resolved_at`

	if _, err := c.db.Exec(ctx, query, address, coords.Latitude, coords.Longitude, pgconv.TimeToPgtype(resolvedAt)); err != nil {
		slog.Warn("geocode cache write failed", "address", address, "error", err)
	}
}

var _ commands.AddressInvalidator = (*Cache)(nil)
