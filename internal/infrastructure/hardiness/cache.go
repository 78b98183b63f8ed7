package hardiness

import (
	"context"
	"log/slog"
	"time"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/observability/metrics"
	"github.com/scottkoskoski/gardening-app/pkg/cache"
)

// DefaultCacheTTL keeps a zone for a day. Zones change once a decade.
const DefaultCacheTTL = 24 * time.Hour

// JSONStore is the subset of the redis client the zone cache needs.
type JSONStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// cachedZone is the serialized form kept in the cache.
type cachedZone struct {
	ZipCode          string   `json:"zipCode"`
	Zone             string   `json:"zone"`
	TemperatureRange string   `json:"temperatureRange"`
	Latitude         *float64 `json:"lat,omitempty"`
	Longitude        *float64 `json:"lon,omitempty"`
}

// CachedLookup is a read-through cache in front of another ZoneLookup.
// Only successful lookups are cached. Cache errors are logged and fall
// through to the upstream.
type CachedLookup struct {
	next   domain.ZoneLookup
	store  JSONStore
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedLookup wraps next. A nil store uses an in-process cache.
func NewCachedLookup(next domain.ZoneLookup, store JSONStore, ttl time.Duration, logger *slog.Logger) *CachedLookup {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &CachedLookup{next: next, store: store, ttl: ttl, logger: logger}
}

func cacheKey(zip string) string { return "hardiness:zone:" + zip }

// LookupZone implements domain.ZoneLookup.
func (c *CachedLookup) LookupZone(ctx context.Context, zip string) (*domain.HardinessZone, error) {
	key := cacheKey(zip)

	var hit cachedZone
	found, err := c.store.GetJSON(ctx, key, &hit)
	switch {
	case err != nil:
		metrics.ObserveZoneCache("error")
		c.logger.Warn("zone cache read failed", slog.String("zip", zip), slog.String("error", err.Error()))
	case found:
		metrics.ObserveZoneCache("hit")
		return &domain.HardinessZone{
			ZipCode:          hit.ZipCode,
			Zone:             hit.Zone,
			TemperatureRange: hit.TemperatureRange,
			Latitude:         hit.Latitude,
			Longitude:        hit.Longitude,
		}, nil
	default:
		metrics.ObserveZoneCache("miss")
	}

	hz, err := c.next.LookupZone(ctx, zip)
	if err != nil {
		return nil, err
	}
	entry := cachedZone{
		ZipCode:          hz.ZipCode,
		Zone:             hz.Zone,
		TemperatureRange: hz.TemperatureRange,
		Latitude:         hz.Latitude,
		Longitude:        hz.Longitude,
	}
	if err := c.store.SetJSON(ctx, key, entry, c.ttl); err != nil {
		c.logger.Warn("zone cache write failed", slog.String("zip", zip), slog.String("error", err.Error()))
	}
	return hz, nil
}

// MemoryStore adapts pkg/cache to JSONStore. Values are kept as
// cachedZone structs, so only the zone cache can use it.
type MemoryStore struct {
	c *cache.Cache[cachedZone]
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: cache.New[cachedZone]()}
}

func (m *MemoryStore) GetJSON(_ context.Context, key string, out any) (bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return false, nil
	}
	if dst, ok := out.(*cachedZone); ok {
		*dst = v
		return true, nil
	}
	return false, nil
}

func (m *MemoryStore) SetJSON(_ context.Context, key string, v any, ttl time.Duration) error {
	if z, ok := v.(cachedZone); ok {
		m.c.Set(key, z, ttl)
	}
	return nil
}

// Prune drops expired zones and returns how many were removed.
func (m *MemoryStore) Prune(context.Context) (int, error) {
	return m.c.Prune(), nil
}
