package featureflags

import (
	"os"
	"strings"
	"sync"
)

// Known flags.
const (
	// StrictZoneEnrichment makes a failed hardiness lookup fail the profile update.
	StrictZoneEnrichment = "strict_zone_enrichment"
	// CatalogDryRun makes the plant import roll back instead of committing.
	CatalogDryRun = "catalog_dry_run"
)

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes (case-insensitive)
func Enabled(name string) bool {
	return parse(os.Getenv("FLAG_" + strings.ToUpper(name)))
}

func parse(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Set layers explicit overrides, usually from configuration, over the
// environment. The zero value and a nil *Set read the environment only.
type Set struct {
	mu        sync.RWMutex
	overrides map[string]bool
}

func New(overrides map[string]bool) *Set {
	s := &Set{overrides: map[string]bool{}}
	for k, v := range overrides {
		s.overrides[k] = v
	}
	return s
}

func (s *Set) Enabled(name string) bool {
	if s != nil {
		s.mu.RLock()
		v, ok := s.overrides[name]
		s.mu.RUnlock()
		if ok {
			return v
		}
	}
	return Enabled(name)
}

// Override sets a flag for the life of the process.
func (s *Set) Override(name string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overrides == nil {
		s.overrides = map[string]bool{}
	}
	s.overrides[name] = on
}
