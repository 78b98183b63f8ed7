// Package memory is an in-memory domain.Store. Transactions work on a copy of
// the tables and swap it in on success, so a failed InTx leaves no trace.
package memory

import (
	"context"
	"sync"

	"github.com/scottkoskoski/gardening-app/internal/domain"
)

type tables struct {
	users        map[int64]domain.User
	profiles     map[int64]domain.UserProfile // keyed by user ID
	gardenTypes  map[int64]domain.GardenType
	gardens      map[int64]domain.UserGarden
	gardenPlants map[int64]domain.UserGardenPlant
	plants       map[int64]domain.Plant
	nextID       int64
}

func newTables() *tables {
	return &tables{
		users:        map[int64]domain.User{},
		profiles:     map[int64]domain.UserProfile{},
		gardenTypes:  map[int64]domain.GardenType{},
		gardens:      map[int64]domain.UserGarden{},
		gardenPlants: map[int64]domain.UserGardenPlant{},
		plants:       map[int64]domain.Plant{},
	}
}

func (t *tables) id() int64 {
	t.nextID++
	return t.nextID
}

func (t *tables) clone() *tables {
	c := &tables{
		users:        make(map[int64]domain.User, len(t.users)),
		profiles:     make(map[int64]domain.UserProfile, len(t.profiles)),
		gardenTypes:  make(map[int64]domain.GardenType, len(t.gardenTypes)),
		gardens:      make(map[int64]domain.UserGarden, len(t.gardens)),
		gardenPlants: make(map[int64]domain.UserGardenPlant, len(t.gardenPlants)),
		plants:       make(map[int64]domain.Plant, len(t.plants)),
		nextID:       t.nextID,
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.profiles {
		c.profiles[k] = v
	}
	for k, v := range t.gardenTypes {
		c.gardenTypes[k] = v
	}
	for k, v := range t.gardens {
		c.gardens[k] = v
	}
	for k, v := range t.gardenPlants {
		c.gardenPlants[k] = v
	}
	for k, v := range t.plants {
		c.plants[k] = v
	}
	return c
}

// Store implements domain.Store in memory.
type Store struct {
	mu   *sync.Mutex
	data **tables
	inTx bool
	// failCommit makes the next InTx fail at commit time (tests only).
	failCommit error
}

// NewStore creates an empty store.
func NewStore() *Store {
	data := newTables()
	return &Store{mu: &sync.Mutex{}, data: &data}
}

// FailNextCommit makes the next top-level InTx discard its writes and return err.
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCommit = err
}

// run executes fn against the live tables, locking unless already inside InTx.
func (s *Store) run(fn func(t *tables) error) error {
	if s.inTx {
		return fn(*s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(*s.data)
}

func (s *Store) Users() domain.UserRepository               { return &userRepo{s} }
func (s *Store) Profiles() domain.ProfileRepository         { return &profileRepo{s} }
func (s *Store) GardenTypes() domain.GardenTypeRepository   { return &gardenTypeRepo{s} }
func (s *Store) Gardens() domain.GardenRepository           { return &gardenRepo{s} }
func (s *Store) GardenPlants() domain.GardenPlantRepository { return &gardenPlantRepo{s} }
func (s *Store) Plants() domain.PlantRepository             { return &plantRepo{s} }

// InTx serializes transactions and commits by swapping in the working copy.
func (s *Store) InTx(ctx context.Context, fn func(tx domain.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := (*s.data).clone()
	tx := &Store{mu: s.mu, data: &working, inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	if s.failCommit != nil {
		err := s.failCommit
		s.failCommit = nil
		return err
	}
	*s.data = working
	return nil
}
