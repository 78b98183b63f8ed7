package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/scottkoskoski/gardening-app/internal/domain"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *domain.User) error {
	return r.s.run(func(t *tables) error {
		for _, existing := range t.users {
			if existing.Username == u.Username {
				return domain.Conflict("username", "username already exists")
			}
			if strings.EqualFold(existing.Email, u.Email) {
				return domain.Conflict("email", "email already exists")
			}
		}
		u.ID = t.id()
		if u.CreatedAt.IsZero() {
			u.CreatedAt = time.Now().UTC()
		}
		t.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) find(match func(domain.User) bool) (*domain.User, error) {
	var out *domain.User
	err := r.s.run(func(t *tables) error {
		for _, u := range t.users {
			if match(u) {
				cp := u
				out = &cp
				return nil
			}
		}
		return domain.NotFound("user not found")
	})
	return out, err
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	return r.s.run(func(t *tables) error {
		u, ok := t.users[id]
		if !ok {
			return domain.NotFound("user not found")
		}
		u.LastLoginAt = &at
		t.users[id] = u
		return nil
	})
}

func (r *userRepo) ListInactive(_ context.Context, cutoff time.Time) ([]*domain.User, error) {
	out := []*domain.User{}
	err := r.s.run(func(t *tables) error {
		for _, u := range t.users {
			if u.LastLoginAt == nil || u.LastLoginAt.Before(cutoff) {
				cp := u
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

type profileRepo struct{ s *Store }

func (r *profileRepo) GetByUserID(_ context.Context, userID int64) (*domain.UserProfile, error) {
	var out *domain.UserProfile
	err := r.s.run(func(t *tables) error {
		p, ok := t.profiles[userID]
		if !ok {
			return domain.NotFound("profile not found")
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *profileRepo) Create(_ context.Context, p *domain.UserProfile) error {
	return r.s.run(func(t *tables) error {
		if _, ok := t.users[p.UserID]; !ok {
			return domain.NotFound("user not found")
		}
		if _, ok := t.profiles[p.UserID]; ok {
			return domain.Conflict("userId", "userId already exists")
		}
		p.ID = t.id()
		now := time.Now().UTC()
		p.CreatedAt, p.UpdatedAt = now, now
		t.profiles[p.UserID] = *p
		return nil
	})
}

func (r *profileRepo) Update(_ context.Context, p *domain.UserProfile) error {
	return r.s.run(func(t *tables) error {
		if _, ok := t.profiles[p.UserID]; !ok {
			return domain.NotFound("profile not found")
		}
		p.UpdatedAt = time.Now().UTC()
		t.profiles[p.UserID] = *p
		return nil
	})
}

type gardenTypeRepo struct{ s *Store }

func (r *gardenTypeRepo) List(_ context.Context) ([]*domain.GardenType, error) {
	out := []*domain.GardenType{}
	err := r.s.run(func(t *tables) error {
		for _, gt := range t.gardenTypes {
			cp := gt
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *gardenTypeRepo) GetByID(_ context.Context, id int64) (*domain.GardenType, error) {
	var out *domain.GardenType
	err := r.s.run(func(t *tables) error {
		gt, ok := t.gardenTypes[id]
		if !ok {
			return domain.NotFound("garden type not found")
		}
		out = &gt
		return nil
	})
	return out, err
}

func (r *gardenTypeRepo) GetByName(_ context.Context, name domain.GardenTypeName) (*domain.GardenType, error) {
	var out *domain.GardenType
	err := r.s.run(func(t *tables) error {
		for _, gt := range t.gardenTypes {
			if gt.Name == name {
				cp := gt
				out = &cp
				return nil
			}
		}
		return domain.NotFound("garden type not found")
	})
	return out, err
}

func (r *gardenTypeRepo) Create(_ context.Context, gt *domain.GardenType) error {
	return r.s.run(func(t *tables) error {
		for _, existing := range t.gardenTypes {
			if existing.Name == gt.Name {
				return domain.Conflict("name", "name already exists")
			}
		}
		gt.ID = t.id()
		t.gardenTypes[gt.ID] = *gt
		return nil
	})
}

type gardenRepo struct{ s *Store }

func copyGarden(g domain.UserGarden) domain.UserGarden {
	g.PreferredPlants = append([]string{}, g.PreferredPlants...)
	g.CurrentPlants = append([]string{}, g.CurrentPlants...)
	return g
}

func (r *gardenRepo) resolve(t *tables, g domain.UserGarden) *domain.UserGarden {
	cp := copyGarden(g)
	cp.GardenType = t.gardenTypes[g.GardenTypeID].Name
	return &cp
}

func (r *gardenRepo) Create(_ context.Context, g *domain.UserGarden) error {
	return r.s.run(func(t *tables) error {
		if _, ok := t.users[g.UserID]; !ok {
			return domain.NotFound("user not found")
		}
		gt, ok := t.gardenTypes[g.GardenTypeID]
		if !ok {
			return domain.NotFound("garden type not found")
		}
		g.ID = t.id()
		now := time.Now().UTC()
		g.CreatedAt, g.UpdatedAt = now, now
		g.GardenType = gt.Name
		t.gardens[g.ID] = copyGarden(*g)
		return nil
	})
}

func (r *gardenRepo) GetByID(_ context.Context, id int64) (*domain.UserGarden, error) {
	var out *domain.UserGarden
	err := r.s.run(func(t *tables) error {
		g, ok := t.gardens[id]
		if !ok {
			return domain.NotFound("garden not found")
		}
		out = r.resolve(t, g)
		return nil
	})
	return out, err
}

func (r *gardenRepo) ListByOwner(_ context.Context, userID int64) ([]*domain.UserGarden, error) {
	out := []*domain.UserGarden{}
	err := r.s.run(func(t *tables) error {
		for _, g := range t.gardens {
			if g.UserID == userID {
				out = append(out, r.resolve(t, g))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *gardenRepo) Update(_ context.Context, g *domain.UserGarden) error {
	return r.s.run(func(t *tables) error {
		existing, ok := t.gardens[g.ID]
		if !ok {
			return domain.NotFound("garden not found")
		}
		gt, ok := t.gardenTypes[g.GardenTypeID]
		if !ok {
			return domain.NotFound("garden type not found")
		}
		g.UserID = existing.UserID
		g.CreatedAt = existing.CreatedAt
		g.UpdatedAt = time.Now().UTC()
		g.GardenType = gt.Name
		t.gardens[g.ID] = copyGarden(*g)
		return nil
	})
}

func (r *gardenRepo) Delete(_ context.Context, id int64) error {
	return r.s.run(func(t *tables) error {
		if _, ok := t.gardens[id]; !ok {
			return domain.NotFound("garden not found")
		}
		// mirrors ON DELETE CASCADE
		for gpID, gp := range t.gardenPlants {
			if gp.GardenID == id {
				delete(t.gardenPlants, gpID)
			}
		}
		delete(t.gardens, id)
		return nil
	})
}

type gardenPlantRepo struct{ s *Store }

func (r *gardenPlantRepo) resolve(t *tables, gp domain.UserGardenPlant) *domain.UserGardenPlant {
	gp.PlantName = t.plants[gp.PlantID].Name
	return &gp
}

func (r *gardenPlantRepo) Create(_ context.Context, gp *domain.UserGardenPlant) error {
	return r.s.run(func(t *tables) error {
		if _, ok := t.gardens[gp.GardenID]; !ok {
			return domain.NotFound("garden not found")
		}
		p, ok := t.plants[gp.PlantID]
		if !ok {
			return domain.NotFound("plant not found")
		}
		gp.ID = t.id()
		gp.PlantName = p.Name
		t.gardenPlants[gp.ID] = *gp
		return nil
	})
}

func (r *gardenPlantRepo) GetByID(_ context.Context, id int64) (*domain.UserGardenPlant, error) {
	var out *domain.UserGardenPlant
	err := r.s.run(func(t *tables) error {
		gp, ok := t.gardenPlants[id]
		if !ok {
			return domain.NotFound("garden plant not found")
		}
		out = r.resolve(t, gp)
		return nil
	})
	return out, err
}

func (r *gardenPlantRepo) ListByGarden(_ context.Context, gardenID int64) ([]*domain.UserGardenPlant, error) {
	out := []*domain.UserGardenPlant{}
	err := r.s.run(func(t *tables) error {
		for _, gp := range t.gardenPlants {
			if gp.GardenID == gardenID {
				out = append(out, r.resolve(t, gp))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *gardenPlantRepo) Update(_ context.Context, gp *domain.UserGardenPlant) error {
	return r.s.run(func(t *tables) error {
		existing, ok := t.gardenPlants[gp.ID]
		if !ok {
			return domain.NotFound("garden plant not found")
		}
		existing.GrowthStage = gp.GrowthStage
		existing.ExpectedHarvestDate = gp.ExpectedHarvestDate
		t.gardenPlants[gp.ID] = existing
		return nil
	})
}

func (r *gardenPlantRepo) Delete(_ context.Context, id int64) error {
	return r.s.run(func(t *tables) error {
		if _, ok := t.gardenPlants[id]; !ok {
			return domain.NotFound("garden plant not found")
		}
		delete(t.gardenPlants, id)
		return nil
	})
}

func (r *gardenPlantRepo) DeleteByGarden(_ context.Context, gardenID int64) error {
	return r.s.run(func(t *tables) error {
		for id, gp := range t.gardenPlants {
			if gp.GardenID == gardenID {
				delete(t.gardenPlants, id)
			}
		}
		return nil
	})
}

type plantRepo struct{ s *Store }

func (r *plantRepo) Create(_ context.Context, p *domain.Plant) error {
	return r.s.run(func(t *tables) error {
		for _, existing := range t.plants {
			if existing.Name == p.Name {
				return domain.Conflict("name", "name already exists")
			}
		}
		p.ID = t.id()
		t.plants[p.ID] = *p
		return nil
	})
}

func (r *plantRepo) GetByID(_ context.Context, id int64) (*domain.Plant, error) {
	var out *domain.Plant
	err := r.s.run(func(t *tables) error {
		p, ok := t.plants[id]
		if !ok {
			return domain.NotFound("plant not found")
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *plantRepo) GetByName(_ context.Context, name string) (*domain.Plant, error) {
	var out *domain.Plant
	err := r.s.run(func(t *tables) error {
		for _, p := range t.plants {
			if p.Name == name {
				cp := p
				out = &cp
				return nil
			}
		}
		return domain.NotFound("plant not found")
	})
	return out, err
}

func (r *plantRepo) List(_ context.Context, filter domain.PlantFilter) ([]*domain.Plant, error) {
	out := []*domain.Plant{}
	err := r.s.run(func(t *tables) error {
		for _, p := range t.plants {
			if filter.Matches(&p) {
				cp := p
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}
