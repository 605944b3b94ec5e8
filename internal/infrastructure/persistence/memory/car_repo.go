package memory

import (
	"context"
	"sort"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
)

type carRepo struct {
	s *Store
}

func (r *carRepo) Create(_ context.Context, c *car.Car) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextCarID++
	c.ID = r.s.nextCarID
	c.Version = 1
	r.s.cars[c.ID] = *c
	return nil
}

func (r *carRepo) FindByID(_ context.Context, id int64) (*car.Car, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.cars[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *carRepo) FindByFilter(_ context.Context, filter repository.CarFilter) ([]car.Car, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]car.Car, 0, len(r.s.cars))
	for _, c := range r.s.cars {
		if matchesFilter(c, filter) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *carRepo) UpdateState(_ context.Context, c *car.Car) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.applyCarLocked(c)
}

func (r *carRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cars[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.cars, id)
	return nil
}

// applyCarLocked performs the version-checked write shared by UpdateState and
// the order repository's transactional writes. Caller holds the write lock.
func (s *Store) applyCarLocked(c *car.Car) error {
	stored, ok := s.cars[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != c.Version {
		return repository.ErrVersionConflict
	}
	c.Version++
	s.cars[c.ID] = *c
	return nil
}

func matchesFilter(c car.Car, filter repository.CarFilter) bool {
	if filter.Make != "" && c.Make != filter.Make {
		return false
	}
	if filter.Model != "" && c.Model != filter.Model {
		return false
	}
	if filter.Year != 0 && c.Year != filter.Year {
		return false
	}
	if len(filter.States) > 0 {
		found := false
		for _, st := range filter.States {
			if c.State == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
