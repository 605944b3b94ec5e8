package memory

import (
	"context"
	"sort"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/order"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
)

type orderRepo struct {
	s *Store
}

func (r *orderRepo) CreateWithCar(_ context.Context, o *order.Order, c *car.Car) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Car write first: a version conflict must leave the order uncreated.
	if err := r.s.applyCarLocked(c); err != nil {
		return err
	}

	r.s.nextOrderID++
	o.ID = r.s.nextOrderID
	r.s.orders[o.ID] = *o
	return nil
}

func (r *orderRepo) UpdateWithCar(_ context.Context, o *order.Order, c *car.Car) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[o.ID]; !ok {
		return repository.ErrNotFound
	}
	if c != nil {
		if err := r.s.applyCarLocked(c); err != nil {
			return err
		}
	}
	r.s.orders[o.ID] = *o
	return nil
}

func (r *orderRepo) FindByID(_ context.Context, id int64) (*order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r *orderRepo) FindAll(_ context.Context) ([]order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]order.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *orderRepo) FindByCustomer(_ context.Context, customerID int64) ([]order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []order.Order
	for _, o := range r.s.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *orderRepo) FindFirstByCar(_ context.Context, carID int64) (*order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var pin *order.Order
	for _, o := range r.s.orders {
		if o.CarID != carID {
			continue
		}
		if pin == nil || o.ID < pin.ID {
			found := o
			pin = &found
		}
	}
	if pin == nil {
		return nil, repository.ErrNotFound
	}
	return pin, nil
}
