package cache

import (
	"context"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/order"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
)

// InvalidatingOrderRepository drops cached car entries after the order
// repository's transactional car writes, which bypass the car cache decorator.
type InvalidatingOrderRepository struct {
	inner repository.OrderRepository
	cars  *CachedCarRepository
}

func NewInvalidatingOrderRepository(inner repository.OrderRepository, cars *CachedCarRepository) *InvalidatingOrderRepository {
	return &InvalidatingOrderRepository{inner: inner, cars: cars}
}

var _ repository.OrderRepository = (*InvalidatingOrderRepository)(nil)

func (r *InvalidatingOrderRepository) CreateWithCar(ctx context.Context, o *order.Order, c *car.Car) error {
	if err := r.inner.CreateWithCar(ctx, o, c); err != nil {
		return err
	}
	r.cars.Invalidate(ctx, c.ID)
	return nil
}

func (r *InvalidatingOrderRepository) UpdateWithCar(ctx context.Context, o *order.Order, c *car.Car) error {
	if err := r.inner.UpdateWithCar(ctx, o, c); err != nil {
		return err
	}
	if c != nil {
		r.cars.Invalidate(ctx, c.ID)
	}
	return nil
}

func (r *InvalidatingOrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	return r.inner.FindByID(ctx, id)
}

func (r *InvalidatingOrderRepository) FindAll(ctx context.Context) ([]order.Order, error) {
	return r.inner.FindAll(ctx)
}

func (r *InvalidatingOrderRepository) FindByCustomer(ctx context.Context, customerID int64) ([]order.Order, error) {
	return r.inner.FindByCustomer(ctx, customerID)
}

func (r *InvalidatingOrderRepository) FindFirstByCar(ctx context.Context, carID int64) (*order.Order, error) {
	return r.inner.FindFirstByCar(ctx, carID)
}
