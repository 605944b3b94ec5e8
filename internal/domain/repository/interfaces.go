package repository

import (
	"context"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/audit"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/order"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
)

// CarFilter narrows catalog queries. Zero values mean "any".
type CarFilter struct {
	Make   string
	Model  string
	Year   int
	States []car.State
}

type CarRepository interface {
	// Create assigns an ID and version 1 to the car.
	Create(ctx context.Context, c *car.Car) error
	FindByID(ctx context.Context, id int64) (*car.Car, error)
	FindByFilter(ctx context.Context, filter CarFilter) ([]car.Car, error)

	// UpdateState writes the car's state with an optimistic version check and
	// bumps the version on success. Returns ErrVersionConflict when the stored
	// version no longer matches.
	UpdateState(ctx context.Context, c *car.Car) error
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id int64) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindAll(ctx context.Context) ([]user.User, error)
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id int64) error
}

type OrderRepository interface {
	// CreateWithCar inserts the order and persists the already-mutated car
	// state in a single transaction, so a sale can never be booked without the
	// car leaving the catalog. The car write is version-checked.
	CreateWithCar(ctx context.Context, o *order.Order, c *car.Car) error

	// UpdateWithCar persists an order status change together with the coupled
	// car state change. A nil car means the transition leaves the car alone.
	UpdateWithCar(ctx context.Context, o *order.Order, c *car.Car) error

	FindByID(ctx context.Context, id int64) (*order.Order, error)
	FindAll(ctx context.Context) ([]order.Order, error)
	FindByCustomer(ctx context.Context, customerID int64) ([]order.Order, error)

	// FindFirstByCar returns any order referencing the car, ErrNotFound when
	// the car is unreferenced. Used to pin cars against deletion.
	FindFirstByCar(ctx context.Context, carID int64) (*order.Order, error)
}

type AuditRepository interface {
	Append(ctx context.Context, e audit.Event) error
	List(ctx context.Context, limit int) ([]audit.Event, error)
}
