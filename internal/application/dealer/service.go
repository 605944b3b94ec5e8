package dealer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/order"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

// Service is the only component that mutates car states and order statuses.
// It enforces the coupling between the two: booking a sale takes the car off
// the catalog, cancelling puts it back. Store failures pass through untouched;
// nothing here retries.
type Service struct {
	cars   repository.CarRepository
	users  repository.UserRepository
	orders repository.OrderRepository
	log    logger.Logger
}

func NewService(
	cars repository.CarRepository,
	users repository.UserRepository,
	orders repository.OrderRepository,
	log logger.Logger,
) *Service {
	return &Service{cars: cars, users: users, orders: orders, log: log}
}

// CreateCar puts a new car on the catalog in the FOR_SALE state.
func (s *Service) CreateCar(ctx context.Context, role user.Role, make, model string, year int, price int64) (*car.Car, error) {
	if err := requirePermission(OpCreateCar, role); err != nil {
		return nil, err
	}

	c, err := car.NewCar(make, model, year, price)
	if err != nil {
		return nil, err
	}
	if err := s.cars.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create car: %w", err)
	}
	return c, nil
}

// CreateSalesOrder books a sale: the car leaves the catalog (SOLD) and an
// IN_PROGRESS order is opened, both in one store transaction. An admin may
// book on behalf of anyone; otherwise the customer must be a CLIENT.
func (s *Service) CreateSalesOrder(ctx context.Context, role user.Role, customerID, carID int64) (*order.Order, error) {
	if err := requirePermission(OpCreateOrder, role); err != nil {
		return nil, err
	}

	customer, err := s.users.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load customer %d: %w", customerID, err)
	}
	if role != user.RoleAdmin && customer.Role != user.RoleClient {
		return nil, &PermissionError{Op: OpCreateOrder, Role: role}
	}

	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("load car %d: %w", carID, err)
	}
	if c.State != car.StateForSale {
		return nil, &car.InvalidStateError{CarID: c.ID, Current: c.State}
	}

	o, err := order.NewSalesOrder(customer.ID, c.ID)
	if err != nil {
		return nil, err
	}

	c.State = car.StateSold
	if err := s.orders.CreateWithCar(ctx, o, c); err != nil {
		return nil, fmt.Errorf("book sale for car %d: %w", c.ID, err)
	}

	s.log.Info("sales order created",
		logger.Int64("order_id", o.ID),
		logger.Int64("car_id", c.ID),
		logger.Int64("customer_id", customer.ID),
	)
	return o, nil
}

// CreateServiceOrder opens a service visit: the car is marked FOR_SERVICE and
// an IN_PROGRESS order is created.
func (s *Service) CreateServiceOrder(ctx context.Context, role user.Role, customerID, carID int64) (*order.Order, error) {
	if err := requirePermission(OpCreateOrder, role); err != nil {
		return nil, err
	}

	customer, err := s.users.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load customer %d: %w", customerID, err)
	}
	if role != user.RoleAdmin && customer.Role != user.RoleClient {
		return nil, &PermissionError{Op: OpCreateOrder, Role: role}
	}

	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("load car %d: %w", carID, err)
	}
	if c.State == car.StateForService {
		return nil, &car.InvalidStateError{CarID: c.ID, Current: c.State}
	}

	o, err := order.NewServiceOrder(customer.ID, c.ID)
	if err != nil {
		return nil, err
	}

	c.State = car.StateForService
	if err := s.orders.CreateWithCar(ctx, o, c); err != nil {
		return nil, fmt.Errorf("open service for car %d: %w", c.ID, err)
	}

	s.log.Info("service order created",
		logger.Int64("order_id", o.ID),
		logger.Int64("car_id", c.ID),
	)
	return o, nil
}

// CompleteOrder finalizes an order. The car keeps the state the sale or
// service already put it in.
func (s *Service) CompleteOrder(ctx context.Context, role user.Role, orderID int64) error {
	if err := requirePermission(OpCompleteOrder, role); err != nil {
		return err
	}

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %d: %w", orderID, err)
	}
	if o.Terminal() {
		return &order.TerminalError{OrderID: o.ID, Current: o.Status}
	}

	o.Status = order.StatusComplete
	if err := s.orders.UpdateWithCar(ctx, o, nil); err != nil {
		return fmt.Errorf("complete order %d: %w", o.ID, err)
	}

	s.log.Info("order completed", logger.Int64("order_id", o.ID))
	return nil
}

// CancelOrder closes an order and releases the car: a cancelled sale returns
// the car to the catalog, a cancelled service visit parks it as NOT_SALE.
// Cancelling is self-service, so there is no role gate here; adapters keep
// clients to their own orders.
func (s *Service) CancelOrder(ctx context.Context, orderID int64) error {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %d: %w", orderID, err)
	}
	if o.Terminal() {
		return &order.TerminalError{OrderID: o.ID, Current: o.Status}
	}

	c, err := s.cars.FindByID(ctx, o.CarID)
	if err != nil {
		return fmt.Errorf("load car %d: %w", o.CarID, err)
	}

	switch o.Kind {
	case order.KindSale:
		c.State = car.StateForSale
	case order.KindService:
		c.State = car.StateNotSale
	default:
		return order.ErrUnknownKind
	}

	o.Status = order.StatusCancel
	if err := s.orders.UpdateWithCar(ctx, o, c); err != nil {
		return fmt.Errorf("cancel order %d: %w", o.ID, err)
	}

	s.log.Info("order cancelled",
		logger.Int64("order_id", o.ID),
		logger.String("car_state", c.State.String()),
	)
	return nil
}

// SetInProgress re-affirms an open order: the car is re-committed as SOLD and
// the order stays (or returns to) IN_PROGRESS. Calling it on an order that is
// already IN_PROGRESS is a no-op transition, not an error.
func (s *Service) SetInProgress(ctx context.Context, role user.Role, orderID int64) error {
	if err := requirePermission(OpSetInProgress, role); err != nil {
		return err
	}

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %d: %w", orderID, err)
	}
	if o.Terminal() {
		return &order.TerminalError{OrderID: o.ID, Current: o.Status}
	}

	c, err := s.cars.FindByID(ctx, o.CarID)
	if err != nil {
		return fmt.Errorf("load car %d: %w", o.CarID, err)
	}

	o.Status = order.StatusInProgress
	c.State = car.StateSold
	if err := s.orders.UpdateWithCar(ctx, o, c); err != nil {
		return fmt.Errorf("set order %d in progress: %w", o.ID, err)
	}
	return nil
}

// ChangeCarState is the administrative override: it sets the state directly,
// bypassing the order coupling.
func (s *Service) ChangeCarState(ctx context.Context, role user.Role, carID int64, newState car.State) error {
	if err := requirePermission(OpChangeCarState, role); err != nil {
		return err
	}
	if !newState.Valid() {
		return car.ErrUnknownState
	}

	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return fmt.Errorf("load car %d: %w", carID, err)
	}

	c.State = newState
	if err := s.cars.UpdateState(ctx, c); err != nil {
		return fmt.Errorf("change state of car %d: %w", c.ID, err)
	}

	s.log.Info("car state overridden",
		logger.Int64("car_id", c.ID),
		logger.String("state", newState.String()),
	)
	return nil
}

// DeleteCar removes a car from the catalog. Any referencing order pins the
// car, regardless of the order's status.
func (s *Service) DeleteCar(ctx context.Context, role user.Role, carID int64) error {
	if err := requirePermission(OpDeleteCar, role); err != nil {
		return err
	}

	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return fmt.Errorf("load car %d: %w", carID, err)
	}

	pin, err := s.orders.FindFirstByCar(ctx, c.ID)
	switch {
	case err == nil:
		return &car.InUseError{CarID: c.ID, OrderID: pin.ID}
	case isNotFound(err):
		// unreferenced, deletable
	default:
		return fmt.Errorf("check orders for car %d: %w", c.ID, err)
	}

	if err := s.cars.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("delete car %d: %w", c.ID, err)
	}

	s.log.Info("car deleted", logger.Int64("car_id", c.ID))
	return nil
}

// ListCars applies the read visibility rule: clients browse only the FOR_SALE
// catalog, staff see everything.
func (s *Service) ListCars(ctx context.Context, role user.Role, filter repository.CarFilter) ([]car.Car, error) {
	if role == user.RoleClient {
		filter.States = []car.State{car.StateForSale}
	}
	return s.cars.FindByFilter(ctx, filter)
}

// GetCar loads a single car. Clients only see cars that are on the catalog.
func (s *Service) GetCar(ctx context.Context, role user.Role, carID int64) (*car.Car, error) {
	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if role == user.RoleClient && c.State != car.StateForSale {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

// ListOrders returns all orders for staff, the caller's own for clients.
func (s *Service) ListOrders(ctx context.Context, role user.Role, actorID int64) ([]order.Order, error) {
	if role == user.RoleClient {
		return s.orders.FindByCustomer(ctx, actorID)
	}
	return s.orders.FindAll(ctx)
}

// GetOrder loads one order; clients get ErrNotFound for orders that are not
// theirs, to avoid leaking their existence.
func (s *Service) GetOrder(ctx context.Context, role user.Role, actorID, orderID int64) (*order.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if role == user.RoleClient && o.CustomerID != actorID {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
