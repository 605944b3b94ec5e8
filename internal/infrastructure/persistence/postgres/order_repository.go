package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/order"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

const orderColumns = `id, kind, created_at, status, customer_id, car_id`

// CreateWithCar books the order and the coupled car-state change in one
// transaction. The version predicate on the car write decides races between
// concurrent buyers: the loser's transaction rolls back with no order row.
func (r *OrderRepository) CreateWithCar(ctx context.Context, o *order.Order, c *car.Car) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, carStateUpdateSQL, c.State, c.ID, c.Version)
	if err != nil {
		return fmt.Errorf("update car %d: %w", c.ID, err)
	}
	if err := finishCarUpdate(c, result); err != nil {
		return err
	}

	const insert = `
		INSERT INTO orders (kind, created_at, status, customer_id, car_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	if err := tx.QueryRow(ctx, insert, o.Kind, o.Date, o.Status, o.CustomerID, o.CarID).Scan(&o.ID); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *OrderRepository) UpdateWithCar(ctx context.Context, o *order.Order, c *car.Car) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if c != nil {
		result, err := tx.Exec(ctx, carStateUpdateSQL, c.State, c.ID, c.Version)
		if err != nil {
			return fmt.Errorf("update car %d: %w", c.ID, err)
		}
		if err := finishCarUpdate(c, result); err != nil {
			return err
		}
	}

	result, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2;`, o.Status, o.ID)
	if err != nil {
		return fmt.Errorf("update order %d: %w", o.ID, err)
	}
	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1;`, orderColumns)

	var o order.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Kind, &o.Date, &o.Status, &o.CustomerID, &o.CarID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &o, nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]order.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY id;`, orderColumns)
	return r.queryOrders(ctx, query)
}

func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID int64) ([]order.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE customer_id = $1 ORDER BY id;`, orderColumns)
	return r.queryOrders(ctx, query, customerID)
}

func (r *OrderRepository) FindFirstByCar(ctx context.Context, carID int64) (*order.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE car_id = $1 ORDER BY id LIMIT 1;`, orderColumns)

	var o order.Order
	err := r.pool.QueryRow(ctx, query, carID).Scan(
		&o.ID, &o.Kind, &o.Date, &o.Status, &o.CustomerID, &o.CarID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order by car %d: %w", carID, err)
	}
	return &o, nil
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.Kind, &o.Date, &o.Status, &o.CustomerID, &o.CarID); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}
