package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
)

type CarRepository struct {
	pool *pgxpool.Pool
}

func NewCarRepository(pool *pgxpool.Pool) *CarRepository {
	return &CarRepository{pool: pool}
}

var _ repository.CarRepository = (*CarRepository)(nil)

func (r *CarRepository) Create(ctx context.Context, c *car.Car) error {
	const query = `
		INSERT INTO cars (make, model, year, price, state, version)
		VALUES ($1, $2, $3, $4, $5, 1)
		RETURNING id;
	`
	if err := r.pool.QueryRow(ctx, query, c.Make, c.Model, c.Year, c.Price, c.State).Scan(&c.ID); err != nil {
		return fmt.Errorf("insert car: %w", err)
	}
	c.Version = 1
	return nil
}

func (r *CarRepository) FindByID(ctx context.Context, id int64) (*car.Car, error) {
	const query = `
		SELECT id, make, model, year, price, state, version
		FROM cars
		WHERE id = $1;
	`
	var c car.Car
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Make, &c.Model, &c.Year, &c.Price, &c.State, &c.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get car %d: %w", id, err)
	}
	return &c, nil
}

func (r *CarRepository) FindByFilter(ctx context.Context, filter repository.CarFilter) ([]car.Car, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT id, make, model, year, price, state, version FROM cars`)

	var (
		clauses []string
		args    []any
	)
	if filter.Make != "" {
		args = append(args, filter.Make)
		clauses = append(clauses, fmt.Sprintf("make = $%d", len(args)))
	}
	if filter.Model != "" {
		args = append(args, filter.Model)
		clauses = append(clauses, fmt.Sprintf("model = $%d", len(args)))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		clauses = append(clauses, fmt.Sprintf("year = $%d", len(args)))
	}
	if len(filter.States) > 0 {
		states := make([]string, 0, len(filter.States))
		for _, st := range filter.States {
			states = append(states, string(st))
		}
		args = append(args, states)
		clauses = append(clauses, fmt.Sprintf("state = ANY($%d)", len(args)))
	}
	if len(clauses) > 0 {
		query.WriteString(" WHERE " + strings.Join(clauses, " AND "))
	}
	query.WriteString(" ORDER BY id;")

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	var cars []car.Car
	for rows.Next() {
		var c car.Car
		if err := rows.Scan(&c.ID, &c.Make, &c.Model, &c.Year, &c.Price, &c.State, &c.Version); err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cars: %w", err)
	}
	return cars, nil
}

func (r *CarRepository) UpdateState(ctx context.Context, c *car.Car) error {
	result, err := r.pool.Exec(ctx, carStateUpdateSQL, c.State, c.ID, c.Version)
	if err != nil {
		return fmt.Errorf("update car %d: %w", c.ID, err)
	}
	return finishCarUpdate(c, result)
}

func (r *CarRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM cars WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete car %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// carStateUpdateSQL is the optimistic write shared with the order repository:
// the version predicate makes a stale writer lose with zero rows affected.
const carStateUpdateSQL = `
	UPDATE cars
	SET state = $1, version = version + 1
	WHERE id = $2 AND version = $3;
`

func finishCarUpdate(c *car.Car, result pgconn.CommandTag) error {
	if result.RowsAffected() == 0 {
		return repository.ErrVersionConflict
	}
	c.Version++
	return nil
}
