// Package memory provides an in-memory implementation of the repository
// interfaces, used by tests and local runs without a database.
package memory

import (
	"sync"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/audit"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/order"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
)

// Store holds every entity map behind one mutex, so the multi-entity writes
// (order + car) are atomic the same way the postgres transactions are.
type Store struct {
	mu     sync.RWMutex
	cars   map[int64]car.Car
	users  map[int64]user.User
	orders map[int64]order.Order
	audits []audit.Event

	nextCarID   int64
	nextUserID  int64
	nextOrderID int64
}

func NewStore() *Store {
	return &Store{
		cars:   make(map[int64]car.Car),
		users:  make(map[int64]user.User),
		orders: make(map[int64]order.Order),
	}
}

// Compile-time checks that the sub-repositories satisfy the contracts.
var (
	_ repository.CarRepository   = (*carRepo)(nil)
	_ repository.UserRepository  = (*userRepo)(nil)
	_ repository.OrderRepository = (*orderRepo)(nil)
	_ repository.AuditRepository = (*auditRepo)(nil)
)

func (s *Store) Cars() repository.CarRepository {
	return &carRepo{s: s}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepo{s: s}
}

func (s *Store) Orders() repository.OrderRepository {
	return &orderRepo{s: s}
}

func (s *Store) Audit() repository.AuditRepository {
	return &auditRepo{s: s}
}
