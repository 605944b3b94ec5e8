package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/audit"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/order"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
)

func mustCar(t *testing.T, store *Store) *car.Car {
	t.Helper()
	c, err := car.NewCar("Lada", "Vesta", 2020, 9000)
	require.NoError(t, err)
	require.NoError(t, store.Cars().Create(context.Background(), c))
	return c
}

func TestCarRepo_CreateAssignsIDAndVersion(t *testing.T) {
	store := NewStore()
	c := mustCar(t, store)

	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, int64(1), c.Version)
}

func TestCarRepo_UpdateState_VersionConflict(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	c := mustCar(t, store)

	stale := *c
	c.State = car.StateSold
	require.NoError(t, store.Cars().UpdateState(ctx, c))
	assert.Equal(t, int64(2), c.Version)

	stale.State = car.StateForService
	err := store.Cars().UpdateState(ctx, &stale)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)

	got, err := store.Cars().FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, car.StateSold, got.State, "loser must not overwrite the winner")
}

func TestCarRepo_FindByFilter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	a, err := car.NewCar("Lada", "Vesta", 2020, 9000)
	require.NoError(t, err)
	require.NoError(t, store.Cars().Create(ctx, a))
	b, err := car.NewCar("Kia", "Rio", 2022, 14000)
	require.NoError(t, err)
	require.NoError(t, store.Cars().Create(ctx, b))
	b.State = car.StateSold
	require.NoError(t, store.Cars().UpdateState(ctx, b))

	byMake, err := store.Cars().FindByFilter(ctx, repository.CarFilter{Make: "Kia"})
	require.NoError(t, err)
	require.Len(t, byMake, 1)
	assert.Equal(t, b.ID, byMake[0].ID)

	forSale, err := store.Cars().FindByFilter(ctx, repository.CarFilter{States: []car.State{car.StateForSale}})
	require.NoError(t, err)
	require.Len(t, forSale, 1)
	assert.Equal(t, a.ID, forSale[0].ID)
}

func TestOrderRepo_CreateWithCar_RejectsStaleCar(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	c := mustCar(t, store)

	stale := *c
	c.State = car.StateSold
	require.NoError(t, store.Cars().UpdateState(ctx, c))

	o, err := order.NewSalesOrder(1, stale.ID)
	require.NoError(t, err)
	stale.State = car.StateSold
	err = store.Orders().CreateWithCar(ctx, o, &stale)

	assert.ErrorIs(t, err, repository.ErrVersionConflict)
	assert.Zero(t, o.ID, "order must not be created when the car write loses")
	_, err = store.Orders().FindByID(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOrderRepo_FindFirstByCar(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	c := mustCar(t, store)

	_, err := store.Orders().FindFirstByCar(ctx, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	o, err := order.NewSalesOrder(7, c.ID)
	require.NoError(t, err)
	c.State = car.StateSold
	require.NoError(t, store.Orders().CreateWithCar(ctx, o, c))

	pin, err := store.Orders().FindFirstByCar(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, pin.ID)
}

func TestUserRepo_DuplicateUsername(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	u, err := user.NewUser(user.RoleClient, "jdoe", "hash", "", "", "", "")
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, u))

	again, err := user.NewUser(user.RoleClient, "jdoe", "hash", "", "", "", "")
	require.NoError(t, err)
	assert.ErrorIs(t, store.Users().Create(ctx, again), repository.ErrDuplicate)
}

func TestAuditRepo_ListNewestFirst(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for _, action := range []string{"first", "second", "third"} {
		require.NoError(t, store.Audit().Append(ctx, audit.NewEvent("jdoe", action, "")))
	}

	events, err := store.Audit().List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "third", events[0].Action)
	assert.Equal(t, "second", events[1].Action)
}
