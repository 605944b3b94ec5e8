package dealer

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/order"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/infrastructure/persistence/memory"
	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

type fixture struct {
	svc    *Service
	store  *memory.Store
	client *user.User
	admin  *user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	svc := NewService(store.Cars(), store.Users(), store.Orders(), logger.NewNop())

	client, err := user.NewUser(user.RoleClient, "jdoe", "hash", "John", "Doe", "555-0101", "jdoe@example.com")
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(context.Background(), client))

	admin, err := user.NewUser(user.RoleAdmin, "boss", "hash", "Ada", "Min", "555-0102", "boss@example.com")
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(context.Background(), admin))

	return &fixture{svc: svc, store: store, client: client, admin: admin}
}

func (f *fixture) newCar(t *testing.T, price int64) *car.Car {
	t.Helper()
	c, err := f.svc.CreateCar(context.Background(), user.RoleAdmin, "Toyota", "Corolla", 2021, price)
	require.NoError(t, err)
	require.Equal(t, car.StateForSale, c.State)
	return c
}

func (f *fixture) carState(t *testing.T, id int64) car.State {
	t.Helper()
	c, err := f.store.Cars().FindByID(context.Background(), id)
	require.NoError(t, err)
	return c.State
}

func TestCreateSalesOrder_BooksCar(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)

	o, err := f.svc.CreateSalesOrder(context.Background(), user.RoleAdmin, f.client.ID, c.ID)

	require.NoError(t, err)
	assert.Equal(t, order.StatusInProgress, o.Status)
	assert.Equal(t, order.KindSale, o.Kind)
	assert.Equal(t, f.client.ID, o.CustomerID)
	assert.False(t, o.Date.IsZero())
	assert.Equal(t, car.StateSold, f.carState(t, c.ID))
}

func TestCreateSalesOrder_ClientBooksForSelf(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 15000)

	o, err := f.svc.CreateSalesOrder(context.Background(), user.RoleClient, f.client.ID, c.ID)

	require.NoError(t, err)
	assert.Equal(t, order.StatusInProgress, o.Status)
}

func TestCreateSalesOrder_ManagerCannotBookForStaff(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 15000)

	_, err := f.svc.CreateSalesOrder(context.Background(), user.RoleManager, f.admin.ID, c.ID)

	var perm *PermissionError
	require.ErrorAs(t, err, &perm)
	assert.Equal(t, car.StateForSale, f.carState(t, c.ID), "no partial mutation on role failure")
}

func TestCreateSalesOrder_CarNotForSale(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)

	_, err := f.svc.CreateSalesOrder(context.Background(), user.RoleAdmin, f.client.ID, c.ID)
	require.NoError(t, err)

	_, err = f.svc.CreateSalesOrder(context.Background(), user.RoleAdmin, f.client.ID, c.ID)

	var invalid *car.InvalidStateError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, err.Error(), "SOLD", "message reports the conflicting state")
	assert.Equal(t, car.StateSold, f.carState(t, c.ID))
}

func TestCancelOrder_RestoresCatalog(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)
	o, err := f.svc.CreateSalesOrder(context.Background(), user.RoleAdmin, f.client.ID, c.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelOrder(context.Background(), o.ID))

	got, err := f.store.Orders().FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancel, got.Status)
	assert.Equal(t, car.StateForSale, f.carState(t, c.ID))
}

func TestCancelOrder_Twice(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)
	o, err := f.svc.CreateSalesOrder(context.Background(), user.RoleAdmin, f.client.ID, c.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.CancelOrder(context.Background(), o.ID))

	err = f.svc.CancelOrder(context.Background(), o.ID)

	var terminal *order.TerminalError
	require.ErrorAs(t, err, &terminal)
	assert.Equal(t, car.StateForSale, f.carState(t, c.ID))
}

func TestCompleteOrder_FinalizesSale(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)
	o, err := f.svc.CreateSalesOrder(context.Background(), user.RoleAdmin, f.client.ID, c.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.CompleteOrder(context.Background(), user.RoleManager, o.ID))

	got, err := f.store.Orders().FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusComplete, got.Status)
	assert.Equal(t, car.StateSold, f.carState(t, c.ID), "completion leaves the car SOLD")
}

func TestCompleteOrder_RoleGate(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)
	o, err := f.svc.CreateSalesOrder(context.Background(), user.RoleAdmin, f.client.ID, c.ID)
	require.NoError(t, err)

	err = f.svc.CompleteOrder(context.Background(), user.RoleClient, o.ID)

	var perm *PermissionError
	require.ErrorAs(t, err, &perm)
	got, findErr := f.store.Orders().FindByID(context.Background(), o.ID)
	require.NoError(t, findErr)
	assert.Equal(t, order.StatusInProgress, got.Status, "zero mutation on role failure")
	assert.Equal(t, car.StateSold, f.carState(t, c.ID))
}

func TestCompleteOrder_TerminalRejected(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)
	o, err := f.svc.CreateSalesOrder(context.Background(), user.RoleAdmin, f.client.ID, c.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.CompleteOrder(context.Background(), user.RoleAdmin, o.ID))

	err = f.svc.CompleteOrder(context.Background(), user.RoleAdmin, o.ID)

	var terminal *order.TerminalError
	assert.ErrorAs(t, err, &terminal)
}

func TestSetInProgress_Idempotent(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)
	o, err := f.svc.CreateSalesOrder(context.Background(), user.RoleAdmin, f.client.ID, c.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.SetInProgress(context.Background(), user.RoleManager, o.ID))
	require.NoError(t, f.svc.SetInProgress(context.Background(), user.RoleManager, o.ID))

	got, err := f.store.Orders().FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusInProgress, got.Status)
	assert.Equal(t, car.StateSold, f.carState(t, c.ID))
}

func TestSetInProgress_RoleGate(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)
	o, err := f.svc.CreateSalesOrder(context.Background(), user.RoleAdmin, f.client.ID, c.ID)
	require.NoError(t, err)

	err = f.svc.SetInProgress(context.Background(), user.RoleClient, o.ID)

	var perm *PermissionError
	assert.ErrorAs(t, err, &perm)
}

func TestServiceOrder_Lifecycle(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)

	o, err := f.svc.CreateServiceOrder(context.Background(), user.RoleAdmin, f.client.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, order.KindService, o.Kind)
	assert.Equal(t, car.StateForService, f.carState(t, c.ID))

	// Cancelling a service order parks the car instead of re-listing it.
	require.NoError(t, f.svc.CancelOrder(context.Background(), o.ID))
	assert.Equal(t, car.StateNotSale, f.carState(t, c.ID))
}

func TestChangeCarState_AdminOverride(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)

	require.NoError(t, f.svc.ChangeCarState(context.Background(), user.RoleAdmin, c.ID, car.StateForService))
	assert.Equal(t, car.StateForService, f.carState(t, c.ID))

	err := f.svc.ChangeCarState(context.Background(), user.RoleManager, c.ID, car.StateForSale)
	var perm *PermissionError
	require.ErrorAs(t, err, &perm)
	assert.Equal(t, car.StateForService, f.carState(t, c.ID))
}

func TestDeleteCar_PinnedByAnyOrderStatus(t *testing.T) {
	statuses := []struct {
		name  string
		close func(f *fixture, t *testing.T, orderID int64)
	}{
		{name: "in progress", close: func(*fixture, *testing.T, int64) {}},
		{name: "complete", close: func(f *fixture, t *testing.T, id int64) {
			require.NoError(t, f.svc.CompleteOrder(context.Background(), user.RoleAdmin, id))
		}},
		{name: "cancelled", close: func(f *fixture, t *testing.T, id int64) {
			require.NoError(t, f.svc.CancelOrder(context.Background(), id))
		}},
	}

	for _, tt := range statuses {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			c := f.newCar(t, 20000)
			o, err := f.svc.CreateSalesOrder(context.Background(), user.RoleAdmin, f.client.ID, c.ID)
			require.NoError(t, err)
			tt.close(f, t, o.ID)

			err = f.svc.DeleteCar(context.Background(), user.RoleAdmin, c.ID)

			var inUse *car.InUseError
			require.ErrorAs(t, err, &inUse)
			assert.Equal(t, o.ID, inUse.OrderID)

			_, err = f.store.Cars().FindByID(context.Background(), c.ID)
			assert.NoError(t, err, "car must survive the rejected delete")
		})
	}
}

func TestDeleteCar_Unreferenced(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)

	require.NoError(t, f.svc.DeleteCar(context.Background(), user.RoleAdmin, c.ID))

	_, err := f.store.Cars().FindByID(context.Background(), c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteCar_RoleGate(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)

	err := f.svc.DeleteCar(context.Background(), user.RoleManager, c.ID)

	var perm *PermissionError
	assert.ErrorAs(t, err, &perm)
}

func TestListCars_ClientSeesOnlyCatalog(t *testing.T) {
	f := newFixture(t)
	onSale := f.newCar(t, 10000)
	sold := f.newCar(t, 20000)
	_, err := f.svc.CreateSalesOrder(context.Background(), user.RoleAdmin, f.client.ID, sold.ID)
	require.NoError(t, err)

	visible, err := f.svc.ListCars(context.Background(), user.RoleClient, repository.CarFilter{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, onSale.ID, visible[0].ID)

	all, err := f.svc.ListCars(context.Background(), user.RoleManager, repository.CarFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetOrder_ClientVisibility(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)
	o, err := f.svc.CreateSalesOrder(context.Background(), user.RoleAdmin, f.client.ID, c.ID)
	require.NoError(t, err)

	got, err := f.svc.GetOrder(context.Background(), user.RoleClient, f.client.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = f.svc.GetOrder(context.Background(), user.RoleClient, f.client.ID+99, o.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateSalesOrder_ConcurrentBuyers(t *testing.T) {
	f := newFixture(t)
	c := f.newCar(t, 20000)

	second, err := user.NewUser(user.RoleClient, "rival", "hash", "Ri", "Val", "555-0103", "rival@example.com")
	require.NoError(t, err)
	require.NoError(t, f.store.Users().Create(context.Background(), second))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, customerID := range []int64{f.client.ID, second.ID} {
		wg.Add(1)
		go func(slot int, id int64) {
			defer wg.Done()
			_, errs[slot] = f.svc.CreateSalesOrder(context.Background(), user.RoleAdmin, id, c.ID)
		}(i, customerID)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		}
	}
	assert.Equal(t, 1, wins, "exactly one buyer may win the car")
	assert.Equal(t, car.StateSold, f.carState(t, c.ID))
}
