package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/application/account"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/application/dealer"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/audit"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/infrastructure/persistence/memory"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/interfaces/http/handler"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/interfaces/http/router"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/metrics"
	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

const testSecret = "test-secret"

// recordingSink captures audit events synchronously for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *recordingSink) Record(_ context.Context, e audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) Close(context.Context) error { return nil }

func (s *recordingSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Action)
	}
	return out
}

type testApp struct {
	engine *gin.Engine
	store  *memory.Store
	sink   *recordingSink
	client *user.User
	admin  *user.User
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, handler.RegisterValidators())

	store := memory.NewStore()
	nop := logger.NewNop()
	sink := &recordingSink{}

	dealerSvc := dealer.NewService(store.Cars(), store.Users(), store.Orders(), nop)
	accountSvc := account.NewService(store.Users(), nop)
	m := metrics.New(prometheus.NewRegistry())

	engine := gin.New()
	router.RegisterRoutes(engine, testSecret, router.Handlers{
		Cars:   handler.NewCarHandler(dealerSvc, sink, m, nop),
		Orders: handler.NewOrderHandler(dealerSvc, sink, m, nop),
		Users:  handler.NewUserHandler(accountSvc, sink, nop),
		Audit:  handler.NewAuditHandler(store.Audit()),
	})

	app := &testApp{engine: engine, store: store, sink: sink}

	client, err := user.NewUser(user.RoleClient, "jdoe", "hash", "John", "Doe", "", "")
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(context.Background(), client))
	app.client = client

	admin, err := user.NewUser(user.RoleAdmin, "boss", "hash", "Ada", "Min", "", "")
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(context.Background(), admin))
	app.admin = admin

	return app
}

func (a *testApp) token(t *testing.T, u *user.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(u.ID, 10),
		"username": u.Username,
		"role":     u.Role.String(),
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return raw
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) seedCar(t *testing.T) *car.Car {
	t.Helper()
	c, err := car.NewCar("Toyota", "Corolla", 2021, 1500000)
	require.NoError(t, err)
	require.NoError(t, a.store.Cars().Create(context.Background(), c))
	return c
}

func TestRegister_Public(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/register", "", gin.H{
		"username": "newbie",
		"password": "s3cret-pass",
		"name":     "New",
		"surname":  "Bie",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var view struct {
		Role     string `json:"role"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "CLIENT", view.Role)
	assert.Equal(t, "newbie", view.Username)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	app := newTestApp(t)

	body := gin.H{"username": "dupe", "password": "s3cret-pass", "name": "D", "surname": "U"}
	require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/api/register", "", body).Code)

	rec := app.do(t, http.MethodPost, "/api/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_RequiresToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/cars", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateCar_ManagerAllowedClientForbidden(t *testing.T) {
	app := newTestApp(t)
	body := gin.H{"make": "Honda", "model": "Civic", "year": 2023, "price": 2000000}

	rec := app.do(t, http.MethodPost, "/api/cars", app.token(t, app.admin), body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/cars", app.token(t, app.client), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookSale_FullFlow(t *testing.T) {
	app := newTestApp(t)
	c := app.seedCar(t)

	rec := app.do(t, http.MethodPost, "/api/orders", app.token(t, app.client), gin.H{
		"kind":   "SALE",
		"car_id": c.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var view struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
		CarID  int64  `json:"car_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "IN_PROGRESS", view.Status)

	stored, err := app.store.Cars().FindByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, car.StateSold, stored.State)

	assert.Contains(t, app.sink.actions(), string(dealer.OpCreateOrder))
}

func TestBookSale_SoldCarConflicts(t *testing.T) {
	app := newTestApp(t)
	c := app.seedCar(t)

	body := gin.H{"kind": "SALE", "car_id": c.ID}
	require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/api/orders", app.token(t, app.client), body).Code)

	rec := app.do(t, http.MethodPost, "/api/orders", app.token(t, app.client), body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "SOLD")
}

func TestCancelOrder_RestoresCarAndGuardsOthers(t *testing.T) {
	app := newTestApp(t)
	c := app.seedCar(t)

	rec := app.do(t, http.MethodPost, "/api/orders", app.token(t, app.client), gin.H{"kind": "SALE", "car_id": c.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	var view struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))

	// another client must not even see the order
	other, err := user.NewUser(user.RoleClient, "other", "hash", "O", "T", "", "")
	require.NoError(t, err)
	require.NoError(t, app.store.Users().Create(context.Background(), other))
	rec = app.do(t, http.MethodPost, "/api/orders/"+itoa(view.ID)+"/cancel", app.token(t, other), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/orders/"+itoa(view.ID)+"/cancel", app.token(t, app.client), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	stored, err := app.store.Cars().FindByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, car.StateForSale, stored.State)
}

func TestCompleteOrder_ClientForbidden(t *testing.T) {
	app := newTestApp(t)
	c := app.seedCar(t)

	rec := app.do(t, http.MethodPost, "/api/orders", app.token(t, app.client), gin.H{"kind": "SALE", "car_id": c.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	var view struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))

	rec = app.do(t, http.MethodPost, "/api/orders/"+itoa(view.ID)+"/complete", app.token(t, app.client), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/orders/"+itoa(view.ID)+"/complete", app.token(t, app.admin), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// terminal orders reject further transitions
	rec = app.do(t, http.MethodPost, "/api/orders/"+itoa(view.ID)+"/cancel", app.token(t, app.admin), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListCars_ClientSeesOnlyCatalog(t *testing.T) {
	app := newTestApp(t)
	forSale := app.seedCar(t)

	sold := app.seedCar(t)
	rec := app.do(t, http.MethodPost, "/api/orders", app.token(t, app.client), gin.H{"kind": "SALE", "car_id": sold.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/cars", app.token(t, app.client), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Cars []struct {
			ID    int64  `json:"id"`
			State string `json:"state"`
		} `json:"cars"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Cars, 1)
	assert.Equal(t, forSale.ID, body.Cars[0].ID)

	rec = app.do(t, http.MethodGet, "/api/cars", app.token(t, app.admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Cars, 2)
}

func TestChangeCarState_InvalidValueRejected(t *testing.T) {
	app := newTestApp(t)
	c := app.seedCar(t)

	rec := app.do(t, http.MethodPut, "/api/cars/"+itoa(c.ID)+"/state", app.token(t, app.admin), gin.H{
		"state": "EXPLODED",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPut, "/api/cars/"+itoa(c.ID)+"/state", app.token(t, app.admin), gin.H{
		"state": "NOT_SALE",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteCar_PinnedByOrder(t *testing.T) {
	app := newTestApp(t)
	c := app.seedCar(t)

	rec := app.do(t, http.MethodPost, "/api/orders", app.token(t, app.client), gin.H{"kind": "SALE", "car_id": c.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.do(t, http.MethodDelete, "/api/cars/"+itoa(c.ID), app.token(t, app.admin), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestChangeRole_AdminOnly(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPut, "/api/users/"+itoa(app.client.ID)+"/role", app.token(t, app.client), gin.H{
		"role": "MANAGER",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPut, "/api/users/"+itoa(app.client.ID)+"/role", app.token(t, app.admin), gin.H{
		"role": "MANAGER",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	stored, err := app.store.Users().FindByID(context.Background(), app.client.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, stored.Role)
}

func TestAuditEndpoints_AdminOnly(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/audit", app.token(t, app.client), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	require.NoError(t, app.store.Audit().Append(context.Background(), audit.NewEvent("boss", "car.create", "car 1")))

	rec = app.do(t, http.MethodGet, "/api/audit", app.token(t, app.admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "car.create")

	rec = app.do(t, http.MethodGet, "/api/audit/export", app.token(t, app.admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "boss")
}
