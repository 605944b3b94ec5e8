package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/application/dealer"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/audit"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/interfaces/http/middleware"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/metrics"
	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

// CarHandler exposes the catalog endpoints. Every successful mutation emits an
// audit event and bumps the transition counter.
type CarHandler struct {
	dealer  *dealer.Service
	sink    audit.Sink
	metrics *metrics.Metrics
	log     logger.Logger
}

func NewCarHandler(d *dealer.Service, sink audit.Sink, m *metrics.Metrics, log logger.Logger) *CarHandler {
	return &CarHandler{dealer: d, sink: sink, metrics: m, log: log}
}

type createCarRequest struct {
	Make  string `json:"make" binding:"required"`
	Model string `json:"model" binding:"required"`
	Year  int    `json:"year" binding:"required"`
	Price int64  `json:"price" binding:"gte=0"`
}

func (h *CarHandler) Create(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	var req createCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.dealer.CreateCar(c.Request.Context(), principal.Role, req.Make, req.Model, req.Year, req.Price)
	h.metrics.ObserveTransition(string(dealer.OpCreateCar), err)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit(principal, dealer.OpCreateCar, fmt.Sprintf("car %d (%s %s)", created.ID, created.Make, created.Model))
	c.JSON(http.StatusCreated, toCarView(created))
}

func (h *CarHandler) List(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	filter := repository.CarFilter{
		Make:  c.Query("make"),
		Model: c.Query("model"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a number"})
			return
		}
		filter.Year = year
	}
	if raw := c.Query("state"); raw != "" {
		state, err := car.ParseState(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		filter.States = []car.State{state}
	}

	cars, err := h.dealer.ListCars(c.Request.Context(), principal.Role, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cars": toCarViews(cars)})
}

func (h *CarHandler) Get(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	found, err := h.dealer.GetCar(c.Request.Context(), principal.Role, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCarView(found))
}

type changeStateRequest struct {
	State string `json:"state" binding:"required,carstate"`
}

func (h *CarHandler) ChangeState(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req changeStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.dealer.ChangeCarState(c.Request.Context(), principal.Role, id, car.State(req.State))
	h.metrics.ObserveTransition(string(dealer.OpChangeCarState), err)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit(principal, dealer.OpChangeCarState, fmt.Sprintf("car %d -> %s", id, req.State))
	c.Status(http.StatusNoContent)
}

func (h *CarHandler) Delete(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.dealer.DeleteCar(c.Request.Context(), principal.Role, id)
	h.metrics.ObserveTransition(string(dealer.OpDeleteCar), err)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit(principal, dealer.OpDeleteCar, fmt.Sprintf("car %d", id))
	c.Status(http.StatusNoContent)
}

func (h *CarHandler) audit(p middleware.Principal, op dealer.Operation, info string) {
	e := audit.NewEvent(p.Username, string(op), info)
	if err := h.sink.Record(context.Background(), e); err != nil {
		h.log.Warn("audit record dropped", logger.String("action", e.Action), logger.Error(err))
	}
}

// pathID parses the numeric path parameter, writing the 400 itself on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s must be a positive number", name)})
		return 0, false
	}
	return id, true
}
