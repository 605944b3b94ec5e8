package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/application/dealer"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/audit"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/order"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/interfaces/http/middleware"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/metrics"
	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

// OrderHandler exposes the order lifecycle endpoints.
type OrderHandler struct {
	dealer  *dealer.Service
	sink    audit.Sink
	metrics *metrics.Metrics
	log     logger.Logger
}

func NewOrderHandler(d *dealer.Service, sink audit.Sink, m *metrics.Metrics, log logger.Logger) *OrderHandler {
	return &OrderHandler{dealer: d, sink: sink, metrics: m, log: log}
}

type createOrderRequest struct {
	Kind       string `json:"kind" binding:"required,oneof=SALE SERVICE"`
	CarID      int64  `json:"car_id" binding:"required,gt=0"`
	CustomerID int64  `json:"customer_id" binding:"omitempty,gt=0"`
}

// Create opens a sale or a service visit. Clients book for themselves; staff
// pass an explicit customer_id.
func (h *OrderHandler) Create(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customerID := req.CustomerID
	if customerID == 0 {
		customerID = principal.UserID
	}
	if principal.Role == user.RoleClient && customerID != principal.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "clients may only book for themselves"})
		return
	}

	var (
		created *order.Order
		err     error
	)
	if order.Kind(req.Kind) == order.KindSale {
		created, err = h.dealer.CreateSalesOrder(c.Request.Context(), principal.Role, customerID, req.CarID)
	} else {
		created, err = h.dealer.CreateServiceOrder(c.Request.Context(), principal.Role, customerID, req.CarID)
	}
	h.metrics.ObserveTransition(string(dealer.OpCreateOrder), err)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit(principal, dealer.OpCreateOrder, fmt.Sprintf("%s order %d for car %d", req.Kind, created.ID, created.CarID))
	c.JSON(http.StatusCreated, toOrderView(created))
}

func (h *OrderHandler) List(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	orders, err := h.dealer.ListOrders(c.Request.Context(), principal.Role, principal.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": toOrderViews(orders)})
}

func (h *OrderHandler) Get(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	o, err := h.dealer.GetOrder(c.Request.Context(), principal.Role, principal.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderView(o))
}

func (h *OrderHandler) Complete(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.dealer.CompleteOrder(c.Request.Context(), principal.Role, id)
	h.metrics.ObserveTransition(string(dealer.OpCompleteOrder), err)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit(principal, dealer.OpCompleteOrder, fmt.Sprintf("order %d", id))
	c.Status(http.StatusNoContent)
}

// Cancel is self-service. The visibility check through GetOrder keeps clients
// to their own orders; for anyone else's they get the same 404 as on reads.
func (h *OrderHandler) Cancel(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.dealer.GetOrder(c.Request.Context(), principal.Role, principal.UserID, id); err != nil {
		respondError(c, err)
		return
	}

	err := h.dealer.CancelOrder(c.Request.Context(), id)
	h.metrics.ObserveTransition(string(dealer.OpCancelOrder), err)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit(principal, dealer.OpCancelOrder, fmt.Sprintf("order %d", id))
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) SetInProgress(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.dealer.SetInProgress(c.Request.Context(), principal.Role, id)
	h.metrics.ObserveTransition(string(dealer.OpSetInProgress), err)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit(principal, dealer.OpSetInProgress, fmt.Sprintf("order %d", id))
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) audit(p middleware.Principal, op dealer.Operation, info string) {
	e := audit.NewEvent(p.Username, string(op), info)
	if err := h.sink.Record(context.Background(), e); err != nil {
		h.log.Warn("audit record dropped", logger.String("action", e.Action), logger.Error(err))
	}
}
