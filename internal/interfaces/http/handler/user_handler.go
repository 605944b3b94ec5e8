package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/application/account"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/application/dealer"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/audit"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/interfaces/http/middleware"
	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

// UserHandler exposes registration and account administration.
type UserHandler struct {
	accounts *account.Service
	sink     audit.Sink
	log      logger.Logger
}

func NewUserHandler(accounts *account.Service, sink audit.Sink, log logger.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, sink: sink, log: log}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// Register is the only unauthenticated write endpoint. New accounts are always
// clients.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.accounts.Register(c.Request.Context(), account.RegisterCommand{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Surname:  req.Surname,
		Phone:    req.Phone,
		Email:    req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserView(u))
}

func (h *UserHandler) List(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	users, err := h.accounts.List(c.Request.Context(), principal.Role, principal.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": toUserViews(users)})
}

func (h *UserHandler) Get(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	u, err := h.accounts.Get(c.Request.Context(), principal.Role, principal.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(u))
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required,role"`
}

func (h *UserHandler) ChangeRole(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.ChangeRole(c.Request.Context(), principal.Role, id, user.Role(req.Role)); err != nil {
		respondError(c, err)
		return
	}

	h.audit(principal, dealer.OpChangeUserRole, fmt.Sprintf("user %d -> %s", id, req.Role))
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Delete(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), principal.Role, id); err != nil {
		respondError(c, err)
		return
	}

	h.audit(principal, dealer.OpDeleteUser, fmt.Sprintf("user %d", id))
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) audit(p middleware.Principal, op dealer.Operation, info string) {
	e := audit.NewEvent(p.Username, string(op), info)
	if err := h.sink.Record(context.Background(), e); err != nil {
		h.log.Warn("audit record dropped", logger.String("action", e.Action), logger.Error(err))
	}
}
