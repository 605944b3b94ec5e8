package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/application/dealer"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/order"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
)

// respondError translates domain failures into HTTP statuses. Anything not
// recognized is a store/infrastructure failure and surfaces as a generic 500.
func respondError(c *gin.Context, err error) {
	var (
		perm     *dealer.PermissionError
		invalid  *car.InvalidStateError
		inUse    *car.InUseError
		terminal *order.TerminalError
	)

	switch {
	case errors.As(err, &perm):
		c.JSON(http.StatusForbidden, gin.H{"error": perm.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &invalid):
		c.JSON(http.StatusConflict, gin.H{"error": invalid.Error()})
	case errors.As(err, &inUse):
		c.JSON(http.StatusConflict, gin.H{"error": inUse.Error()})
	case errors.As(err, &terminal):
		c.JSON(http.StatusConflict, gin.H{"error": terminal.Error()})
	case errors.Is(err, repository.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "the entity was modified concurrently, retry"})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, car.ErrMissingField),
		errors.Is(err, car.ErrInvalidYear),
		errors.Is(err, car.ErrNegativePrice),
		errors.Is(err, car.ErrUnknownState),
		errors.Is(err, user.ErrMissingField),
		errors.Is(err, user.ErrUnknownRole),
		errors.Is(err, order.ErrMissingReference),
		errors.Is(err, order.ErrUnknownStatus),
		errors.Is(err, order.ErrUnknownKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
