package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/interfaces/http/middleware"
)

const defaultAuditLimit = 100

// AuditHandler serves the audit trail to admins.
type AuditHandler struct {
	audits repository.AuditRepository
}

func NewAuditHandler(audits repository.AuditRepository) *AuditHandler {
	return &AuditHandler{audits: audits}
}

func (h *AuditHandler) List(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	if principal.Role != user.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}

	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive number"})
			return
		}
		limit = n
	}

	events, err := h.audits.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Export renders the trail as one line per event for offline inspection.
func (h *AuditHandler) Export(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	if principal.Role != user.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}

	events, err := h.audits.List(c.Request.Context(), defaultAuditLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, "%s\t%s\t%s\t%s\n", e.At.Format(time.RFC3339), e.Username, e.Action, e.Info)
	}

	c.Header("Content-Disposition", "attachment; filename=audit.log")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(b.String()))
}
