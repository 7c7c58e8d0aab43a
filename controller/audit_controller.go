// controller/audit_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/techverse/authz/audit"
	"github.com/techverse/authz/util"
)

// AuditController exposes read access to recorded access attempts.
type AuditController struct {
	auditService audit.Service
}

func NewAuditController(auditService audit.Service) *AuditController {
	return &AuditController{auditService: auditService}
}

func (ac *AuditController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/audit/attempts", ac.QueryAttempts)
}

// QueryAttempts handles GET /audit/attempts. The time window defaults to the
// last 24 hours; user_id narrows the result to one user.
func (ac *AuditController) QueryAttempts(c *gin.Context) {
	to := time.Now()
	from := to.Add(-24 * time.Hour)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' timestamp", err)
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid 'to' timestamp", err)
			return
		}
		to = parsed
	}

	attempts, err := ac.auditService.QueryAttempts(c.Request.Context(), from, to, c.Query("user_id"))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query access attempts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": attempts, "count": len(attempts)})
}
