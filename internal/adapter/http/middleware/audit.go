package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"merchant-webhooks/internal/core/domain"
	"merchant-webhooks/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog records successful registry mutations after the handler has run.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		resourceID := c.Param("id")
		if resourceID == "" {
			resourceID = c.GetString(CtxResourceID)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": status,
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			MerchantID:   c.GetString(CtxMerchantID),
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		})
	}
}

// mapRouteToAction matches on the registered route pattern, not the raw path.
func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	switch {
	case route == "/webhooks/:merchant/endpoints" && method == http.MethodPost:
		return domain.AuditActionCreateEndpoint, "webhook_endpoint"
	case route == "/webhooks/:merchant/endpoints/:id" && method == http.MethodPut:
		return domain.AuditActionUpdateEndpoint, "webhook_endpoint"
	case route == "/webhooks/:merchant/endpoints/:id" && method == http.MethodDelete:
		return domain.AuditActionDeleteEndpoint, "webhook_endpoint"
	case route == "/webhooks/:merchant/endpoints/:id/secret" && method == http.MethodPost:
		return domain.AuditActionRotateSecret, "webhook_endpoint"
	}
	return "", ""
}
