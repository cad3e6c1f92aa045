package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog records successful wallet lifecycle calls. Vault actions are
// audited by the action service together with their signature.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method != http.MethodPost {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath())
		if action == "" {
			return
		}

		var wallet *string
		if w := c.GetString(CtxWallet); w != "" {
			wallet = &w
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"access_key": c.GetString(CtxAccessKey),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			Wallet:       wallet,
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapRouteToAction(route string) (domain.AuditAction, string) {
	switch route {
	case "/api/v1/wallet/connect":
		return domain.AuditActionWalletConnect, "wallet"
	case "/api/v1/wallet/disconnect":
		return domain.AuditActionWalletDisconnect, "wallet"
	}
	return "", ""
}
