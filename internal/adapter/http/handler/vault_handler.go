package handler

import (
	"vault-dashboard/internal/adapter/http/dto"
	"vault-dashboard/internal/core/ports"
	"vault-dashboard/pkg/apperror"
	"vault-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
)

// VaultHandler serves vault-wide reads. Cached refresh results are preferred;
// the live data source is only hit before the first refresh completes.
type VaultHandler struct {
	dashboard  ports.DashboardReader
	vaultSvc   ports.VaultService
	historySvc ports.HistoryService
}

func NewVaultHandler(dashboard ports.DashboardReader, vaultSvc ports.VaultService, historySvc ports.HistoryService) *VaultHandler {
	return &VaultHandler{dashboard: dashboard, vaultSvc: vaultSvc, historySvc: historySvc}
}

// GetVault handles GET /api/v1/vault.
func (h *VaultHandler) GetVault(c *gin.Context) {
	state := h.dashboard.Snapshot()
	resp := dto.VaultResponse{
		Overview:    state.Overview,
		RefreshedAt: state.VaultRefreshedAt,
		LastError:   state.VaultError,
	}

	if resp.Overview == nil {
		overview, err := h.vaultSvc.GetOverview(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		resp.Overview = overview
	}

	response.OK(c, resp)
}

// GetBatch handles GET /api/v1/vault/batch.
func (h *VaultHandler) GetBatch(c *gin.Context) {
	state := h.dashboard.Snapshot()
	resp := dto.BatchResponse{
		Eligibility: state.Eligibility,
		RefreshedAt: state.BatchRefreshedAt,
		LastError:   state.BatchError,
	}

	if resp.Eligibility == nil {
		eligibility, err := h.vaultSvc.GetDepositEligibility(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		resp.Eligibility = eligibility
	}

	response.OK(c, resp)
}

// GetPerformance handles GET /api/v1/vault/performance.
func (h *VaultHandler) GetPerformance(c *gin.Context) {
	var q dto.PerformanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	series, err := h.historySvc.GetPerformance(c.Request.Context(), q.Period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, series)
}

// GetQuote handles GET /api/v1/vault/quote.
func (h *VaultHandler) GetQuote(c *gin.Context) {
	var q dto.QuoteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	amount, _ := dto.ParseAmount(q.Amount)
	if !amount.IsPositive() {
		response.Error(c, apperror.Validation("amount must be greater than 0"))
		return
	}

	quote, err := h.vaultSvc.Quote(c.Request.Context(), amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, quote)
}

// GetUser handles GET /api/v1/users/:address.
func (h *VaultHandler) GetUser(c *gin.Context) {
	address := c.Param("address")
	if !dto.IsAddress(address) {
		response.Error(c, apperror.Validation("invalid wallet address"))
		return
	}

	view, err := h.vaultSvc.GetUserView(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}
