package handler

import (
	"vault-dashboard/internal/adapter/http/dto"
	"vault-dashboard/internal/adapter/http/middleware"
	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/ports"
	"vault-dashboard/pkg/apperror"
	"vault-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles the connected wallet lifecycle.
type WalletHandler struct {
	wallet    ports.WalletProvider
	dashboard ports.DashboardReader
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(wallet ports.WalletProvider, dashboard ports.DashboardReader) *WalletHandler {
	return &WalletHandler{wallet: wallet, dashboard: dashboard}
}

// GetWallet handles GET /api/v1/wallet.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	address, connected := h.wallet.Address()
	if !connected {
		response.OK(c, dto.WalletResponse{Connected: false})
		return
	}

	state := h.dashboard.Snapshot()
	resp := dto.WalletResponse{
		Connected:    true,
		Address:      address,
		ShortAddress: domain.ShortAddress(address),
		RefreshedAt:  state.UserRefreshedAt,
		LastError:    state.UserError,
	}
	// the cached view may still belong to the previous wallet
	if state.User != nil && state.User.Address == address {
		resp.View = state.User
	}
	response.OK(c, resp)
}

// Connect handles POST /api/v1/wallet/connect.
func (h *WalletHandler) Connect(c *gin.Context) {
	address, err := h.wallet.Connect(c.Request.Context())
	if err != nil {
		response.Error(c, apperror.ErrWalletConnectFailed(err))
		return
	}

	c.Set(middleware.CtxWallet, address)
	response.OK(c, dto.WalletResponse{
		Connected:    true,
		Address:      address,
		ShortAddress: domain.ShortAddress(address),
	})
}

// Disconnect handles POST /api/v1/wallet/disconnect.
func (h *WalletHandler) Disconnect(c *gin.Context) {
	address, connected := h.wallet.Address()
	if !connected {
		response.Error(c, apperror.ErrWalletNotConnected())
		return
	}

	h.wallet.Disconnect()
	c.Set(middleware.CtxWallet, address)
	response.OK(c, dto.WalletResponse{Connected: false})
}
