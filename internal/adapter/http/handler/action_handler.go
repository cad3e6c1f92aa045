package handler

import (
	"context"
	"strconv"

	"vault-dashboard/internal/adapter/http/dto"
	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/ports"
	"vault-dashboard/pkg/apperror"
	"vault-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
)

// ActionHandler handles mutating vault actions and the action journal.
type ActionHandler struct {
	actionSvc ports.ActionService
}

// NewActionHandler creates a new ActionHandler.
func NewActionHandler(actionSvc ports.ActionService) *ActionHandler {
	return &ActionHandler{actionSvc: actionSvc}
}

// Deposit handles POST /api/v1/actions/deposit.
func (h *ActionHandler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	amount, _ := dto.ParseAmount(req.Amount)

	result, err := h.actionSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		ReferenceID: req.ReferenceID,
		Amount:      amount,
		ClientIP:    c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewActionResponse(result))
}

// RequestWithdraw handles POST /api/v1/actions/withdrawals.
func (h *ActionHandler) RequestWithdraw(c *gin.Context) {
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	shares, _ := dto.ParseAmount(req.Shares)

	result, err := h.actionSvc.RequestWithdraw(c.Request.Context(), ports.WithdrawRequest{
		ReferenceID: req.ReferenceID,
		Shares:      shares,
		ClientIP:    c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewActionResponse(result))
}

// CancelWithdraw handles POST /api/v1/actions/withdrawals/:index/cancel.
func (h *ActionHandler) CancelWithdraw(c *gin.Context) {
	h.withdrawAction(c, h.actionSvc.CancelWithdraw)
}

// ProcessWithdraw handles POST /api/v1/actions/withdrawals/:index/process.
func (h *ActionHandler) ProcessWithdraw(c *gin.Context) {
	h.withdrawAction(c, h.actionSvc.ProcessWithdraw)
}

type withdrawActionFunc func(ctx context.Context, req ports.WithdrawActionRequest) (*domain.ActionRecord, error)

func (h *ActionHandler) withdrawAction(c *gin.Context, run withdrawActionFunc) {
	index, ok := parseIndex(c)
	if !ok {
		return
	}
	var req dto.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := run(c.Request.Context(), ports.WithdrawActionRequest{
		ReferenceID:   req.ReferenceID,
		WithdrawIndex: index,
		ClientIP:      c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewActionResponse(result))
}

// ListActions handles GET /api/v1/actions.
func (h *ActionHandler) ListActions(c *gin.Context) {
	var q dto.ActionListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	page, pageSize := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.ActionListParams{
		Wallet:   q.Wallet,
		Page:     page,
		PageSize: pageSize,
	}
	if q.Status != "" {
		status := domain.ActionStatus(q.Status)
		params.Status = &status
	}
	if q.Kind != "" {
		kind := domain.ActionKind(q.Kind)
		params.Kind = &kind
	}

	actions, total, err := h.actionSvc.ListActions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ActionResponse, 0, len(actions))
	for i := range actions {
		items = append(items, dto.NewActionResponse(&actions[i]))
	}
	response.Paginated(c, items, total, page, pageSize)
}

func parseIndex(c *gin.Context) (uint64, bool) {
	index, err := strconv.ParseUint(c.Param("index"), 10, 64)
	if err != nil {
		response.Error(c, apperror.Validation("withdrawal index must be a non-negative integer"))
		return 0, false
	}
	return index, true
}
