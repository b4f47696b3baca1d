package handler

import (
	"strconv"

	"custodial-ledger/internal/adapter/http/dto"
	"custodial-ledger/internal/adapter/http/middleware"
	"custodial-ledger/internal/core/ports"
	"custodial-ledger/pkg/apperror"
	"custodial-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) GetBalance(c *gin.Context) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	account, err := h.accounts.GetBalance(c.Request.Context(), callerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		AccountID: account.ID.String(),
		Balance:   account.Balance,
		UpdatedAt: account.UpdatedAt,
	})
}

func (h *AccountHandler) Deposit(c *gin.Context) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	account, err := h.accounts.GetBalance(c.Request.Context(), callerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.accounts.Deposit(c.Request.Context(), ports.DepositRequest{
		AccountID:   account.ID,
		Amount:      req.Amount,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToTransactionResponse(txn))
}

func (h *AccountHandler) ListTransactions(c *gin.Context) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txns, err := h.accounts.ListTransactions(c.Request.Context(), callerID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		out = append(out, dto.ToTransactionResponse(&txns[i]))
	}
	response.OK(c, out)
}
