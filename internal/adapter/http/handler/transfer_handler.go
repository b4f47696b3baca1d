package handler

import (
	"custodial-ledger/internal/adapter/http/dto"
	"custodial-ledger/internal/adapter/http/middleware"
	"custodial-ledger/internal/core/ports"
	"custodial-ledger/pkg/apperror"
	"custodial-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TransferHandler struct {
	transfers ports.TransferService
	aliases   ports.AliasService
}

func NewTransferHandler(transfers ports.TransferService, aliases ports.AliasService) *TransferHandler {
	return &TransferHandler{transfers: transfers, aliases: aliases}
}

func (h *TransferHandler) Transfer(c *gin.Context) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	senderID, err := uuid.Parse(req.SenderAccountID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid sender_account_id"))
		return
	}
	receiverID, err := uuid.Parse(req.ReceiverAccountID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid receiver_account_id"))
		return
	}

	txn, err := h.transfers.Execute(c.Request.Context(), ports.TransferRequest{
		CallerID:          callerID,
		SenderAccountID:   senderID,
		ReceiverAccountID: receiverID,
		Amount:            req.Amount,
		Pin:               req.Pin,
		ReferenceID:       req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToTransactionResponse(txn))
}

// TransferByAlias resolves the receiver by alias key first, then runs the
// same engine.
func (h *TransferHandler) TransferByAlias(c *gin.Context) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AliasTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	receiver, err := h.aliases.Resolve(c.Request.Context(), req.AliasKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	senderID, err := uuid.Parse(req.SenderAccountID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid sender_account_id"))
		return
	}

	txn, err := h.transfers.Execute(c.Request.Context(), ports.TransferRequest{
		CallerID:          callerID,
		SenderAccountID:   senderID,
		ReceiverAccountID: receiver.ID,
		Amount:            req.Amount,
		Pin:               req.Pin,
		ReferenceID:       req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToTransactionResponse(txn))
}
