package handler

import (
	"custodial-ledger/internal/adapter/http/dto"
	"custodial-ledger/internal/adapter/http/middleware"
	"custodial-ledger/internal/core/domain"
	"custodial-ledger/internal/core/ports"
	"custodial-ledger/pkg/apperror"
	"custodial-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AliasHandler struct {
	aliases ports.AliasService
}

func NewAliasHandler(aliases ports.AliasService) *AliasHandler {
	return &AliasHandler{aliases: aliases}
}

func (h *AliasHandler) Create(c *gin.Context) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AliasKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	key, err := h.aliases.Create(c.Request.Context(), callerID, domain.AliasKeyType(req.Type), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToAliasKeyResponse(key))
}

func (h *AliasHandler) List(c *gin.Context) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	keys, err := h.aliases.List(c.Request.Context(), callerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.AliasKeyResponse, 0, len(keys))
	for i := range keys {
		out = append(out, dto.ToAliasKeyResponse(&keys[i]))
	}
	response.OK(c, out)
}

func (h *AliasHandler) Delete(c *gin.Context) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid key id"))
		return
	}

	if err := h.aliases.Delete(c.Request.Context(), callerID, keyID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
