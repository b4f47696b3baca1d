package handler

import (
	"custodial-ledger/internal/adapter/http/dto"
	"custodial-ledger/internal/core/ports"
	"custodial-ledger/pkg/apperror"
	"custodial-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), ports.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Pin:      req.Pin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToUserResponse(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LoginResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	})
}
