package dto

import (
	"time"

	"custodial-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Pin      string `json:"pin" binding:"required,len=4,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TransferRequest struct {
	SenderAccountID   string          `json:"sender_account_id" binding:"required,uuid"`
	ReceiverAccountID string          `json:"receiver_account_id" binding:"required,uuid"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	Pin               string          `json:"pin" binding:"required"`
	ReferenceID       string          `json:"reference_id" binding:"required,max=128"`
}

type AliasTransferRequest struct {
	SenderAccountID string          `json:"sender_account_id" binding:"required,uuid"`
	AliasKey        string          `json:"alias_key" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Pin             string          `json:"pin" binding:"required"`
	ReferenceID     string          `json:"reference_id" binding:"required,max=128"`
}

type DepositRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ReferenceID string          `json:"reference_id" binding:"required,max=128"`
}

type AliasKeyRequest struct {
	Type  string `json:"type" binding:"required,oneof=EMAIL PHONE RANDOM"`
	Value string `json:"value"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type TransactionResponse struct {
	ID                string          `json:"id"`
	SenderAccountID   *string         `json:"sender_account_id,omitempty"`
	ReceiverAccountID string          `json:"receiver_account_id"`
	Amount            decimal.Decimal `json:"amount"`
	Type              string          `json:"type"`
	Status            string          `json:"status"`
	ReferenceID       string          `json:"reference_id"`
	CreatedAt         time.Time       `json:"created_at"`
}

type AliasKeyResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                t.ID.String(),
		ReceiverAccountID: t.ReceiverAccountID.String(),
		Amount:            t.Amount,
		Type:              string(t.Type),
		Status:            string(t.Status),
		ReferenceID:       t.ReferenceID,
		CreatedAt:         t.CreatedAt,
	}
	if t.SenderAccountID != nil {
		s := t.SenderAccountID.String()
		resp.SenderAccountID = &s
	}
	return resp
}

func ToAliasKeyResponse(k *domain.AliasKey) AliasKeyResponse {
	return AliasKeyResponse{
		ID:        k.ID.String(),
		Type:      string(k.Type),
		Value:     k.Value,
		CreatedAt: k.CreatedAt,
	}
}
