package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	s := NewTokenService("test-secret", "custodial-ledger")
	userID := uuid.New()

	token, err := s.Generate(userID, time.Hour)
	require.NoError(t, err)

	got, err := s.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenService_Expired(t *testing.T) {
	s := NewTokenService("test-secret", "custodial-ledger")

	token, err := s.Generate(uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, err = s.Validate(token)
	assert.Error(t, err)
}

func TestTokenService_WrongSecret(t *testing.T) {
	s := NewTokenService("secret-a", "custodial-ledger")
	other := NewTokenService("secret-b", "custodial-ledger")

	token, err := s.Generate(uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestTokenService_WrongIssuer(t *testing.T) {
	s := NewTokenService("secret", "someone-else")
	v := NewTokenService("secret", "custodial-ledger")

	token, err := s.Generate(uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = v.Validate(token)
	assert.Error(t, err)
}

func TestTokenService_Garbage(t *testing.T) {
	s := NewTokenService("secret", "custodial-ledger")

	_, err := s.Validate("not.a.token")
	assert.Error(t, err)
}
