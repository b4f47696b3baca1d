package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashService_RoundTrip(t *testing.T) {
	s := NewHashService()

	encoded, err := s.Hash("1234")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := s.Verify("1234", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Verify("4321", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashService_UniqueSalts(t *testing.T) {
	s := NewHashService()

	a, err := s.Hash("secret")
	require.NoError(t, err)
	b, err := s.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHashService_MalformedHash(t *testing.T) {
	s := NewHashService()

	for _, encoded := range []string{"", "plaintext", "$bcrypt$whatever", "$argon2id$v=19$bad"} {
		_, err := s.Verify("x", encoded)
		assert.Error(t, err)
	}
}
