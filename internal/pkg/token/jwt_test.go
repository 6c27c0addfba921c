package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("segredo-de-teste-bem-longo", time.Hour)

	tok, err := svc.GenerateToken("u-1", "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewService("segredo-de-teste-bem-longo", time.Minute)
	tok, err := svc.GenerateToken("u-1", "admin")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = svc.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tok, err := NewService("segredo-de-teste-bem-longo", time.Hour).GenerateToken("u-1", "admin")
	require.NoError(t, err)

	_, err = NewService("outro-segredo-qualquer-longo", time.Hour).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := CustomClaims{UserID: "u-1", Role: "admin", RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("segredo-de-teste-bem-longo"))
	require.NoError(t, err)

	_, err = NewService("segredo-de-teste-bem-longo", time.Hour).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
