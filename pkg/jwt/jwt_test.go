package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Manager_GenerateThenValidate(t *testing.T) {
	m := NewManager("secret", 30*time.Minute)

	token, issued, err := m.GenerateAccessToken("lib-1", "ann@library.test")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "lib-1", claims.LibrarianID)
	assert.Equal(t, "ann@library.test", claims.Subject)
	assert.Equal(t, issued.ID, claims.ID)
	assert.NotEmpty(t, claims.ID)
}

func Test_Manager_RejectsExpiredToken(t *testing.T) {
	m := NewManager("secret", 30*time.Minute)
	start := time.Now()
	m.now = func() time.Time { return start }

	token, _, err := m.GenerateAccessToken("lib-1", "ann@library.test")
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(31 * time.Minute) }

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func Test_Manager_RejectsWrongSecret(t *testing.T) {
	token, _, err := NewManager("secret", time.Minute).GenerateAccessToken("lib-1", "a@b.c")
	require.NoError(t, err)

	_, err = NewManager("other", time.Minute).ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func Test_Manager_RejectsOtherSigningMethod(t *testing.T) {
	claims := &Claims{
		Type: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager("secret", time.Minute).ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func Test_Manager_RejectsGarbage(t *testing.T) {
	_, err := NewManager("secret", time.Minute).ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
