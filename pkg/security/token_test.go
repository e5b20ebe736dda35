package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeew/stellar-api/pkg/security"
)

func TestSignAndVerify(t *testing.T) {
	signer := security.NewSigner("unit-test-secret")
	token, err := signer.Sign(security.NewTokenClaims("stellar-selfhost", "stellar", "u1", time.Now().Add(time.Hour).Unix()))
	require.NoError(t, err)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.User)
	assert.Equal(t, "stellar-selfhost", claims.Appid)

	_, err = security.NewSigner("other-secret").Verify(token)
	assert.Error(t, err)
}

func TestVerifyExpired(t *testing.T) {
	signer := security.NewSigner("unit-test-secret")
	token, err := signer.Sign(security.NewTokenClaims("a", "stellar", "u1", time.Now().Add(-time.Minute).Unix()))
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := security.HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, security.CheckPassword(hash, "s3cret"))
	assert.False(t, security.CheckPassword(hash, "wrong"))
}
