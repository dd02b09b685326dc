// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stonemedia/internal/platform/sec"
)

func newTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	service, err := sec.NewTokenServiceFromPEM(privatePEM, publicPEM, issuer)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip signs and verifies an admin session token.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, "studio.test")

	token, err := service.GenerateAccessToken("uid-9", "ops@studio.example", string(sec.RoleEditor), time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-9", claims.UserID)
	assert.Equal(t, "ops@studio.example", claims.Email)
	assert.Equal(t, "editor", claims.Role)
}

/*
TestTokenService_RejectsForeignIssuer refuses tokens minted for another issuer.
*/
func TestTokenService_RejectsForeignIssuer(t *testing.T) {
	service := newTokenService(t, "studio.test")
	token, err := service.GenerateAccessToken("uid", "a@b.c", "admin", time.Hour)
	require.NoError(t, err)

	other := newTokenService(t, "elsewhere.test")
	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_RejectsExpired refuses an expired token.
*/
func TestTokenService_RejectsExpired(t *testing.T) {
	service := newTokenService(t, "studio.test")
	token, err := service.GenerateAccessToken("uid", "a@b.c", "admin", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestUserRole_AtLeast checks the role hierarchy.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleEditor))
	assert.True(t, sec.RoleEditor.AtLeast(sec.RoleEditor))
	assert.False(t, sec.RoleEditor.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("member").AtLeast(sec.RoleEditor))

	_, ok := sec.ParseRole("superuser")
	assert.False(t, ok)
}

/*
TestSecretEqual checks shared-secret comparison.
*/
func TestSecretEqual(t *testing.T) {
	assert.True(t, sec.SecretEqual("s3cret", "s3cret"))
	assert.False(t, sec.SecretEqual("s3cret", "other"))
	assert.False(t, sec.SecretEqual("", ""))

	token, err := sec.GenerateSecureToken(16)
	require.NoError(t, err)
	assert.Len(t, token, 32)
}
