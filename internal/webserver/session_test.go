package webserver

import (
	"testing"
	"time"

	"github.com/fatboylabs/gamestore/config"
	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueTokenRoundTrip(t *testing.T) {
	cfg := &config.AppConfig{}
	*cfg = *config.DefaultAppConfig
	cfg.Web.TokenTTLHours = 2

	acct := &domain.Account{
		ID:            "u1",
		Username:      "liza",
		Role:          domain.RoleUser,
		EmailVerified: true,
	}

	signed, err := IssueToken(cfg, acct)
	require.NoError(t, err)

	claims := new(SessionClaims)
	token, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.Web.JwtSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, "u1", claims.UID)
	assert.Equal(t, "liza", claims.Username)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.True(t, claims.EmailVerified)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestIssueTokenRejectsWrongKey(t *testing.T) {
	cfg := &config.AppConfig{}
	*cfg = *config.DefaultAppConfig

	signed, err := IssueToken(cfg, &domain.Account{ID: "u1", Username: "liza"})
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, new(SessionClaims), func(*jwt.Token) (interface{}, error) {
		return []byte("not-the-secret"), nil
	})
	assert.Error(t, err)
}
