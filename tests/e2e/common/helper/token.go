//go:build e2e

package helper

import (
	"testing"
	"time"

	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
)

// issues a bearer token the way an upstream identity service would
func GenerateToken(t *testing.T, cfg config.JWTConfig, actorID, role string) string {
	t.Helper()
	duration, err := time.ParseDuration(cfg.Duration)
	require.NoError(t, err)

	token, err := jwt.NewService(cfg.Secret, duration).GenerateToken(actorID, role)
	require.NoError(t, err)
	return token
}

func CreateExpiredToken(t *testing.T, cfg config.JWTConfig, actorID, role string) string {
	t.Helper()
	token, err := jwt.NewService(cfg.Secret, time.Millisecond).GenerateToken(actorID, role)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
