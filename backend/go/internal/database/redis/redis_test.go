package redis

import (
	"context"
	"testing"

	"filmoteca/backend/go/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClientAndHealthCheck(t *testing.T) {
	assert.Error(t, HealthCheck(context.Background()), "no client before GetClient")

	mr := miniredis.RunT(t)

	rdb, err := GetClient(&config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	require.NotNil(t, rdb)

	again, err := GetClient(&config.RedisConfig{Address: "ignored:1"})
	require.NoError(t, err)
	assert.Same(t, rdb, again)

	assert.NoError(t, HealthCheck(context.Background()))
	assert.NoError(t, Close())
}
