package redis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRedisClientUnreachableHost(t *testing.T) {
	client, err := NewRedisClient(&RedisConfig{
		Host:      "batch-store.invalid",
		Port:      6379,
		Namespace: "agency",
	})
	require.Error(t, err)
	require.Nil(t, client)
	require.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestNewRedisClientEmptyConfig(t *testing.T) {
	client, err := NewRedisClient(&RedisConfig{})
	require.Error(t, err)
	require.Nil(t, client)
}

func TestNewRedisSentinelClientUnreachableHost(t *testing.T) {
	client, err := NewRedisSentinelClient(&RedisSentinelConfig{
		SentinelHost: "batch-store-sentinel.invalid",
		SentinelPort: 26379,
		MasterName:   "batches",
		Namespace:    "agency",
	})
	require.Error(t, err)
	require.Nil(t, client)
	require.Contains(t, err.Error(), "failed to connect to Redis through Sentinel")
}
