package cache

import (
	"context"
	"os"
	"testing"

	"github.com/lvoinea/stuffkeeper/pkg/config"
)

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(&config.Config{RedisURL: "not a url"})
	if err == nil {
		t.Fatal("expected an error for a malformed redis URL")
	}
}

// Integration test — skipped unless REDIS_URL is set.
func TestRedisClientIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	client, err := NewRedisClient(&config.Config{RedisURL: redisURL})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	t.Run("Ping", func(t *testing.T) {
		if err := client.Ping(context.Background()); err != nil {
			t.Errorf("ping: %v", err)
		}
	})

	t.Run("Close", func(t *testing.T) {
		if err := client.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
}
