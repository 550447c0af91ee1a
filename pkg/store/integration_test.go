//go:build integration

package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("LOGICDIAGRAM_REDIS_ADDR")
	if addr == "" {
		t.Skip("LOGICDIAGRAM_REDIS_ADDR not set")
	}
	ctx := context.Background()
	prefix := fmt.Sprintf("logicdiagram-test:%d:", time.Now().UnixNano())
	s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: prefix})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		defer s.Close()
		keys, _ := s.client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			s.client.Del(ctx, keys...)
		}
	})
	testStore(t, s)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("LOGICDIAGRAM_MONGO_URI")
	if uri == "" {
		t.Skip("LOGICDIAGRAM_MONGO_URI not set")
	}
	ctx := context.Background()
	db := fmt.Sprintf("logicdiagram_test_%d", time.Now().UnixNano())
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: db})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = s.client.Database(db).Drop(ctx)
		s.Close()
	})
	testStore(t, s)
}
