package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// getTestRedis はTEST_REDIS_ADDRが設定されている場合にのみキャッシュを返す。
func getTestRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping redis integration test")
	}

	r := NewRedis(addr)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Ping(ctx); err != nil {
		r.Close()
		t.Skipf("redis not reachable: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRedis_SetGet_ExpiresAfterTTL(t *testing.T) {
	r := getTestRedis(t)
	ctx := context.Background()
	key := "cartify:test:" + t.Name()

	if err := r.Set(ctx, key, []byte(`{"ok":true}`), 200*time.Millisecond); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := r.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != `{"ok":true}` {
		t.Errorf("Get = %q, want %q", got, `{"ok":true}`)
	}

	time.Sleep(400 * time.Millisecond)
	if _, err := r.Get(ctx, key); !errors.Is(err, ErrMiss) {
		t.Errorf("Get after TTL error = %v, want ErrMiss", err)
	}
}

func TestRedis_Get_MissingKey_ReturnsErrMiss(t *testing.T) {
	r := getTestRedis(t)

	_, err := r.Get(context.Background(), "cartify:test:absent")
	if !errors.Is(err, ErrMiss) {
		t.Errorf("error = %v, want ErrMiss", err)
	}
}

func TestRedis_Ping_Unreachable_ReturnsError(t *testing.T) {
	r := NewRedis("127.0.0.1:1")
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := r.Ping(ctx); err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}
