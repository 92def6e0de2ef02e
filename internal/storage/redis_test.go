package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/naveenspark/teamwork/pkg/domain"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func TestRedisKVPrefixesKeys(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	kv := NewRedisKV(rdb, "")

	if err := kv.SetItem(ctx, TokenKey, "tok"); err != nil {
		t.Fatalf("SetItem() error: %v", err)
	}
	got, err := mr.Get(DefaultRedisPrefix + TokenKey)
	if err != nil || got != "tok" {
		t.Errorf("raw redis value = %q, %v; want \"tok\"", got, err)
	}

	if _, ok, err := kv.GetItem(ctx, "missing"); ok || err != nil {
		t.Errorf("GetItem(missing) = %v, %v; want false, nil", ok, err)
	}
	if err := kv.RemoveItem(ctx, TokenKey); err != nil {
		t.Fatalf("RemoveItem() error: %v", err)
	}
	if mr.Exists(DefaultRedisPrefix + TokenKey) {
		t.Error("key still present after RemoveItem")
	}
}

func TestRedisKVSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	s := NewSessionStore(NewRedisKV(rdb, "tw:"))
	want := domain.User{ID: "9", Name: "Grace Hopper", Email: "grace@example.com"}
	if err := s.Save(ctx, want, "tok"); err != nil {
		t.Fatal(err)
	}
	got, tok, err := s.Load(ctx)
	if err != nil || got == nil || *got != want || tok != "tok" {
		t.Errorf("Load() = %+v, %q, %v", got, tok, err)
	}
}

func TestRedisKVUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close() //nolint:errcheck
	kv := NewRedisKV(rdb, "")
	mr.Close()

	if err := kv.SetItem(ctx, "k", "v"); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("SetItem() on closed redis = %v, want ErrStorageUnavailable", err)
	}
	if _, _, err := kv.GetItem(ctx, "k"); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("GetItem() on closed redis = %v, want ErrStorageUnavailable", err)
	}
}

func TestDialRedis(t *testing.T) {
	mr, _ := newTestRedis(t)
	kv, err := DialRedis(context.Background(), "redis://"+mr.Addr(), "x:")
	if err != nil {
		t.Fatalf("DialRedis() error: %v", err)
	}
	defer kv.Close() //nolint:errcheck

	if _, err := DialRedis(context.Background(), "not a url", ""); err == nil {
		t.Error("expected error for bad url")
	}
}
