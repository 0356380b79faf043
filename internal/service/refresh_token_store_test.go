package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// mockKV implementa redisKV grabando la ultima operacion de cada tipo.
type mockKV struct {
	setKey  string
	setVal  interface{}
	setTTL  time.Duration
	existed []string
	deleted []string

	setErr    error
	existsErr error
	delErr    error
	existsN   int64
}

func (m *mockKV) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	m.setKey, m.setVal, m.setTTL = key, value, ttl
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
	} else {
		cmd.SetVal("OK")
	}
	return cmd
}

func (m *mockKV) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	m.existed = keys
	cmd := redis.NewIntCmd(ctx)
	if m.existsErr != nil {
		cmd.SetErr(m.existsErr)
	} else {
		cmd.SetVal(m.existsN)
	}
	return cmd
}

func (m *mockKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.deleted = keys
	cmd := redis.NewIntCmd(ctx)
	if m.delErr != nil {
		cmd.SetErr(m.delErr)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestMemoryRefreshTokenStore_Lifecycle(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if ok, err := store.Exists("missing"); err != nil || ok {
		t.Fatalf("missing token: got %v,%v", ok, err)
	}

	if err := store.Store("jti-1", "u1", 50*time.Millisecond); err != nil {
		t.Fatalf("store: %v", err)
	}
	if ok, err := store.Exists("jti-1"); err != nil || !ok {
		t.Fatalf("stored token: got %v,%v", ok, err)
	}

	time.Sleep(70 * time.Millisecond)
	if ok, err := store.Exists("jti-1"); err != nil || ok {
		t.Fatalf("expired token: got %v,%v", ok, err)
	}
}

func TestMemoryRefreshTokenStore_RevokeAndEmptyJTI(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if err := store.Store("", "u1", time.Minute); err != nil {
		t.Fatalf("empty jti should be a no-op, got %v", err)
	}
	if err := store.Store("jti-2", "u1", time.Minute); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := store.Revoke("jti-2"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ok, _ := store.Exists("jti-2"); ok {
		t.Fatalf("revoked token still present")
	}
}

func TestRedisRefreshTokenStore_KeysAndTTL(t *testing.T) {
	mock := &mockKV{existsN: 1}
	store := &redisRefreshTokenStore{client: mock, prefix: "auth:refresh:"}

	if err := store.Store(" j1 ", "u1", 0); err != nil {
		t.Fatalf("store: %v", err)
	}
	if mock.setKey != "auth:refresh:j1" {
		t.Errorf("set key = %q", mock.setKey)
	}
	if mock.setTTL != defaultRefreshTTL {
		t.Errorf("ttl fallback = %v", mock.setTTL)
	}

	ok, err := store.Exists(" j1 ")
	if err != nil || !ok {
		t.Fatalf("exists: got %v,%v", ok, err)
	}
	if len(mock.existed) != 1 || mock.existed[0] != "auth:refresh:j1" {
		t.Errorf("exists keys = %+v", mock.existed)
	}

	if err := store.Revoke(" j1 "); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if len(mock.deleted) != 1 || mock.deleted[0] != "auth:refresh:j1" {
		t.Errorf("del keys = %+v", mock.deleted)
	}
}

func TestRedisRefreshTokenStore_ErrorsAndEmptyJTI(t *testing.T) {
	mock := &mockKV{
		setErr:    errors.New("set failed"),
		existsErr: errors.New("exists failed"),
		delErr:    errors.New("del failed"),
	}
	store := &redisRefreshTokenStore{client: mock, prefix: "auth:refresh:"}

	// jti vacio corta antes de tocar Redis.
	if err := store.Store("", "u1", time.Minute); err != nil {
		t.Errorf("empty jti store: %v", err)
	}
	if ok, err := store.Exists(""); err != nil || ok {
		t.Errorf("empty jti exists: got %v,%v", ok, err)
	}
	if err := store.Revoke(""); err != nil {
		t.Errorf("empty jti revoke: %v", err)
	}

	if err := store.Store("j2", "u1", time.Minute); err == nil {
		t.Errorf("expected set error")
	}
	if _, err := store.Exists("j2"); err == nil {
		t.Errorf("expected exists error")
	}
	if err := store.Revoke("j2"); err == nil {
		t.Errorf("expected del error")
	}
}
