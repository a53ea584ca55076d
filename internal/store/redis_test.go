package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/easeaico/project-luna/internal/state"
)

func newTestRedis(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, RedisConfig{Prefix: "test"})
}

func TestRedisStoreRoundTrip(t *testing.T) {
	s := newTestRedis(t)
	ctx := context.Background()

	if err := s.Save(ctx, StateKey("yuna"), []byte(`{"affection":10}`)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := s.Load(ctx, StateKey("yuna"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(got) != `{"affection":10}` {
		t.Fatalf("unexpected payload: %s", got)
	}
}

func TestRedisStoreAbsentKeyIsNil(t *testing.T) {
	s := newTestRedis(t)
	got, err := s.Load(context.Background(), StateKey("nobody"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != nil {
		t.Fatalf("absent key must load as nil, got %s", got)
	}
}

func TestRedisStoreDelete(t *testing.T) {
	s := newTestRedis(t)
	ctx := context.Background()

	if err := s.Save(ctx, "tmp", []byte("x")); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Delete(ctx, "tmp"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	got, err := s.Load(ctx, "tmp")
	if err != nil || got != nil {
		t.Fatalf("deleted key must load as nil, got %s err %v", got, err)
	}
}

func TestStateStoreRoundTripOverRedis(t *testing.T) {
	kv := newTestRedis(t)
	states := NewStateStore(kv)
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	original := state.NewCharacterState("yuna", now)
	original.Affection = 42
	if err := states.SaveState(ctx, original); err != nil {
		t.Fatalf("save state failed: %v", err)
	}

	loaded, err := states.GetState(ctx, "yuna")
	if err != nil {
		t.Fatalf("get state failed: %v", err)
	}
	if loaded == nil || loaded.Affection != 42 || loaded.CharacterID != "yuna" {
		t.Fatalf("unexpected state: %+v", loaded)
	}

	missing, err := states.GetState(ctx, "nobody")
	if err != nil || missing != nil {
		t.Fatalf("missing character must be nil, got %+v err %v", missing, err)
	}
}

func TestStateStoreRoundTripOverInMemory(t *testing.T) {
	states := NewStateStore(NewInMemoryStore())
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	original := state.NewCharacterState("yuna", now)
	original.Affection = 7
	if err := states.SaveState(ctx, original); err != nil {
		t.Fatalf("save state failed: %v", err)
	}

	loaded, err := states.GetState(ctx, "yuna")
	if err != nil {
		t.Fatalf("get state failed: %v", err)
	}
	if loaded == nil || loaded.Affection != 7 {
		t.Fatalf("unexpected state: %+v", loaded)
	}
}
