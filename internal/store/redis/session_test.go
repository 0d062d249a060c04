package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func TestSessionLifecycle(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if ok, err := s.Exists(ctx, "tok"); err != nil || ok {
		t.Fatalf("Exists(unknown) = %v, %v; want false, nil", ok, err)
	}

	if err := s.Save(ctx, "tok", time.Hour); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !mr.Exists(SessionKey("tok")) {
		t.Errorf("key %q not written", SessionKey("tok"))
	}
	if ok, err := s.Exists(ctx, "tok"); err != nil || !ok {
		t.Fatalf("Exists(saved) = %v, %v; want true, nil", ok, err)
	}

	if err := s.Delete(ctx, "tok"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if ok, err := s.Exists(ctx, "tok"); err != nil || ok {
		t.Errorf("Exists(deleted) = %v, %v; want false, nil", ok, err)
	}
	if err := s.Delete(ctx, "tok"); err != nil {
		t.Errorf("Delete(unknown) error = %v, want nil", err)
	}
}

func TestSessionExpires(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "tok", time.Minute); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if ttl := mr.TTL(SessionKey("tok")); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if ok, err := s.Exists(ctx, "tok"); err != nil || ok {
		t.Errorf("Exists(expired) = %v, %v; want false, nil", ok, err)
	}
}

func TestStoreErrorsWhenRedisIsDown(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	mr.Close()
	if err := s.Ping(ctx); err == nil {
		t.Error("Ping() against a stopped server should fail")
	}
	if _, err := s.Exists(ctx, "tok"); err == nil {
		t.Error("Exists() against a stopped server should fail")
	}
}
