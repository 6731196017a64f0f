package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type payload struct {
	Outcome string   `json:"outcome"`
	Scores  []float64 `json:"scores"`
}

func newTestCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisWithClient(client, nil)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedis_SetGetJSON(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	in := payload{Outcome: "matched", Scores: []float64{77.5, 42}}
	if err := c.SetJSON(ctx, "match:result:abc", in, time.Minute); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var out payload
	hit, err := c.GetJSON(ctx, "match:result:abc", &out)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !hit {
		t.Fatalf("expected cache hit")
	}
	if out.Outcome != "matched" || len(out.Scores) != 2 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestRedis_MissAndExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var out payload
	hit, err := c.GetJSON(ctx, "absent", &out)
	if err != nil || hit {
		t.Fatalf("expected clean miss, got hit=%v err=%v", hit, err)
	}

	if err := c.SetJSON(ctx, "k", payload{Outcome: "x"}, time.Minute); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	hit, err = c.GetJSON(ctx, "k", &out)
	if err != nil || hit {
		t.Fatalf("expected expiry miss, got hit=%v err=%v", hit, err)
	}
}

func TestRedis_Delete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.SetJSON(ctx, "k", payload{Outcome: "x"}, time.Minute); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var out payload
	if hit, _ := c.GetJSON(ctx, "k", &out); hit {
		t.Fatalf("expected miss after delete")
	}
}

func TestRedis_UnavailableBypasses(t *testing.T) {
	var c *Redis
	ctx := context.Background()

	if err := c.SetJSON(ctx, "k", payload{}, time.Minute); err != nil {
		t.Fatalf("nil cache must bypass writes, got %v", err)
	}
	var out payload
	if hit, err := c.GetJSON(ctx, "k", &out); hit || err != nil {
		t.Fatalf("nil cache must bypass reads, got hit=%v err=%v", hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("nil cache must bypass deletes, got %v", err)
	}
}
