package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// testCache spins up an in-process miniredis and returns a page cache
// backed by it.
func testCache(t *testing.T, ttl time.Duration) (*PageCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewPageCache(client, ttl), mr
}

func TestPageCacheGetSet(t *testing.T) {
	pc, _ := testCache(t, 0)
	ctx := context.Background()

	if _, ok := pc.Get(ctx, "jane", "home"); ok {
		t.Error("expected miss on empty cache")
	}

	pc.Set(ctx, "jane", "home", []byte("<html>home</html>"))

	got, ok := pc.Get(ctx, "jane", "home")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(got) != "<html>home</html>" {
		t.Errorf("got %q", got)
	}

	// Different page and different site are separate entries.
	if _, ok := pc.Get(ctx, "jane", "our-story"); ok {
		t.Error("page keys must not collide")
	}
	if _, ok := pc.Get(ctx, "john", "home"); ok {
		t.Error("site keys must not collide")
	}
}

func TestPageCacheTTL(t *testing.T) {
	pc, mr := testCache(t, time.Minute)
	ctx := context.Background()

	pc.Set(ctx, "jane", "home", []byte("x"))

	mr.FastForward(2 * time.Minute)
	if _, ok := pc.Get(ctx, "jane", "home"); ok {
		t.Error("entry should have expired")
	}
}

func TestInvalidateSiteDropsAllPages(t *testing.T) {
	pc, _ := testCache(t, 0)
	ctx := context.Background()

	pc.Set(ctx, "jane", "home", []byte("h"))
	pc.Set(ctx, "jane", "our-story", []byte("s"))
	pc.Set(ctx, "john", "home", []byte("other"))

	pc.InvalidateSite(ctx, "jane")

	if _, ok := pc.Get(ctx, "jane", "home"); ok {
		t.Error("jane/home should be invalidated")
	}
	if _, ok := pc.Get(ctx, "jane", "our-story"); ok {
		t.Error("jane/our-story should be invalidated")
	}
	if _, ok := pc.Get(ctx, "john", "home"); !ok {
		t.Error("other sites must keep their entries")
	}
}

func TestNilPageCacheIsSafe(t *testing.T) {
	var pc *PageCache
	ctx := context.Background()

	pc.Set(ctx, "jane", "home", []byte("x"))
	if _, ok := pc.Get(ctx, "jane", "home"); ok {
		t.Error("nil cache should always miss")
	}
	pc.InvalidateSite(ctx, "jane")
}
