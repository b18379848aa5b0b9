package session

import (
	"context"
	"testing"
	"time"

	"panel-dashboard/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()

	st, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("get empty: %v", err)
	}
	if st.LoggedIn {
		t.Fatal("unknown session should not be logged in")
	}

	user := models.User{Name: "Tan", Email: "tan@example.com"}
	if err := store.SetLoggedIn(ctx, "abc", user); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := mr.Get("session:abc:isLoggedIn"); v != "true" {
		t.Errorf("flag = %q, want true", v)
	}

	st, err = store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !st.LoggedIn || st.User == nil || st.User.Email != user.Email {
		t.Errorf("state = %+v", st)
	}

	if err := store.Clear(ctx, "abc"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if mr.Exists("session:abc:isLoggedIn") || mr.Exists("session:abc:user") {
		t.Error("clear should remove both keys")
	}
}

func TestRedisStoreTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()
	if err := store.SetLoggedIn(ctx, "abc", models.User{Email: "a@b.c"}); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Hour)
	st, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if st.LoggedIn {
		t.Error("flag should expire with the key TTL")
	}
}

func TestRedisStoreIgnoresOtherFlagValues(t *testing.T) {
	store, mr := newRedisStore(t, 0)
	mr.Set("session:abc:isLoggedIn", "false")
	st, err := store.Get(context.Background(), "abc")
	if err != nil {
		t.Fatal(err)
	}
	if st.LoggedIn {
		t.Error(`only "true" counts as logged in`)
	}
}
