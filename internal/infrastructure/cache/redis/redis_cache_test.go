package redis

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type cachedCard struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

func newTestCache(t *testing.T, namespace string) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)

	cache, err := NewRedisCache(context.Background(), Options{
		Addr:      server.Addr(),
		TTL:       time.Minute,
		Namespace: namespace,
	})
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache, server
}

func TestNamespacedKey(t *testing.T) {
	tests := []struct {
		namespace string
		key       string
		want      string
	}{
		{"", "menu:items:all", "menu:items:all"},
		{"smartfood", "menu:items:mains", "smartfood:menu:items:mains"},
		{"smartfood", "menu:items:*", "smartfood:menu:items:*"},
	}

	for _, tt := range tests {
		if got := NamespacedKey(tt.namespace, tt.key); got != tt.want {
			t.Errorf("NamespacedKey(%q, %q) = %q, want %q", tt.namespace, tt.key, got, tt.want)
		}
	}
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected connection error for unreachable Redis")
	}
}

func TestRedisCache_GetSet(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		setKey    string
		getKey    string
		wantRaw   string
		wantMiss  bool
	}{
		{"round trip", "smartfood", "menu:items:mains", "menu:items:mains", "smartfood:menu:items:mains", false},
		{"no namespace", "", "menu:items:all", "menu:items:all", "menu:items:all", false},
		{"miss", "smartfood", "menu:items:mains", "menu:items:drinks", "smartfood:menu:items:mains", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, server := newTestCache(t, tt.namespace)
			ctx := context.Background()

			stored := []cachedCard{{ID: 3, Name: "Filet Mignon", Price: "$32.99"}}
			if err := cache.Set(ctx, tt.setKey, stored); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if !server.Exists(tt.wantRaw) {
				t.Fatalf("expected key %q in Redis, have %v", tt.wantRaw, server.Keys())
			}
			if ttl := server.TTL(tt.wantRaw); ttl != time.Minute {
				t.Fatalf("expected TTL 1m, got %s", ttl)
			}

			var got []cachedCard
			err := cache.Get(ctx, tt.getKey, &got)
			if tt.wantMiss {
				if !errors.Is(err, ErrCacheMiss) {
					t.Fatalf("expected ErrCacheMiss, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if len(got) != 1 || got[0] != stored[0] {
				t.Fatalf("unexpected cached value %+v", got)
			}
		})
	}
}

func TestRedisCache_Expiry(t *testing.T) {
	cache, server := newTestCache(t, "smartfood")
	ctx := context.Background()

	if err := cache.Set(ctx, "menu:items:all", []cachedCard{{ID: 1}}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	server.FastForward(2 * time.Minute)

	var got []cachedCard
	if err := cache.Get(ctx, "menu:items:all", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after TTL, got %v", err)
	}
}

func TestRedisCache_GetCorruptValue(t *testing.T) {
	cache, server := newTestCache(t, "smartfood")
	if err := server.Set("smartfood:menu:items:all", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var got []cachedCard
	err := cache.Get(context.Background(), "menu:items:all", &got)
	if err == nil || errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestRedisCache_DeletePattern(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		wantDeleted int
		wantLeft    []string
	}{
		{
			name:        "menu entries only",
			pattern:     "menu:items:*",
			wantDeleted: 3,
			wantLeft:    []string{"other:menu:items:all", "smartfood:session:42"},
		},
		{
			name:        "nothing matches",
			pattern:     "gallery:*",
			wantDeleted: 0,
			wantLeft: []string{
				"other:menu:items:all",
				"smartfood:menu:items:all",
				"smartfood:menu:items:desserts",
				"smartfood:menu:items:mains",
				"smartfood:session:42",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, server := newTestCache(t, "smartfood")
			for _, key := range []string{
				"smartfood:menu:items:all",
				"smartfood:menu:items:mains",
				"smartfood:menu:items:desserts",
				"smartfood:session:42",
				"other:menu:items:all",
			} {
				if err := server.Set(key, "[]"); err != nil {
					t.Fatalf("seed %s: %v", key, err)
				}
			}

			deleted, err := cache.DeletePattern(context.Background(), tt.pattern)
			if err != nil {
				t.Fatalf("DeletePattern() error = %v", err)
			}
			if deleted != tt.wantDeleted {
				t.Fatalf("expected %d deleted, got %d", tt.wantDeleted, deleted)
			}

			left := server.Keys()
			sort.Strings(left)
			if len(left) != len(tt.wantLeft) {
				t.Fatalf("expected keys %v, got %v", tt.wantLeft, left)
			}
			for i := range left {
				if left[i] != tt.wantLeft[i] {
					t.Fatalf("expected keys %v, got %v", tt.wantLeft, left)
				}
			}
		})
	}
}

func TestRedisCache_Ping(t *testing.T) {
	cache, server := newTestCache(t, "")
	if err := cache.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	server.Close()
	if err := cache.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error after server shutdown")
	}
}
