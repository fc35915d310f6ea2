package reqguard

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := validateConfig(DefaultConfig()); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateConfigRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero limiter count", func(c *Config) { c.Limiter.Count = 0 }},
		{"negative limiter count", func(c *Config) { c.Limiter.Count = -5 }},
		{"unknown unit", func(c *Config) { c.Limiter.Unit = "fortnight" }},
		{"negative cache timeout", func(c *Config) { c.Limiter.CacheTimeout = -1 }},
		{"zero session ttl", func(c *Config) { c.Session.TTL = 0 }},
		{"empty request id header", func(c *Config) { c.Session.RequestIDHeader = "" }},
		{"audit enabled without buffer", func(c *Config) { c.Audit.BufferSize = 0 }},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: config accepted", tc.name)
		}
	}
}

func TestBuilderRequiresRedis(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("build without redis succeeded")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	b := New().WithRedis(rdb)
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("second build succeeded")
	}
}

func TestConfigCloneIsolatesMutatingMethods(t *testing.T) {
	cfg := DefaultConfig()
	clone := cloneConfig(cfg)
	clone.Session.MutatingMethods[0] = "TRACE"

	if cfg.Session.MutatingMethods[0] == "TRACE" {
		t.Fatal("clone shares the mutating methods slice")
	}
}
