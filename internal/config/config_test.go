package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "motors")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "dealer")
	t.Setenv("JWT_SECRET", "signing-secret")
	t.Setenv("SESSION_SECRET", "session-secret")
	t.Setenv("TOKEN_TTL_MIN", "60")
	t.Setenv("BCRYPT_COST", "10")
}

func TestLoadReadsEnvironment(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()
	if cfg.Env != "test" || cfg.Port != "8080" {
		t.Fatalf("unexpected app settings: %+v", cfg)
	}
	if cfg.DBUser != "motors" || cfg.DBPass != "" || cfg.DBName != "dealer" {
		t.Fatalf("unexpected db settings: %+v", cfg)
	}
	if cfg.TokenTTLMin != 60 || cfg.BcryptCost != 10 {
		t.Fatalf("unexpected int settings: %+v", cfg)
	}
	if cfg.Dev() {
		t.Fatal("Dev() must be false outside the dev environment")
	}

	t.Setenv("APP_ENV", "dev")
	if !Load().Dev() {
		t.Fatal("Dev() must be true for APP_ENV=dev")
	}
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("CACHE_PREFIX", "")
	t.Setenv("CACHE_MAX_BODY_BYTES", "")

	cc := LoadCacheConfig()
	if !cc.Enabled || cc.TTL != 30*time.Second || cc.Prefix != "cache" || cc.MaxBodyBytes != 1<<20 {
		t.Fatalf("unexpected defaults: %+v", cc)
	}
}

func TestLoadCacheConfigOverrides(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "bogus")
	t.Setenv("CACHE_PREFIX", "inv")
	t.Setenv("CACHE_MAX_BODY_BYTES", "512")

	cc := LoadCacheConfig()
	if cc.Enabled {
		t.Fatal("CACHE_ENABLED=false must disable the cache")
	}
	if cc.TTL != time.Second {
		t.Fatalf("unparseable TTL must fall back to 1s, got %v", cc.TTL)
	}
	if cc.Prefix != "inv" || cc.MaxBodyBytes != 512 {
		t.Fatalf("unexpected overrides: %+v", cc)
	}
}
