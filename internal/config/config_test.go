package config

import (
	"context"
	"testing"
	"time"
)

const (
	testAccessSecret  = "access-secret-key-that-is-at-least-32-characters"
	testRefreshSecret = "refresh-secret-key-that-is-at-least-32-characters"
)

func setSecrets(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", testAccessSecret)
	t.Setenv("JWT_REFRESH_SECRET", testRefreshSecret)
}

func TestLoad(t *testing.T) {
	setSecrets(t)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Server.Port != "8000" {
		t.Errorf("Expected Server.Port to be '8000', got '%s'", cfg.Server.Port)
	}

	if cfg.Server.ReadTimeout.Duration != 15*time.Second {
		t.Errorf("Expected Server.ReadTimeout to be 15s, got %v", cfg.Server.ReadTimeout.Duration)
	}

	if cfg.Postgres.Host != "localhost" {
		t.Errorf("Expected Postgres.Host to be 'localhost', got '%s'", cfg.Postgres.Host)
	}

	if !cfg.Postgres.Migrate {
		t.Error("Expected Postgres.Migrate to default to true")
	}

	if cfg.JWT.AccessTokenExpiry.Duration != 24*time.Hour {
		t.Errorf("Expected JWT.AccessTokenExpiry to be 1d, got %v", cfg.JWT.AccessTokenExpiry.Duration)
	}

	if cfg.JWT.RefreshTokenExpiry.Duration != 10*24*time.Hour {
		t.Errorf("Expected JWT.RefreshTokenExpiry to be 10d, got %v", cfg.JWT.RefreshTokenExpiry.Duration)
	}

	if cfg.Redis.PoolSize != 10 {
		t.Errorf("Expected Redis.PoolSize to be 10, got %d", cfg.Redis.PoolSize)
	}

	if cfg.Security.BCryptCost != 10 {
		t.Errorf("Expected Security.BCryptCost to be 10, got %d", cfg.Security.BCryptCost)
	}

	if !cfg.Cookie.Secure {
		t.Error("Expected Cookie.Secure to default to true")
	}

	if cfg.Storage.Bucket != "videotube" {
		t.Errorf("Expected Storage.Bucket to be 'videotube', got '%s'", cfg.Storage.Bucket)
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("Expected CORS.AllowedOrigins to have at least one value")
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	setSecrets(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY", "30m")
	t.Setenv("JWT_REFRESH_TOKEN_EXPIRY", "7d")
	t.Setenv("STORAGE_BUCKET", "media")
	t.Setenv("ENV", "production")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected Server.Port to be '9090', got '%s'", cfg.Server.Port)
	}

	if cfg.JWT.AccessTokenExpiry.Duration != 30*time.Minute {
		t.Errorf("Expected JWT.AccessTokenExpiry to be 30m, got %v", cfg.JWT.AccessTokenExpiry.Duration)
	}

	if cfg.JWT.RefreshTokenExpiry.Duration != 7*24*time.Hour {
		t.Errorf("Expected JWT.RefreshTokenExpiry to be 7d, got %v", cfg.JWT.RefreshTokenExpiry.Duration)
	}

	if cfg.Storage.Bucket != "media" {
		t.Errorf("Expected Storage.Bucket to be 'media', got '%s'", cfg.Storage.Bucket)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be 'production', got '%s'", cfg.Env)
	}
}

func TestLoadWithoutSecrets(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	if _, err := Load(context.Background()); err == nil {
		t.Error("Expected error when JWT secrets are not set")
	}
}

func TestLoadWithShortSecret(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "short")
	t.Setenv("JWT_REFRESH_SECRET", testRefreshSecret)

	if _, err := Load(context.Background()); err == nil {
		t.Error("Expected error when JWT_ACCESS_SECRET is too short")
	}
}

func TestLoadWithSharedSecret(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", testAccessSecret)
	t.Setenv("JWT_REFRESH_SECRET", testAccessSecret)

	if _, err := Load(context.Background()); err == nil {
		t.Error("Expected error when access and refresh secrets are equal")
	}
}

func TestDurationDecode(t *testing.T) {
	cases := map[string]time.Duration{
		"15m": 15 * time.Minute,
		"1d":  24 * time.Hour,
		"10d": 240 * time.Hour,
		"":    0,
	}

	for in, want := range cases {
		var d Duration
		if err := d.EnvDecode(context.Background(), in); err != nil {
			t.Fatalf("EnvDecode(%q) failed: %v", in, err)
		}
		if d.Duration != want {
			t.Errorf("EnvDecode(%q) = %v, want %v", in, d.Duration, want)
		}
	}

	var d Duration
	if err := d.EnvDecode(context.Background(), "xd"); err == nil {
		t.Error("Expected error for malformed days value")
	}
}

func TestDurationString(t *testing.T) {
	if got := (Duration{Duration: 48 * time.Hour}).String(); got != "2d" {
		t.Errorf("Expected '2d', got '%s'", got)
	}
	if got := (Duration{Duration: 90 * time.Second}).String(); got != "1m30s" {
		t.Errorf("Expected '1m30s', got '%s'", got)
	}
}

func TestPostgresDSN(t *testing.T) {
	pg := PostgresConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "test_user",
		Password: "test_password",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=test_user password=test_password dbname=test_db sslmode=disable"
	if dsn := pg.DSN(); dsn != expected {
		t.Errorf("Expected DSN to be '%s', got '%s'", expected, dsn)
	}
}

func TestRedisAddress(t *testing.T) {
	redis := RedisConfig{Host: "localhost", Port: "6379"}

	if addr := redis.Address(); addr != "localhost:6379" {
		t.Errorf("Expected Address to be 'localhost:6379', got '%s'", addr)
	}
}
