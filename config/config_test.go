package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv unsets every key Load reads. godotenv never overrides a variable
// that is present, even when empty, so the keys must be absent.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SERVER_PORT", "STORE_DRIVER", "MONGO_URI", "MONGO_DB_NAME", "JWT_SECRET", "LOG_FILE", "LOG_LEVEL", "CORS_ORIGIN", "PASSWORD_BLACKLIST", "ADMIN_EMAIL", "ADMIN_PASSWORD"} {
		if old, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, old) })
		} else {
			t.Cleanup(func() { os.Unsetenv(k) })
		}
		os.Unsetenv(k)
	}
}

func TestLoad_EnvFileAndFlags(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := "SERVER_PORT=9000\nSTORE_DRIVER=mongo\nJWT_SECRET=from-file\nMONGO_DB_NAME=boards\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load([]string{"--env-file", envFile, "--store", "memory"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "9000" || cfg.JWTSecret != "from-file" || cfg.MongoDBName != "boards" {
		t.Fatalf("env file not applied: %+v", cfg)
	}
	if cfg.StoreDriver != StoreMemory {
		t.Fatalf("flag should override env, got %q", cfg.StoreDriver)
	}
	if cfg.Addr() != ":9000" {
		t.Fatalf("Addr = %q", cfg.Addr())
	}
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("JWT_SECRET=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load([]string{"--env-file", envFile})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWTSecret != "from-env" {
		t.Fatalf("JWT_SECRET = %q", cfg.JWTSecret)
	}
	if cfg.ServerPort != "8080" || cfg.StoreDriver != StoreMongo || cfg.CORSOrigin != "*" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "absent.env")

	if _, err := Load([]string{"--env-file", missing}); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "s")
	if _, err := Load([]string{"--env-file", missing, "--store", "sqlite"}); err == nil {
		t.Fatalf("expected error for unknown store driver")
	}
	if _, err := Load([]string{"--bogus"}); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
	if _, err := Load([]string{"--env-file", missing}); err != nil {
		t.Fatalf("missing env file should be tolerated: %v", err)
	}

	t.Setenv("ADMIN_EMAIL", "root@example.com")
	if _, err := Load([]string{"--env-file", missing}); err == nil {
		t.Fatalf("expected error for ADMIN_EMAIL without ADMIN_PASSWORD")
	}
	t.Setenv("ADMIN_PASSWORD", "s3cret!pw")
	cfg, err := Load([]string{"--env-file", missing})
	if err != nil {
		t.Fatalf("Load with admin seed: %v", err)
	}
	if cfg.AdminEmail != "root@example.com" || cfg.AdminPassword != "s3cret!pw" {
		t.Fatalf("admin seed not read: %+v", cfg)
	}
}
