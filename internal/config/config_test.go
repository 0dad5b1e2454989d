package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 8001 {
		t.Fatalf("unexpected default port %d", cfg.App.Port)
	}
	if cfg.AI.DefaultModel != "claude-3-opus-20240229" {
		t.Fatalf("unexpected default model %q", cfg.AI.DefaultModel)
	}
	if cfg.RabbitMQ.MessagePersistQueue != "chatpdf.message.persist" {
		t.Fatalf("unexpected queue name %q", cfg.RabbitMQ.MessagePersistQueue)
	}
	if !cfg.IsLocalEnv() {
		t.Fatal("default env should be local")
	}
}

func TestNumberedEnvKeys(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "or-1")
	t.Setenv("OPENROUTER_API_KEY_2", "or-2")
	t.Setenv("OPENROUTER_API_KEY_3", "  ")
	t.Setenv("OPENROUTER_API_KEY_5", "or-5")
	t.Setenv("GEMINI_API_KEY", "gm-1")
	t.Setenv("GEMINI_API_KEY_4", "gm-4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	wantOR := []string{"or-1", "or-2", "or-5"}
	if len(cfg.AI.OpenRouterKeys) != len(wantOR) {
		t.Fatalf("openrouter keys: got %v", cfg.AI.OpenRouterKeys)
	}
	for i, key := range wantOR {
		if cfg.AI.OpenRouterKeys[i] != key {
			t.Fatalf("openrouter key %d: got %q want %q", i, cfg.AI.OpenRouterKeys[i], key)
		}
	}

	wantGM := []string{"gm-1", "gm-4"}
	if len(cfg.AI.GeminiKeys) != len(wantGM) {
		t.Fatalf("gemini keys: got %v", cfg.AI.GeminiKeys)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 9000 {
		t.Fatalf("port override lost: %d", cfg.App.Port)
	}
	if cfg.IsLocalEnv() {
		t.Fatal("production env must not report local")
	}
	if !cfg.Auth.Enabled {
		t.Fatal("auth override lost")
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("cors override lost: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestCORSOriginsFollowEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	origins := cfg.CORSOrigins()
	if len(origins) != 3 || origins[0] != "http://localhost:3000" {
		t.Fatalf("local env must use the localhost allowlist, got %v", origins)
	}

	t.Setenv("APP_ENV", "production")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	origins = cfg.CORSOrigins()
	if len(origins) != 1 || origins[0] != "https://app.example.com" {
		t.Fatalf("production env must use configured origins, got %v", origins)
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	dsn := cfg.MySQLDSN()
	if dsn != "root:@tcp(127.0.0.1:3306)/chatpdf_database?parseTime=true&loc=Local&charset=utf8mb4" {
		t.Fatalf("unexpected dsn %q", dsn)
	}
}
