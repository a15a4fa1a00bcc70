package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORE_BACKEND", "DATABASE_URL", "SKILL_WEIGHT", "FREE_RESUME_CHECKS", "LLM_PROVIDER", "APP_ENV", "ENV"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.StoreBackend != StoreMemory {
		t.Fatalf("expected memory backend, got %q", cfg.StoreBackend)
	}
	if cfg.SkillWeight != 0.7 {
		t.Fatalf("expected skill weight 0.7, got %v", cfg.SkillWeight)
	}
	if cfg.FreeResumeChecks != 1 || cfg.FreeJDChecks != 1 {
		t.Fatalf("expected one free check per flow, got %d/%d", cfg.FreeResumeChecks, cfg.FreeJDChecks)
	}
	if cfg.LLMProvider != LLMNone {
		t.Fatalf("expected no llm provider, got %q", cfg.LLMProvider)
	}
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "SQLite3")
	t.Setenv("SKILL_WEIGHT", "1.5")
	t.Setenv("FREE_JD_CHECKS", "3")
	t.Setenv("LLM_PROVIDER", "Google")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("TOP_K_TERMS", "abc")

	cfg := Load()
	if cfg.StoreBackend != StoreSQLite {
		t.Fatalf("expected sqlite backend, got %q", cfg.StoreBackend)
	}
	if cfg.SkillWeight != 1 {
		t.Fatalf("expected clamped weight 1, got %v", cfg.SkillWeight)
	}
	if cfg.FreeJDChecks != 3 {
		t.Fatalf("expected 3 free jd checks, got %d", cfg.FreeJDChecks)
	}
	if cfg.LLMProvider != LLMGemini {
		t.Fatalf("expected gemini, got %q", cfg.LLMProvider)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production env")
	}
	if cfg.TopKTerms != 15 {
		t.Fatalf("expected invalid int to fall back to 15, got %d", cfg.TopKTerms)
	}
}

func TestDatabaseURLImpliesPostgres(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/resume")

	cfg := Load()
	if cfg.StoreBackend != StorePostgres {
		t.Fatalf("expected postgres backend, got %q", cfg.StoreBackend)
	}
}
