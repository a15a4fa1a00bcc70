package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"resume-matcher/internal/shared/telemetry"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMongo    = "mongo"
)

// LLM providers.
const (
	LLMNone   = "none"
	LLMGemini = "gemini"
	LLMOpenAI = "openai"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	StoreBackend string
	DatabaseURL  string
	SQLitePath   string
	MongoURI     string
	MongoDB      string

	LLMProvider string
	LLMModel    string
	GoogleKey   string
	OpenAIKey   string
	LLMTimeout  time.Duration

	SkillsFile     string
	SkillWeight    float64
	SkillMatchMode string
	TopKTerms      int

	FreeResumeChecks  int
	FreeJDChecks      int
	HistoryTextPrefix int
	SessionIdleTTL    time.Duration

	PaymentLink     string
	PlanAmountMinor int64
	PlanCurrency    string
	PlanDays        int

	RateLimitRPS   float64
	RateLimitBurst int
	MaxUploadBytes int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Real environment wins over .env values.
	_ = godotenv.Load(".env")
	_ = godotenv.Load("cmd/.env")

	env := normalizeEnv(getEnv("APP_ENV", getEnv("ENV", "dev")))
	dbURL := os.Getenv("DATABASE_URL")

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		StoreBackend: normalizeStoreBackend(getEnv("STORE_BACKEND", defaultBackend(dbURL))),
		DatabaseURL:  dbURL,
		SQLitePath:   getEnv("SQLITE_PATH", "./data/resume-matcher.db"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "resume_matcher"),

		LLMProvider: normalizeProvider(getEnv("LLM_PROVIDER", LLMNone)),
		LLMModel:    getEnv("LLM_MODEL", ""),
		GoogleKey:   getEnv("GOOGLE_API_KEY", getEnv("GEMINI_API_KEY", "")),
		OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
		LLMTimeout:  time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,

		SkillsFile:     getEnv("SKILLS_FILE", ""),
		SkillWeight:    clamp01(getEnvFloat("SKILL_WEIGHT", 0.7)),
		SkillMatchMode: strings.ToLower(getEnv("SKILL_MATCH_MODE", "substring")),
		TopKTerms:      getEnvInt("TOP_K_TERMS", 15),

		FreeResumeChecks:  getEnvInt("FREE_RESUME_CHECKS", 1),
		FreeJDChecks:      getEnvInt("FREE_JD_CHECKS", 1),
		HistoryTextPrefix: getEnvInt("HISTORY_TEXT_PREFIX", 500),
		SessionIdleTTL:    time.Duration(getEnvInt("SESSION_IDLE_HOURS", 24)) * time.Hour,

		PaymentLink:     getEnv("PAYMENT_LINK", "https://your-payment-gateway.com/pay?amount=199"),
		PlanAmountMinor: int64(getEnvInt("PLAN_AMOUNT_MINOR", 19900)),
		PlanCurrency:    strings.ToUpper(getEnv("PLAN_CURRENCY", "INR")),
		PlanDays:        getEnvInt("PLAN_DAYS", 30),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_MB", 10)) << 20,
	}

	if cfg.Env == "production" && cfg.StoreBackend == StoreMemory {
		telemetry.Warn("config.memory_store_in_production", map[string]any{"env": cfg.Env})
	}
	return cfg
}

// IsProduction reports whether the app runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func defaultBackend(dbURL string) string {
	if dbURL != "" {
		return StorePostgres
	}
	return StoreMemory
}

func normalizeStoreBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "postgresql", "pg":
		return StorePostgres
	case "sqlite", "sqlite3":
		return StoreSQLite
	case "mongo", "mongodb":
		return StoreMongo
	default:
		return StoreMemory
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return LLMGemini
	case "openai":
		return LLMOpenAI
	default:
		return LLMNone
	}
}
