package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"resume-matcher/internal/analyses"
	"resume-matcher/internal/llm"
	"resume-matcher/internal/llm/gemini"
	"resume-matcher/internal/llm/openai"
	"resume-matcher/internal/masterclass"
	"resume-matcher/internal/matching"
	"resume-matcher/internal/services/health"
	"resume-matcher/internal/shared/config"
	"resume-matcher/internal/shared/server"
	"resume-matcher/internal/shared/storage/db"
	"resume-matcher/internal/shared/storage/mongodb"
	"resume-matcher/internal/shared/telemetry"
	"resume-matcher/internal/skills"
	"resume-matcher/internal/subscriptions"
	"resume-matcher/internal/usage"
	"resume-matcher/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine

	DB      *sql.DB
	Mongo   *mongo.Client
	MongoDB *mongo.Database

	UsersRepo         users.Repo
	AnalysesRepo      analyses.Repo
	SubscriptionsRepo subscriptions.Repo

	Vocabulary           skills.Vocabulary
	Strategies           matching.Set
	Insights             *llm.Generator
	UsageService         *usage.Service
	UsersService         *users.Service
	AnalysesService      *analyses.Service
	SubscriptionsService *subscriptions.Service
	MasterclassService   *masterclass.Service
	Health               *health.Service
}

// Build connects the configured store, wires services and registers routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	if err := buildStore(ctx, app); err != nil {
		return nil, err
	}

	vocab, err := buildVocabulary(cfg)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.Vocabulary = vocab
	app.Strategies = BuildStrategies(cfg, vocab)

	app.Insights = llm.NewGenerator(LLMClient(ctx, cfg), cfg.LLMTimeout, cfg.LLMProvider)

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		Health: app.Health,
		Handlers: []server.RouteRegistrar{
			analyses.NewHandler(app.AnalysesService, cfg.PaymentLink, cfg.MaxUploadBytes),
			usage.NewHandler(app.UsageService),
			users.NewHandler(app.UsersService),
			subscriptions.NewHandler(app.SubscriptionsService),
			masterclass.NewHandler(app.MasterclassService),
		},
	})

	telemetry.Info("app.ready", map[string]any{
		"env":          cfg.Env,
		"store":        cfg.StoreBackend,
		"llm_provider": cfg.LLMProvider,
		"vocabulary":   len(vocab),
	})
	return app, nil
}

// Close releases store connections.
func (a *App) Close(ctx context.Context) {
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.Mongo != nil {
		_ = a.Mongo.Disconnect(ctx)
	}
}

// BuildStrategies returns the named scoring strategies for cfg.
func BuildStrategies(cfg config.Config, vocab skills.Vocabulary) matching.Set {
	extractor := skills.Extractor{Vocabulary: vocab, Mode: cfg.SkillMatchMode}
	return matching.NewSet(
		matching.BlendedSkillsStrategy{Skills: extractor, SkillWeight: cfg.SkillWeight, TopK: cfg.TopKTerms},
		matching.PlainLexicalStrategy{TopK: cfg.TopKTerms},
	)
}

func buildVocabulary(cfg config.Config) (skills.Vocabulary, error) {
	if strings.TrimSpace(cfg.SkillsFile) == "" {
		return skills.DefaultVocabulary(), nil
	}
	vocab, err := skills.LoadVocabulary(cfg.SkillsFile)
	if err != nil {
		return nil, fmt.Errorf("load skills vocabulary: %w", err)
	}
	return vocab, nil
}

func buildStore(ctx context.Context, app *App) error {
	cfg := app.Config
	switch cfg.StoreBackend {
	case config.StorePostgres:
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return err
		}
		if err := db.RunMigrations(ctx, sqlDB, db.DialectPostgres); err != nil {
			_ = sqlDB.Close()
			return err
		}
		app.DB = sqlDB
		setSQLRepos(app, db.DialectPostgres)
	case config.StoreSQLite:
		sqlDB, err := db.ConnectSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		if err := db.RunMigrations(ctx, sqlDB, db.DialectSQLite); err != nil {
			_ = sqlDB.Close()
			return err
		}
		app.DB = sqlDB
		setSQLRepos(app, db.DialectSQLite)
	case config.StoreMongo:
		client, database, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		if err := mongodb.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(ctx)
			return err
		}
		app.Mongo = client
		app.MongoDB = database
		app.UsersRepo = users.NewMongoRepo(database)
		app.AnalysesRepo = analyses.NewMongoRepo(database)
		app.SubscriptionsRepo = subscriptions.NewMongoRepo(database)
		app.Health = health.NewService(cfg.StoreBackend, health.PingerFunc(func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}))
	default:
		app.UsersRepo = users.NewMemoryRepo()
		app.AnalysesRepo = analyses.NewMemoryRepo()
		app.SubscriptionsRepo = subscriptions.NewMemoryRepo()
		app.Health = health.NewService(config.StoreMemory, nil)
	}
	return nil
}

func setSQLRepos(app *App, dialect string) {
	app.UsersRepo = &users.SQLRepo{DB: app.DB, Dialect: dialect}
	app.AnalysesRepo = &analyses.SQLRepo{DB: app.DB, Dialect: dialect}
	app.SubscriptionsRepo = &subscriptions.SQLRepo{DB: app.DB, Dialect: dialect}
	app.Health = health.NewService(app.Config.StoreBackend, app.DB)
}

// LLMClient returns the configured provider client, or the placeholder when the
// provider cannot be set up so that scoring keeps working without feedback.
func LLMClient(ctx context.Context, cfg config.Config) llm.Client {
	var (
		client llm.Client
		err    error
	)
	switch cfg.LLMProvider {
	case config.LLMOpenAI:
		var c *openai.Client
		if c, err = openai.NewClient(cfg.OpenAIKey, cfg.LLMModel, cfg.LLMTimeout); err == nil {
			client = c
		}
	case config.LLMGemini:
		var c *gemini.Client
		if c, err = gemini.NewClient(ctx, cfg.GoogleKey, cfg.LLMModel); err == nil {
			client = c
		}
	default:
		return llm.PlaceholderClient{}
	}
	if err != nil {
		telemetry.Warn("llm.not_configured", map[string]any{
			"provider": cfg.LLMProvider,
			"error":    err.Error(),
		})
		return llm.PlaceholderClient{}
	}
	return client
}

func buildServices(app *App) {
	cfg := app.Config

	app.UsageService = usage.NewService(usage.Policy{
		FreeResumeChecks: cfg.FreeResumeChecks,
		FreeJDChecks:     cfg.FreeJDChecks,
		IdleTTL:          cfg.SessionIdleTTL,
	})
	app.UsersService = users.NewService(app.UsersRepo)

	analysisSvc := analyses.NewService(app.AnalysesRepo, app.UsageService, app.Strategies, app.Vocabulary, app.Insights)
	analysisSvc.Flows = analyses.NewFlows(cfg.SessionIdleTTL)
	if cfg.HistoryTextPrefix > 0 {
		analysisSvc.HistoryTextPrefix = cfg.HistoryTextPrefix
	}
	app.AnalysesService = analysisSvc

	plan := subscriptions.DefaultPlan()
	if cfg.PaymentLink != "" {
		plan.PaymentLink = cfg.PaymentLink
	}
	if cfg.PlanAmountMinor > 0 {
		plan.AmountMinor = cfg.PlanAmountMinor
	}
	if cfg.PlanCurrency != "" {
		plan.Currency = cfg.PlanCurrency
	}
	if cfg.PlanDays > 0 {
		plan.Days = cfg.PlanDays
	}
	app.SubscriptionsService = subscriptions.NewService(app.SubscriptionsRepo, sessionActivator{
		quota: app.UsageService,
		flows: analysisSvc.Flows,
	}, plan)

	app.MasterclassService = masterclass.NewService(app.Insights)
}

// sessionActivator subscribes the session and releases any blocked flows.
type sessionActivator struct {
	quota *usage.Service
	flows *analyses.Flows
}

func (a sessionActivator) Activate(ctx context.Context, sessionID string, expiresAt time.Time) (usage.Quota, error) {
	q, err := a.quota.Activate(ctx, sessionID, expiresAt)
	if err != nil {
		return usage.Quota{}, err
	}
	a.flows.Unblock(sessionID)
	return q, nil
}
