package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/sumittt2004/agentforge/agents"
	"github.com/sumittt2004/agentforge/config"
	"github.com/sumittt2004/agentforge/llm"
	"github.com/sumittt2004/agentforge/log"
	"github.com/sumittt2004/agentforge/orm"
	"github.com/sumittt2004/agentforge/plugins/core"
	"github.com/sumittt2004/agentforge/plugins/notes"
	"github.com/sumittt2004/agentforge/plugins/search"
	"github.com/sumittt2004/agentforge/plugins/weather"
	"github.com/sumittt2004/agentforge/providers/gemini"
	"github.com/sumittt2004/agentforge/providers/openai"
	"github.com/sumittt2004/agentforge/tools"
	"gorm.io/gorm"
)

// App holds the initialized components of the application
type App struct {
	Agent    *agents.Agent
	Store    *orm.ConversationStore
	Registry *tools.Registry
	DB       *gorm.DB
	Provider *config.Provider
	Client   llm.Client
}

// Setup initializes the application components based on the configuration
func Setup(ctx context.Context, cfg *config.Config) (*App, error) {
	// 1. Resolve the model provider
	provider, err := cfg.ResolveProvider()
	if err != nil {
		return nil, err
	}
	log.Infof(ctx, "Using %s provider (model: %s)", provider.Name, provider.Model)

	client, err := NewLLMClient(ctx, provider)
	if err != nil {
		return nil, err
	}
	client = llm.WithTimeout(client, cfg.RequestTimeout())

	// 2. Open storage
	db, err := orm.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		closeClient(client)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cache := orm.NewResponseCache(db, cfg.WeatherCacheTTL()); cache != nil {
		if err := cache.Cleanup(ctx); err != nil {
			log.Warnf(ctx, "Failed to prune response cache: %v", err)
		}
	}

	// 3. Init Tools Registry. Each client registers its own tools.
	registry := NewRegistry(cfg, db)

	// 4. Init Agent
	store := orm.NewConversationStore(db)
	agent := agents.NewAgent(client, store, registry, agents.Config{
		Model:         provider.Model,
		Temperature:   cfg.AI.Temperature,
		MaxIterations: cfg.AI.MaxIterations,
		MaxTokens:     cfg.AI.MaxTokens,
		HistoryWindow: cfg.AI.HistoryWindow,
	})

	return &App{
		Agent:    agent,
		Store:    store,
		Registry: registry,
		DB:       db,
		Provider: provider,
		Client:   client,
	}, nil
}

// NewRegistry builds the tool catalog in its advertised order
func NewRegistry(cfg *config.Config, db *gorm.DB) *tools.Registry {
	registry := tools.NewRegistry()

	if cfg.Tools.TavilyAPIKey != "" {
		search.NewTavilyClient(cfg.Tools.TavilyAPIKey, cfg.Tools.TavilyBaseURL, cfg.ToolHTTPTimeout(), registry)
	} else {
		search.NewClient(cfg.Tools.SearchBaseURL, cfg.ToolHTTPTimeout(), registry)
	}
	core.NewCalculatorTool(cfg.CalculatorTimeout(), registry)
	wc := weather.NewClient(cfg.Tools.WeatherBaseURL, cfg.ToolHTTPTimeout(), registry)
	wc.Cache = orm.NewResponseCache(db, cfg.WeatherCacheTTL())
	notes.NewClient(db, registry)
	core.NewDateTimeTool(registry)

	return registry
}

// NewLLMClient creates the client for the resolved provider
func NewLLMClient(ctx context.Context, p *config.Provider) (llm.Client, error) {
	switch p.Name {
	case config.ProviderGroq, config.ProviderOpenAI:
		c, err := openai.NewClient(p.APIKey, p.BaseURL, p.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %s client: %w", p.Name, err)
		}
		return c, nil
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, p.APIKey, p.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", p.Name)
	}
}

// RecordProvider stores the provider and model that served the session
func (a *App) RecordProvider(ctx context.Context, sessionID string) {
	err := a.Store.SetMetadata(ctx, sessionID, map[string]interface{}{
		"provider": a.Provider.Name,
		"model":    a.Provider.Model,
	})
	if err != nil && !errors.Is(err, orm.ErrSessionNotFound) {
		log.Warnf(ctx, "Failed to record provider for session %s: %v", sessionID, err)
	}
}

// Close releases the model client and the database
func (a *App) Close() error {
	closeClient(a.Client)
	if a.DB == nil {
		return nil
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeClient(c llm.Client) {
	if closer, ok := c.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Warnf(context.Background(), "Failed to close model client: %v", err)
		}
	}
}
