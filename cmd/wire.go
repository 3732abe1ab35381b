package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	authadapter "github.com/bnema/notesgit/internal/adapters/auth"
	tomlconfig "github.com/bnema/notesgit/internal/adapters/config/toml"
	geminillm "github.com/bnema/notesgit/internal/adapters/llm/gemini"
	openaillm "github.com/bnema/notesgit/internal/adapters/llm/openai"
	filestore "github.com/bnema/notesgit/internal/adapters/secrets/file"
	"github.com/bnema/notesgit/internal/adapters/storage/drive"
	"github.com/bnema/notesgit/internal/adapters/storage/local"
	"github.com/bnema/notesgit/internal/application"
	"github.com/bnema/notesgit/internal/domain"
	"github.com/bnema/notesgit/internal/ports"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"
)

type app struct {
	cfg        tomlconfig.Config
	logLevel   *slog.LevelVar
	logger     *slog.Logger
	tokenStore ports.TokenStore
	clock      ports.Clock
	newID      func() string
}

func wireApp() (*app, error) {
	home, err := tomlconfig.ResolveHome()
	if err != nil {
		return nil, err
	}

	cfg, err := tomlconfig.Load(viper.New(), home)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := &slog.LevelVar{}
	if err := setLogLevel(level, cfg.Log.Level); err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		logLevel:   level,
		logger:     newLogger(os.Stderr, level),
		tokenStore: filestore.NewTokenStore(cfg.Google.TokenFile),
		clock:      ports.SystemClock{},
		newID:      newSessionID,
	}, nil
}

func newLogger(w io.Writer, level *slog.LevelVar) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func setLogLevel(level *slog.LevelVar, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return fmt.Errorf("parse log level %q: %w", raw, err)
	}
	level.Set(parsed)

	return nil
}

func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (a *app) locale() (domain.Locale, error) {
	locale, err := domain.LookupLocale(a.cfg.Assistant.Language)
	if err != nil {
		return domain.Locale{}, fmt.Errorf("assistant language: %w", err)
	}
	return locale, nil
}

func (a *app) ledgerService(ctx context.Context) (*application.LedgerService, error) {
	store, err := a.ledgerStore(ctx)
	if err != nil {
		return nil, err
	}

	return application.NewLedgerService(store, a.cfg.Ledger.Name, a.logger), nil
}

// assistant wires the interaction pipeline. The text generator is only
// built when the command can answer questions.
func (a *app) assistant(ctx context.Context, withGenerator bool) (*application.Assistant, *application.LedgerService, error) {
	locale, err := a.locale()
	if err != nil {
		return nil, nil, err
	}

	ledger, err := a.ledgerService(ctx)
	if err != nil {
		return nil, nil, err
	}

	var generator ports.TextGenerator
	if withGenerator {
		generator, err = a.textGenerator(ctx)
		if err != nil {
			return nil, nil, err
		}
	}

	assistant := application.NewAssistant(ledger, generator, a.clock, application.AssistantConfig{
		Locale:          locale,
		Format:          a.cfg.Ledger.Format,
		HistoryTurns:    a.cfg.Assistant.HistoryTurns,
		MaxContextBytes: a.cfg.Assistant.MaxContextBytes,
	}, a.logger)

	return assistant, ledger, nil
}

func (a *app) ledgerStore(ctx context.Context) (ports.LedgerStore, error) {
	switch a.cfg.Ledger.Backend {
	case tomlconfig.BackendLocal:
		store, err := local.NewStore(a.cfg.Ledger.LocalDir)
		if err != nil {
			return nil, fmt.Errorf("wire local ledger store: %w", err)
		}
		return store, nil
	default:
		client, err := a.googleClient(ctx)
		if err != nil {
			return nil, err
		}
		service, err := drive.NewService(ctx, client, "")
		if err != nil {
			return nil, fmt.Errorf("wire drive ledger store: %w", err)
		}
		return drive.NewStore(service), nil
	}
}

// googleClient prefers service account credentials and falls back to the
// token saved by "auth login".
func (a *app) googleClient(ctx context.Context) (*http.Client, error) {
	source, err := a.googleTokenSource(ctx)
	if err != nil {
		return nil, err
	}

	client, err := authadapter.NewHTTPClient(source, a.cfg.HTTP.Timeout)
	if err != nil {
		return nil, fmt.Errorf("wire google http client: %w", err)
	}

	return client, nil
}

func (a *app) googleTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	google := a.cfg.Google

	if key := strings.TrimSpace(google.ServiceAccountJSON); key != "" {
		return authadapter.ServiceAccountTokenSource(ctx, []byte(key))
	}

	if google.ServiceAccountFile != "" {
		key, err := os.ReadFile(google.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account key: %w", err)
		}
		return authadapter.ServiceAccountTokenSource(ctx, key)
	}

	clientConfig, err := authadapter.LoadClientConfig(google.CredentialsFile)
	if err != nil {
		return nil, err
	}

	return authadapter.UserTokenSource(ctx, clientConfig, a.tokenStore)
}

func (a *app) textGenerator(ctx context.Context) (ports.TextGenerator, error) {
	llm := a.cfg.LLM
	transport, err := authadapter.NewTransport()
	if err != nil {
		return nil, fmt.Errorf("wire text generator transport: %w", err)
	}
	client := &http.Client{Transport: transport, Timeout: a.cfg.HTTP.Timeout}

	switch llm.Provider {
	case tomlconfig.ProviderOpenAI:
		generator, err := openaillm.NewGenerator(llm.APIKey,
			openaillm.WithModel(llm.Model),
			openaillm.WithBaseURL(llm.BaseURL),
			openaillm.WithHTTPClient(client),
		)
		if err != nil {
			return nil, wrapGeneratorError(err)
		}
		return generator, nil
	default:
		generator, err := geminillm.NewGenerator(ctx, llm.APIKey,
			geminillm.WithModel(llm.Model),
			geminillm.WithBaseURL(llm.BaseURL),
			geminillm.WithHTTPClient(client),
		)
		if err != nil {
			return nil, wrapGeneratorError(err)
		}
		return generator, nil
	}
}

func wrapGeneratorError(err error) error {
	if errors.Is(err, domain.ErrMissingAPIKey) {
		return fmt.Errorf("set llm.api_key in config.toml or the provider's API key environment variable: %w", err)
	}
	return fmt.Errorf("wire text generator: %w", err)
}
