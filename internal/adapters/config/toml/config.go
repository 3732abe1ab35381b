// Package toml loads and writes the notesgit configuration file.
package toml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/notesgit/internal/domain"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configFile = "config.toml"
	configDir  = ".notesgit"
	envPrefix  = "NOTESGIT"
	homeEnv    = "NOTESGIT_HOME"
)

const (
	keyVersion            = "version"
	keyLedgerName         = "ledger.name"
	keyLedgerFormat       = "ledger.format"
	keyLedgerBackend      = "ledger.backend"
	keyLedgerLocalDir     = "ledger.local_dir"
	keyLanguage           = "assistant.language"
	keyHistoryTurns       = "assistant.history_turns"
	keyMaxContextBytes    = "assistant.max_context_bytes"
	keyLLMProvider        = "llm.provider"
	keyLLMModel           = "llm.model"
	keyLLMAPIKey          = "llm.api_key"
	keyLLMBaseURL         = "llm.base_url"
	keyCredentialsFile    = "google.credentials_file"
	keyTokenFile          = "google.token_file"
	keyServiceAccountFile = "google.service_account_file"
	keyServiceAccountJSON = "google.service_account_json"
	keyCallbackAddr       = "google.callback_addr"
	keyHTTPTimeout        = "http.timeout"
	keyServerAddr         = "server.addr"
	keyLogLevel           = "log.level"
)

type Backend string

const (
	BackendDrive Backend = "drive"
	BackendLocal Backend = "local"
)

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

type Config struct {
	Version int
	// Home is the directory holding config.toml and the relative files below.
	Home      string
	Ledger    LedgerConfig
	Assistant AssistantConfig
	LLM       LLMConfig
	Google    GoogleConfig
	HTTP      HTTPConfig
	Server    ServerConfig
	Log       LogConfig
}

type LedgerConfig struct {
	Name     string
	Format   domain.LedgerFormat
	Backend  Backend
	LocalDir string
}

type AssistantConfig struct {
	Language        string
	HistoryTurns    int
	MaxContextBytes int
}

type LLMConfig struct {
	Provider Provider
	Model    string
	APIKey   string
	BaseURL  string
}

type GoogleConfig struct {
	CredentialsFile    string
	TokenFile          string
	ServiceAccountFile string
	ServiceAccountJSON string
	CallbackAddr       string
}

type HTTPConfig struct {
	Timeout time.Duration
}

type ServerConfig struct {
	Addr string
}

type LogConfig struct {
	Level string
}

// ResolveHome returns $NOTESGIT_HOME or ~/.notesgit.
func ResolveHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv(homeEnv)); home != "" {
		return filepath.Abs(home)
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(userHome, configDir), nil
}

// Path returns the location of config.toml inside home.
func Path(home string) string {
	return filepath.Join(home, configFile)
}

// Defaults is the configuration used when no file or override is present.
func Defaults(home string) Config {
	return Config{
		Version: currentSchemaVersion,
		Home:    home,
		Ledger: LedgerConfig{
			Name:     domain.DefaultLedgerName,
			Format:   domain.LedgerFormatNotes,
			Backend:  BackendDrive,
			LocalDir: filepath.Join(home, "ledgers"),
		},
		Assistant: AssistantConfig{
			Language:        "pl",
			HistoryTurns:    10,
			MaxContextBytes: 512 * 1024,
		},
		LLM: LLMConfig{Provider: ProviderGemini},
		Google: GoogleConfig{
			CredentialsFile: filepath.Join(home, "credentials.json"),
			TokenFile:       filepath.Join(home, "token.json"),
			CallbackAddr:    "127.0.0.1:8085",
		},
		HTTP:   HTTPConfig{Timeout: 60 * time.Second},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads config.toml from home (when present) and applies NOTESGIT_*
// environment overrides. A nil cfg gets a fresh viper instance.
func Load(cfg *viper.Viper, home string) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	defaults := Defaults(home)
	setDefaults(cfg, defaults)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(home)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	version := cfg.GetInt(keyVersion)
	if err := validateVersion(version); err != nil {
		return Config{}, err
	}

	format, err := domain.ParseLedgerFormat(cfg.GetString(keyLedgerFormat))
	if err != nil {
		return Config{}, err
	}

	backend, err := parseBackend(cfg.GetString(keyLedgerBackend))
	if err != nil {
		return Config{}, err
	}

	provider, err := parseProvider(cfg.GetString(keyLLMProvider))
	if err != nil {
		return Config{}, err
	}

	timeout := cfg.GetDuration(keyHTTPTimeout)
	if timeout <= 0 {
		return Config{}, fmt.Errorf("http timeout must be positive, got %q", cfg.GetString(keyHTTPTimeout))
	}

	name := strings.TrimSpace(cfg.GetString(keyLedgerName))
	if name == "" {
		return Config{}, errors.New("ledger name is empty")
	}

	loaded := Config{
		Version: version,
		Home:    home,
		Ledger: LedgerConfig{
			Name:     name,
			Format:   format,
			Backend:  backend,
			LocalDir: resolvePath(home, cfg.GetString(keyLedgerLocalDir)),
		},
		Assistant: AssistantConfig{
			Language:        cfg.GetString(keyLanguage),
			HistoryTurns:    cfg.GetInt(keyHistoryTurns),
			MaxContextBytes: cfg.GetInt(keyMaxContextBytes),
		},
		LLM: LLMConfig{
			Provider: provider,
			Model:    cfg.GetString(keyLLMModel),
			APIKey:   apiKey(cfg.GetString(keyLLMAPIKey), provider),
			BaseURL:  cfg.GetString(keyLLMBaseURL),
		},
		Google: GoogleConfig{
			CredentialsFile:    resolvePath(home, cfg.GetString(keyCredentialsFile)),
			TokenFile:          resolvePath(home, cfg.GetString(keyTokenFile)),
			ServiceAccountFile: resolvePath(home, cfg.GetString(keyServiceAccountFile)),
			ServiceAccountJSON: cfg.GetString(keyServiceAccountJSON),
			CallbackAddr:       cfg.GetString(keyCallbackAddr),
		},
		HTTP:   HTTPConfig{Timeout: timeout},
		Server: ServerConfig{Addr: cfg.GetString(keyServerAddr)},
		Log:    LogConfig{Level: cfg.GetString(keyLogLevel)},
	}
	if loaded.Version == 0 {
		loaded.Version = currentSchemaVersion
	}

	return loaded, nil
}

func setDefaults(cfg *viper.Viper, defaults Config) {
	cfg.SetDefault(keyVersion, defaults.Version)
	cfg.SetDefault(keyLedgerName, defaults.Ledger.Name)
	cfg.SetDefault(keyLedgerFormat, string(defaults.Ledger.Format))
	cfg.SetDefault(keyLedgerBackend, string(defaults.Ledger.Backend))
	cfg.SetDefault(keyLedgerLocalDir, defaults.Ledger.LocalDir)
	cfg.SetDefault(keyLanguage, defaults.Assistant.Language)
	cfg.SetDefault(keyHistoryTurns, defaults.Assistant.HistoryTurns)
	cfg.SetDefault(keyMaxContextBytes, defaults.Assistant.MaxContextBytes)
	cfg.SetDefault(keyLLMProvider, string(defaults.LLM.Provider))
	cfg.SetDefault(keyLLMModel, "")
	cfg.SetDefault(keyLLMAPIKey, "")
	cfg.SetDefault(keyLLMBaseURL, "")
	cfg.SetDefault(keyCredentialsFile, defaults.Google.CredentialsFile)
	cfg.SetDefault(keyTokenFile, defaults.Google.TokenFile)
	cfg.SetDefault(keyServiceAccountFile, "")
	cfg.SetDefault(keyServiceAccountJSON, "")
	cfg.SetDefault(keyCallbackAddr, defaults.Google.CallbackAddr)
	cfg.SetDefault(keyHTTPTimeout, defaults.HTTP.Timeout.String())
	cfg.SetDefault(keyServerAddr, defaults.Server.Addr)
	cfg.SetDefault(keyLogLevel, defaults.Log.Level)
}

func parseBackend(raw string) (Backend, error) {
	backend := Backend(strings.ToLower(strings.TrimSpace(raw)))
	switch backend {
	case BackendDrive, BackendLocal:
		return backend, nil
	default:
		return "", fmt.Errorf("unsupported ledger backend %q", raw)
	}
}

func parseProvider(raw string) (Provider, error) {
	provider := Provider(strings.ToLower(strings.TrimSpace(raw)))
	switch provider {
	case ProviderGemini, ProviderOpenAI:
		return provider, nil
	default:
		return "", fmt.Errorf("unsupported llm provider %q", raw)
	}
}

// apiKey falls back to the provider's conventional environment variable.
func apiKey(configured string, provider Provider) string {
	if key := strings.TrimSpace(configured); key != "" {
		return key
	}

	switch provider {
	case ProviderOpenAI:
		return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	default:
		if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
			return key
		}
		return strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
	}
}

func resolvePath(home, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~/") {
		if userHome, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(userHome, path[2:])
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(home, path)
	}

	return filepath.Clean(path)
}
