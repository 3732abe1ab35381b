package toml

import "fmt"

const currentSchemaVersion = 1

// fileSchema is the on-disk layout of config.toml.
type fileSchema struct {
	Version   int             `toml:"version"`
	Ledger    ledgerSchema    `toml:"ledger"`
	Assistant assistantSchema `toml:"assistant"`
	LLM       llmSchema       `toml:"llm"`
	Google    googleSchema    `toml:"google"`
	HTTP      httpSchema      `toml:"http"`
	Server    serverSchema    `toml:"server"`
	Log       logSchema       `toml:"log"`
}

type ledgerSchema struct {
	Name     string `toml:"name"`
	Format   string `toml:"format"`
	Backend  string `toml:"backend"`
	LocalDir string `toml:"local_dir,omitempty"`
}

type assistantSchema struct {
	Language        string `toml:"language"`
	HistoryTurns    int    `toml:"history_turns"`
	MaxContextBytes int    `toml:"max_context_bytes"`
}

type llmSchema struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model,omitempty"`
	BaseURL  string `toml:"base_url,omitempty"`
}

type googleSchema struct {
	CredentialsFile    string `toml:"credentials_file"`
	TokenFile          string `toml:"token_file"`
	ServiceAccountFile string `toml:"service_account_file,omitempty"`
	CallbackAddr       string `toml:"callback_addr"`
}

type httpSchema struct {
	Timeout string `toml:"timeout"`
}

type serverSchema struct {
	Addr string `toml:"addr"`
}

type logSchema struct {
	Level string `toml:"level"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func validateVersion(version int) error {
	if version > currentSchemaVersion {
		return fmt.Errorf("unsupported config schema version %d (current %d)", version, currentSchemaVersion)
	}

	return nil
}

func toSchema(cfg Config) fileSchema {
	file := fileSchema{
		Version: cfg.Version,
		Ledger: ledgerSchema{
			Name:     cfg.Ledger.Name,
			Format:   string(cfg.Ledger.Format),
			Backend:  string(cfg.Ledger.Backend),
			LocalDir: cfg.Ledger.LocalDir,
		},
		Assistant: assistantSchema{
			Language:        cfg.Assistant.Language,
			HistoryTurns:    cfg.Assistant.HistoryTurns,
			MaxContextBytes: cfg.Assistant.MaxContextBytes,
		},
		LLM: llmSchema{
			Provider: string(cfg.LLM.Provider),
			Model:    cfg.LLM.Model,
			BaseURL:  cfg.LLM.BaseURL,
		},
		Google: googleSchema{
			CredentialsFile:    cfg.Google.CredentialsFile,
			TokenFile:          cfg.Google.TokenFile,
			ServiceAccountFile: cfg.Google.ServiceAccountFile,
			CallbackAddr:       cfg.Google.CallbackAddr,
		},
		HTTP:   httpSchema{Timeout: cfg.HTTP.Timeout.String()},
		Server: serverSchema{Addr: cfg.Server.Addr},
		Log:    logSchema{Level: cfg.Log.Level},
	}
	file.applyDefaults()

	return file
}
