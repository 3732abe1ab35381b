package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bnema/notesgit/internal/domain"
	"github.com/bnema/notesgit/internal/ports"
)

type ReplyKind string

const (
	ReplySaved        ReplyKind = "saved"
	ReplyAnswered     ReplyKind = "answered"
	ReplyArchiveEmpty ReplyKind = "archive_empty"
	ReplyFailed       ReplyKind = "failed"
)

// Reply is the outcome of one interaction. Err is set only for ReplyFailed.
type Reply struct {
	Kind   ReplyKind
	Intent domain.Intent
	Text   string
	Err    error
}

type AssistantConfig struct {
	Locale          domain.Locale
	Format          domain.LedgerFormat
	HistoryTurns    int
	MaxContextBytes int
}

type Assistant struct {
	ledger     *LedgerService
	generator  ports.TextGenerator
	clock      ports.Clock
	classifier domain.Classifier
	cfg        AssistantConfig
	logger     *slog.Logger
}

func NewAssistant(ledger *LedgerService, generator ports.TextGenerator, clock ports.Clock, cfg AssistantConfig, logger *slog.Logger) *Assistant {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Locale.SaveKeywords) == 0 {
		cfg.Locale = domain.PolishLocale
	}
	if cfg.Format == "" {
		cfg.Format = domain.LedgerFormatNotes
	}
	if cfg.MaxContextBytes == 0 {
		cfg.MaxContextBytes = DefaultMaxContextBytes
	}

	return &Assistant{
		ledger:     ledger,
		generator:  generator,
		clock:      clock,
		classifier: domain.NewClassifier(cfg.Locale.SaveKeywords),
		cfg:        cfg,
		logger:     logger,
	}
}

func (a *Assistant) Locale() domain.Locale {
	return a.cfg.Locale
}

// Handle runs one classify, store-or-answer interaction for the session and
// maps any failure to a user-visible reply. It holds the session lock for the
// whole interaction and records every non-empty exchange in the session
// transcript, saved notes included.
func (a *Assistant) Handle(ctx context.Context, session *Session, input string) Reply {
	input = strings.TrimSpace(input)
	if input == "" {
		return Reply{Kind: ReplyFailed, Text: a.cfg.Locale.EmptyInput, Err: domain.ErrEmptyInput}
	}

	intent := a.classifier.Classify(input)

	session.Lock()
	defer session.Unlock()

	var (
		reply Reply
		err   error
	)
	switch intent {
	case domain.IntentSave:
		reply, err = a.save(ctx, session, input)
	default:
		reply, err = a.ask(ctx, session, input)
	}
	if err != nil {
		reply = a.failure(session, intent, err)
	}

	session.recordExchange(Exchange{Input: input, Reply: reply})

	return reply
}

// Save stores input as a dated note regardless of its keywords.
func (a *Assistant) Save(ctx context.Context, session *Session, input string) (Reply, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Reply{}, domain.ErrEmptyInput
	}

	session.Lock()
	defer session.Unlock()

	return a.save(ctx, session, input)
}

// Ask answers input from the ledger regardless of its keywords.
func (a *Assistant) Ask(ctx context.Context, session *Session, input string) (Reply, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Reply{}, domain.ErrEmptyInput
	}

	session.Lock()
	defer session.Unlock()

	return a.ask(ctx, session, input)
}

func (a *Assistant) save(ctx context.Context, session *Session, input string) (Reply, error) {
	entry := domain.NoteEntry{Date: a.clock.Now(), Text: input}.Format(a.cfg.Locale)

	handle, err := a.ledger.Append(ctx, session, entry)
	if err != nil {
		return Reply{}, fmt.Errorf("save note: %w", err)
	}

	a.logger.Info("note saved", "session", session.ID, "handle", handle.String(), "bytes", len(entry))

	return Reply{Kind: ReplySaved, Intent: domain.IntentSave, Text: a.cfg.Locale.NoteSaved}, nil
}

func (a *Assistant) ask(ctx context.Context, session *Session, question string) (Reply, error) {
	notes, err := a.ledger.Read(ctx, session)
	if err != nil {
		return Reply{}, fmt.Errorf("read notes: %w", err)
	}
	if strings.TrimSpace(notes) == "" {
		return Reply{Kind: ReplyArchiveEmpty, Intent: domain.IntentQuery, Text: a.cfg.Locale.ArchiveEmpty}, nil
	}

	prompt := QueryPrompt{Notes: notes, Question: question}
	if a.cfg.Format == domain.LedgerFormatChat {
		prompt.History = domain.LastTurns(session.History(), a.cfg.HistoryTurns)
	}

	answer, err := a.generator.Generate(ctx, prompt.Build(a.cfg.Locale, a.cfg.MaxContextBytes))
	if err != nil {
		return Reply{}, fmt.Errorf("generate answer: %w", err)
	}

	if a.cfg.Format == domain.LedgerFormatChat {
		turn := domain.Turn{User: question, Assistant: answer}
		if _, err := a.ledger.Append(ctx, session, turn.Format(a.cfg.Locale)); err != nil {
			return Reply{}, fmt.Errorf("record conversation turn: %w", err)
		}
		session.appendTurn(turn)
	}

	return Reply{Kind: ReplyAnswered, Intent: domain.IntentQuery, Text: answer}, nil
}

func (a *Assistant) failure(session *Session, intent domain.Intent, err error) Reply {
	a.logger.Error("interaction failed", "session", session.ID, "intent", string(intent), "error", err)

	return Reply{
		Kind:   ReplyFailed,
		Intent: intent,
		Text:   fmt.Sprintf(a.cfg.Locale.RequestFailed, err),
		Err:    err,
	}
}
