package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bnema/notesgit/internal/domain"
	"github.com/bnema/notesgit/internal/ports"
)

// LedgerService implements the read-modify-write protocol over the single
// named ledger. Appends are not atomic across sessions: two sessions appending
// at the same time can lose one update.
type LedgerService struct {
	store  ports.LedgerStore
	name   string
	logger *slog.Logger
}

func NewLedgerService(store ports.LedgerStore, name string, logger *slog.Logger) *LedgerService {
	if name == "" {
		name = domain.DefaultLedgerName
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LedgerService{
		store:  store,
		name:   name,
		logger: logger,
	}
}

func (s *LedgerService) Name() string {
	return s.name
}

// Resolve returns the session's cached handle or looks the ledger up by name.
// A zero handle with a nil error means the ledger does not exist yet; that
// result is not cached so a later call can see a ledger created elsewhere.
func (s *LedgerService) Resolve(ctx context.Context, session *Session) (domain.LedgerHandle, error) {
	if handle := session.LedgerHandle(); !handle.IsZero() {
		return handle, nil
	}

	handles, err := s.store.Find(ctx, s.name)
	if err != nil {
		return "", fmt.Errorf("find ledger %q: %w", s.name, err)
	}
	if len(handles) == 0 {
		return "", nil
	}
	if len(handles) > 1 {
		s.logger.Warn("several ledgers share the same name, using the first one",
			"name", s.name,
			"matches", len(handles),
			"handle", handles[0].String(),
		)
	}

	session.setHandle(handles[0])
	s.logger.Debug("ledger resolved", "name", s.name, "handle", handles[0].String(), "session", session.ID)

	return handles[0], nil
}

// Read returns the full ledger text. An absent ledger reads as empty text.
func (s *LedgerService) Read(ctx context.Context, session *Session) (string, error) {
	handle, err := s.Resolve(ctx, session)
	if err != nil {
		return "", err
	}

	return s.download(ctx, handle)
}

// Append adds entry to the ledger and returns the handle it was written to.
// The ledger is created with entry as its only content when it does not exist.
func (s *LedgerService) Append(ctx context.Context, session *Session, entry string) (domain.LedgerHandle, error) {
	handle, err := s.Resolve(ctx, session)
	if err != nil {
		return "", err
	}

	if handle.IsZero() {
		return s.create(ctx, session, entry)
	}

	existing, err := s.download(ctx, handle)
	if err != nil {
		return "", err
	}

	err = s.store.Replace(ctx, handle, domain.JoinLedger(existing, entry))
	if errors.Is(err, domain.ErrLedgerNotFound) {
		s.logger.Warn("cached ledger disappeared, creating a new one", "name", s.name, "handle", handle.String())
		return s.create(ctx, session, entry)
	}
	if err != nil {
		return "", fmt.Errorf("replace ledger %q: %w", s.name, err)
	}

	return handle, nil
}

func (s *LedgerService) download(ctx context.Context, handle domain.LedgerHandle) (string, error) {
	if handle.IsZero() {
		return "", nil
	}

	content, err := s.store.Download(ctx, handle)
	if errors.Is(err, domain.ErrLedgerNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("download ledger %q: %w", s.name, err)
	}

	return content, nil
}

func (s *LedgerService) create(ctx context.Context, session *Session, entry string) (domain.LedgerHandle, error) {
	handle, err := s.store.Create(ctx, s.name, entry)
	if err != nil {
		return "", fmt.Errorf("create ledger %q: %w", s.name, err)
	}

	session.setHandle(handle)
	s.logger.Info("ledger created", "name", s.name, "handle", handle.String())

	return handle, nil
}
