package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/notesgit/internal/domain"
	"github.com/bnema/notesgit/internal/ports"
)

const (
	ledgerDirMode   = 0o700
	ledgerFileMode  = 0o600
	tempFilePattern = ".ledger-*.tmp"
)

var ErrLedgerExists = errors.New("ledger already exists")

// Store keeps ledgers as files in a single directory. The handle of a ledger
// is its file name.
type Store struct {
	root string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	rootLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.LedgerStore = (*Store)(nil)

func NewStore(root string) (*Store, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve ledger directory: %w", err)
	}
	absRoot = filepath.Clean(absRoot)

	return &Store{root: absRoot, mu: lockForRoot(absRoot)}, nil
}

func (s *Store) Root() string {
	return s.root
}

func (s *Store) Find(ctx context.Context, name string) ([]domain.LedgerHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.pathFor(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat ledger %q: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}

	return []domain.LedgerHandle{domain.LedgerHandle(filepath.Base(path))}, nil
}

func (s *Store) Download(ctx context.Context, handle domain.LedgerHandle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.pathFor(handle.String())
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLedgerNotFound, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("read ledger %q: %w", handle, domain.ErrLedgerNotFound)
		}
		return "", fmt.Errorf("read ledger %q: %w", handle, err)
	}

	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

func (s *Store) Create(ctx context.Context, name string, content string) (domain.LedgerHandle, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.pathFor(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("create ledger %q: %w", name, ErrLedgerExists)
	}

	if err := s.writeFile(path, content); err != nil {
		return "", err
	}

	return domain.LedgerHandle(filepath.Base(path)), nil
}

func (s *Store) Replace(ctx context.Context, handle domain.LedgerHandle, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathFor(handle.String())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrLedgerNotFound, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("replace ledger %q: %w", handle, domain.ErrLedgerNotFound)
		}
		return fmt.Errorf("stat ledger %q: %w", handle, err)
	}

	return s.writeFile(path, content)
}

func (s *Store) pathFor(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errors.New("ledger name is empty")
	}
	if strings.ContainsAny(trimmed, `/\`) || trimmed == "." || trimmed == ".." {
		return "", fmt.Errorf("invalid ledger name %q", name)
	}

	return filepath.Join(s.root, trimmed), nil
}

// writeFile replaces path through a temp file and a rename so readers never
// see a partially written ledger.
func (s *Store) writeFile(path string, content string) error {
	if err := os.MkdirAll(s.root, ledgerDirMode); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}

	tempFile, err := os.CreateTemp(s.root, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.WriteString(content); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp ledger file: %w", err)
	}

	if err := tempFile.Chmod(ledgerFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp ledger file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp ledger file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}

	cleanup = false
	return nil
}

func lockForRoot(root string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := rootLockMap[root]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	rootLockMap[root] = mu
	return mu
}
