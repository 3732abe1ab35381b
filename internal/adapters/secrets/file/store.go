package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/notesgit/internal/domain"
	"github.com/bnema/notesgit/internal/ports"
	"golang.org/x/oauth2"
)

const (
	storeDirMode  = 0o700
	tokenFileMode = 0o600
	tokenTempGlob = ".token-*.json.tmp"
)

// TokenStore keeps the Google OAuth token as JSON in a single file.
type TokenStore struct {
	path string
	mu   sync.RWMutex
}

var _ ports.TokenStore = (*TokenStore)(nil)

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: filepath.Clean(path)}
}

func (s *TokenStore) Path() string {
	return s.path
}

func (s *TokenStore) Save(ctx context.Context, token *oauth2.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if token == nil {
		return errors.New("token is nil")
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, storeDirMode); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tokenTempGlob)
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	tempName := tempFile.Name()
	defer func() { _ = os.Remove(tempName) }()

	if err := tempFile.Chmod(tokenFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp token file: %w", err)
	}
	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp token file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp token file: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("write token file %s: %w", s.path, err)
	}

	return nil
}

func (s *TokenStore) Load(ctx context.Context) (*oauth2.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("token file %s: %w", s.path, domain.ErrTokenNotFound)
		}
		return nil, fmt.Errorf("read token file %s: %w", s.path, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("decode token file %s: %w", s.path, err)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, fmt.Errorf("token file %s is empty: %w", s.path, domain.ErrTokenNotFound)
	}

	return &token, nil
}

func (s *TokenStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete token file %s: %w", s.path, err)
	}

	return nil
}
