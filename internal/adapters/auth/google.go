package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bnema/notesgit/internal/domain"
	"github.com/bnema/notesgit/internal/ports"
	"golang.org/x/net/http2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
)

var DriveScopes = []string{gdrive.DriveScope}

// LoadClientConfig reads an OAuth client secret file ("credentials.json")
// downloaded from the Google Cloud console.
func LoadClientConfig(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("oauth client file %s: %w", path, domain.ErrMissingCredentials)
		}
		return nil, fmt.Errorf("read oauth client file: %w", err)
	}

	cfg, err := google.ConfigFromJSON(data, DriveScopes...)
	if err != nil {
		return nil, fmt.Errorf("parse oauth client file: %w", err)
	}

	return cfg, nil
}

// ServiceAccountTokenSource builds a token source from a service account key.
// Keys pasted into environment variables often carry a literal "\n" in the
// private key, which is turned back into newlines.
func ServiceAccountTokenSource(ctx context.Context, key []byte) (oauth2.TokenSource, error) {
	normalized, err := normalizeServiceAccountKey(key)
	if err != nil {
		return nil, err
	}

	jwtConfig, err := google.JWTConfigFromJSON(normalized, DriveScopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}

	return jwtConfig.TokenSource(ctx), nil
}

func normalizeServiceAccountKey(key []byte) ([]byte, error) {
	var fields map[string]any
	if err := json.Unmarshal(key, &fields); err != nil {
		return nil, fmt.Errorf("decode service account key: %w", err)
	}

	privateKey, ok := fields["private_key"].(string)
	if !ok || privateKey == "" {
		return nil, fmt.Errorf("service account key has no private_key: %w", domain.ErrMissingCredentials)
	}
	fields["private_key"] = strings.ReplaceAll(privateKey, `\n`, "\n")

	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode service account key: %w", err)
	}

	return normalized, nil
}

// UserTokenSource returns a refreshing token source for the token saved by
// "auth login". Refreshed tokens are written back to the store.
func UserTokenSource(ctx context.Context, cfg *oauth2.Config, store ports.TokenStore) (oauth2.TokenSource, error) {
	token, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, fmt.Errorf("no saved google token, run \"notesgit auth login\": %w", domain.ErrMissingCredentials)
		}
		return nil, fmt.Errorf("load saved google token: %w", err)
	}

	return &persistingTokenSource{
		ctx:     ctx,
		base:    oauth2.ReuseTokenSource(token, cfg.TokenSource(ctx, token)),
		store:   store,
		current: token,
	}, nil
}

type persistingTokenSource struct {
	mu      sync.Mutex
	ctx     context.Context
	base    oauth2.TokenSource
	store   ports.TokenStore
	current *oauth2.Token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	if s.current == nil || token.AccessToken != s.current.AccessToken {
		if err := s.store.Save(s.ctx, token); err != nil {
			return nil, fmt.Errorf("save refreshed google token: %w", err)
		}
		s.current = token
	}

	return token, nil
}

// NewHTTPClient returns an authorized client over an HTTP/2 capable transport.
func NewHTTPClient(ts oauth2.TokenSource, timeout time.Duration) (*http.Client, error) {
	transport, err := NewTransport()
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: &oauth2.Transport{Source: ts, Base: transport},
		Timeout:   timeout,
	}, nil
}

func NewTransport() (*http.Transport, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	if err := configureHTTP2(transport); err != nil {
		return nil, err
	}

	return transport, nil
}

func configureHTTP2(transport *http.Transport) error {
	if err := http2.ConfigureTransport(transport); err != nil {
		return fmt.Errorf("configure http2 transport: %w", err)
	}

	return nil
}
