package ports

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenStore persists the user-delegated OAuth token between runs. Load
// returns domain.ErrTokenNotFound when nothing has been saved yet.
type TokenStore interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, token *oauth2.Token) error
	Delete(ctx context.Context) error
}
