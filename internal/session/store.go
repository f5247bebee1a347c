// Package session keeps the caller's access token in the substrate, where the
// remote gateway picks it up for every outbound request.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/fms/internal/substrate"
)

// TokenKey is the substrate key holding the bearer token.
const TokenKey = "fms_access_token"

// Store reads and writes the session token.
type Store struct {
	sub substrate.Substrate
}

// NewStore creates a token store over sub.
func NewStore(sub substrate.Substrate) *Store {
	return &Store{sub: sub}
}

// Token returns the stored token. ok is false when none is stored or the
// substrate cannot be read.
func (s *Store) Token(ctx context.Context) (string, bool) {
	data, err := s.sub.Get(ctx, TokenKey)
	if err != nil {
		return "", false
	}
	tok := strings.TrimSpace(string(data))
	return tok, tok != ""
}

// Save stores token, replacing any previous one.
func (s *Store) Save(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("session: empty token")
	}
	if err := s.sub.Set(ctx, TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("session: save token: %w", err)
	}
	return nil
}

// Clear removes the token. An unavailable substrate has nothing to clear.
func (s *Store) Clear(ctx context.Context) error {
	err := s.sub.Set(ctx, TokenKey, nil)
	if err != nil && !errors.Is(err, substrate.ErrUnavailable) {
		return fmt.Errorf("session: clear token: %w", err)
	}
	return nil
}
