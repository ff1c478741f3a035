package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medisync/medisync-go/pkg/logging"
)

// ErrNotAuthenticated means no valid token is held; callers force a
// re-login.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// Session is the explicit lifecycle around the stored credentials:
// Init at startup, Set on login, Clear on logout or invalid token. It
// implements the client's TokenSource.
type Session struct {
	store  Store
	logger *logging.Logger

	mu    sync.RWMutex
	creds *Credentials
}

func New(store Store, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.Default()
	}
	return &Session{store: store, logger: logger}
}

// Init loads the persisted credentials and validates the token. A
// malformed or expired token is cleared from the store so the next
// startup begins unauthenticated instead of retrying a dead token.
func (s *Session) Init(ctx context.Context) error {
	creds, err := s.store.Load(ctx)
	if errors.Is(err, ErrNoCredentials) {
		return nil
	}
	if err != nil {
		return err
	}
	if !ValidToken(creds.Token) {
		s.logger.Warn("stored token is malformed or expired, clearing session")
		return s.Clear(ctx)
	}
	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
	return nil
}

// Set stores the credentials from a fresh login or signup.
func (s *Session) Set(ctx context.Context, creds *Credentials) error {
	if !ValidToken(creds.Token) {
		return ErrNotAuthenticated
	}
	if err := s.store.Save(ctx, creds); err != nil {
		return err
	}
	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
	return nil
}

// Clear drops the credentials from memory and the store.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.creds = nil
	s.mu.Unlock()
	return s.store.Clear(ctx)
}

// Authenticated reports whether a valid token is held.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds != nil && ValidToken(s.creds.Token)
}

// Token returns the bearer token for outgoing requests.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil || !ValidToken(s.creds.Token) {
		return "", ErrNotAuthenticated
	}
	return s.creds.Token, nil
}

// Credentials returns a copy of the held credentials, if any.
func (s *Session) Credentials() (Credentials, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return Credentials{}, false
	}
	return *s.creds, true
}

// ValidToken checks the stored token shape: exactly three dot-separated
// segments, and an unexpired exp claim when one is present. The client
// holds no signing key, so this is a shape check only; the server
// remains the authority on token validity.
func ValidToken(token string) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}
	for _, segment := range strings.Split(token, ".") {
		if segment == "" {
			return false
		}
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		// Opaque three-segment token; shape is all we can check.
		return true
	}
	return claims.ExpiresAt == nil || claims.ExpiresAt.After(time.Now())
}
