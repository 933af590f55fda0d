package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ventascli/internal/client/models"
	"ventascli/internal/dbx"
)

const (
	keyToken   = "token"
	keyAccount = "account"
)

// Session holds the signed-in user's token and profile. It is written only
// by SignIn/SignOut and read by every outgoing request, so reads take a
// shared lock and callers never see a half-updated pair.
type Session struct {
	db *sql.DB

	mu      sync.RWMutex
	token   string
	account *models.Account
}

// Load restores the session from the cache database. A missing token just
// means signed out; it is not an error.
func Load(ctx context.Context, db *sql.DB) (*Session, error) {
	s := &Session{db: db}
	store := NewSQLiteStore(db)

	tok, err := store.Get(ctx, keyToken)
	if err != nil {
		return nil, err
	}
	s.token = string(tok)

	raw, err := store.Get(ctx, keyAccount)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		var acc models.Account
		if err := json.Unmarshal(raw, &acc); err == nil {
			s.account = &acc
		}
	}
	return s, nil
}

// Token returns the current bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Account returns a copy of the cached profile, or nil when signed out.
func (s *Session) Account() *models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return nil
	}
	acc := *s.account
	return &acc
}

// SignIn persists token and profile together, then swaps the in-memory
// state. The two writes share a transaction so a crash cannot leave a token
// without its profile.
func (s *Session) SignIn(ctx context.Context, token string, acc models.Account) error {
	raw, err := json.Marshal(acc)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		store := NewSQLiteStore(tx)
		if err := store.Set(ctx, keyToken, []byte(token)); err != nil {
			return err
		}
		return store.Set(ctx, keyAccount, raw)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.account = &acc
	s.mu.Unlock()
	return nil
}

// SignOut wipes the persisted state and the in-memory token.
func (s *Session) SignOut(ctx context.Context) error {
	if err := NewSQLiteStore(s.db).Clear(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.token = ""
	s.account = nil
	s.mu.Unlock()
	return nil
}

// TokenExpiry reads the exp claim from the bearer token without verifying
// the signature (the server owns verification; the client only uses this to
// tell the user their session has lapsed). ok is false when there is no
// token or it carries no parseable expiry.
func (s *Session) TokenExpiry() (time.Time, bool) {
	tok := s.Token()
	if tok == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
