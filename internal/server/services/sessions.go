package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophquiz/internal/common"
	"github.com/dmitrijs2005/gophquiz/internal/server/auth"
	"github.com/dmitrijs2005/gophquiz/internal/server/config"
	"github.com/dmitrijs2005/gophquiz/internal/server/models"
	"github.com/dmitrijs2005/gophquiz/internal/server/repositories/sessions"
)

// sessionIDBytes is the entropy of a session id before hex encoding.
const sessionIDBytes = 32

// SessionManager binds signed cookie tokens to server-side sessions.
// A token is Anonymous until Start and again after End or expiry.
type SessionManager struct {
	store  sessions.Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	newID  func() (string, error)
}

func NewSessionManager(store sessions.Repository, cfg *config.Config) *SessionManager {
	return &SessionManager{
		store:  store,
		secret: []byte(cfg.SecretKey),
		ttl:    cfg.SessionTTL,
		now:    time.Now,
		newID:  func() (string, error) { return common.MakeRandHexString(sessionIDBytes) },
	}
}

// TTL is the lifetime of new sessions.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Start drops the session behind previousToken, if any, and opens a new
// one for the user. It returns the token to hand to the client.
func (m *SessionManager) Start(ctx context.Context, previousToken string, userID int64, nickname string) (string, error) {
	if err := m.End(ctx, previousToken); err != nil {
		return "", err
	}

	id, err := m.newID()
	if err != nil {
		return "", common.ErrorInternal
	}

	s := &models.Session{
		ID:        id,
		UserID:    userID,
		Nickname:  nickname,
		ExpiresAt: m.now().Add(m.ttl),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return "", common.ErrorInternal
	}

	token, err := auth.GenerateToken(id, m.secret, m.ttl)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// End removes the session behind token, expired or not. Empty, malformed
// and unknown tokens are ignored.
func (m *SessionManager) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	id, err := auth.SessionIDIgnoringExpiry(token, m.secret)
	if err != nil {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// Current returns the live session behind token or common.ErrorUnauthorized.
func (m *SessionManager) Current(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}
	id, err := auth.GetSessionIDFromToken(token, m.secret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			m.dropExpired(ctx, token)
		}
		return nil, common.ErrorUnauthorized
	}

	s, err := m.store.Find(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if s.Expired(m.now()) {
		_ = m.store.Delete(ctx, id)
		return nil, common.ErrorUnauthorized
	}
	return s, nil
}

// dropExpired removes the row behind a cookie whose exp claim has passed.
// The cookie expires no later than its row, so this is where expired rows
// of returning clients go away.
func (m *SessionManager) dropExpired(ctx context.Context, token string) {
	id, err := auth.SessionIDIgnoringExpiry(token, m.secret)
	if err != nil {
		return
	}
	_ = m.store.Delete(ctx, id)
}
