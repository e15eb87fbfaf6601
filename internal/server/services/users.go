// Package services holds the server business logic: registration and login,
// session lifecycle and quiz progress.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophquiz/internal/common"
	"github.com/dmitrijs2005/gophquiz/internal/dbx"
	"github.com/dmitrijs2005/gophquiz/internal/server/config"
	"github.com/dmitrijs2005/gophquiz/internal/server/models"
	"github.com/dmitrijs2005/gophquiz/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	FullName string
	Email    string
	Nickname string
	Password string
}

func (in RegisterInput) valid() bool {
	return strings.TrimSpace(in.FullName) != "" &&
		strings.TrimSpace(in.Email) != "" &&
		strings.TrimSpace(in.Nickname) != "" &&
		in.Password != ""
}

// UserService registers users, checks credentials and builds profiles.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *SessionManager
	bcryptCost  int
	dummyHash   []byte
}

// generateHash is swapped in tests.
var generateHash = bcrypt.GenerateFromPassword

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, sessions *SessionManager, cfg *config.Config) (*UserService, error) {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// compared against when the nickname is unknown, so both login failures
	// cost one bcrypt comparison
	dummy, err := generateHash([]byte("gophquiz-unknown-user"), cost)
	if err != nil {
		return nil, fmt.Errorf("dummy password hash: %w", err)
	}

	return &UserService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
		bcryptCost:  cost,
		dummyHash:   dummy,
	}, nil
}

// Register creates a user and returns its id. It does not log the user in.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (int64, error) {
	if !in.valid() {
		return 0, common.ErrorValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return 0, common.ErrorValidation
		}
		return 0, common.ErrorInternal
	}

	user := &models.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.TrimSpace(in.Email),
		Nickname:     strings.TrimSpace(in.Nickname),
		PasswordHash: string(hash),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		exists, err := repo.ExistsByNicknameOrEmail(ctx, user.Nickname, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrorAlreadyExists
		}
		user, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return 0, common.ErrorAlreadyExists
		}
		return 0, common.ErrorInternal
	}

	return user.ID, nil
}

// Authenticate returns the user for valid credentials and
// common.ErrorInvalidCredentials otherwise, whatever the cause.
func (s *UserService) Authenticate(ctx context.Context, nickname, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByNickname(ctx, strings.TrimSpace(nickname))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !VerifyPassword(user.PasswordHash, password) {
		return nil, common.ErrorInvalidCredentials
	}
	return user, nil
}

// Login checks the credentials and replaces the session behind
// previousToken with a new one. It returns the new session token.
func (s *UserService) Login(ctx context.Context, previousToken, nickname, password string) (string, error) {
	user, err := s.Authenticate(ctx, nickname, password)
	if err != nil {
		return "", err
	}
	return s.sessions.Start(ctx, previousToken, user.ID, user.Nickname)
}

// Logout ends the session behind token.
func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.sessions.End(ctx, token)
}

// SessionStatus reports whether token belongs to a live session.
func (s *UserService) SessionStatus(ctx context.Context, token string) bool {
	_, err := s.sessions.Current(ctx, token)
	return err == nil
}

// Profile returns the public profile of userID with its progress. A user
// that no longer exists is reported as common.ErrorUnauthorized.
func (s *UserService) Profile(ctx context.Context, userID int64) (*models.Profile, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	progress, err := s.repomanager.Progress(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &models.Profile{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Nickname: user.Nickname,
		Progress: progress,
	}, nil
}

// VerifyPassword reports whether candidate matches the bcrypt storedHash.
func VerifyPassword(storedHash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate)) == nil
}
