package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophquiz/internal/common"
	"github.com/dmitrijs2005/gophquiz/internal/dbx"
	"github.com/dmitrijs2005/gophquiz/internal/server/events"
	"github.com/dmitrijs2005/gophquiz/internal/server/models"
	progressrepo "github.com/dmitrijs2005/gophquiz/internal/server/repositories/progress"
	sessionsrepo "github.com/dmitrijs2005/gophquiz/internal/server/repositories/sessions"
	usersrepo "github.com/dmitrijs2005/gophquiz/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeUsersRepo keeps users in memory and enforces unique nickname/email
// the way the database constraints would.
type fakeUsersRepo struct {
	mu     sync.Mutex
	byID   map[int64]*models.User
	nextID int64

	existsErr error
	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, x := range f.byID {
		if x.Nickname == u.Nickname || x.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	f.byID[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeUsersRepo) ExistsByNicknameOrEmail(ctx context.Context, nickname, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, x := range f.byID {
		if x.Nickname == nickname || x.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsersRepo) GetUserByNickname(ctx context.Context, nickname string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, x := range f.byID {
		if x.Nickname == nickname {
			cp := *x
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	x, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *x
	return &cp, nil
}

// fakeProgressRepo applies the same keep-the-best rule as the SQL upsert.
type fakeProgressRepo struct {
	mu     sync.Mutex
	scores map[int64]map[string]int

	saveErr error
	listErr error
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{scores: map[int64]map[string]int{}}
}

func (f *fakeProgressRepo) SaveBest(ctx context.Context, userID int64, subject string, score int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return false, f.saveErr
	}
	m, ok := f.scores[userID]
	if !ok {
		m = map[string]int{}
		f.scores[userID] = m
	}
	old, ok := m[subject]
	if ok && score <= old {
		return false, nil
	}
	m[subject] = score
	return true, nil
}

func (f *fakeProgressRepo) ListByUser(ctx context.Context, userID int64) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := map[string]int{}
	for k, v := range f.scores[userID] {
		out[k] = v
	}
	return out, nil
}

type fakeSessionsRepo struct {
	mu   sync.Mutex
	data map[string]*models.Session

	createErr error
	findErr   error
	deleteErr error
}

func newFakeSessionsRepo() *fakeSessionsRepo {
	return &fakeSessionsRepo{data: map[string]*models.Session{}}
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *s
	f.data[s.ID] = &cp
	return nil
}

func (f *fakeSessionsRepo) Find(ctx context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	s, ok := f.data[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionsRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.data, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakeProgressRepo
	s *fakeSessionsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), p: newFakeProgressRepo(), s: newFakeSessionsRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Progress(db dbx.DBTX) progressrepo.Repository { return m.p }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository { return m.s }

type fakePublisher struct {
	mu   sync.Mutex
	sent []events.ProgressEvent
	err  error
}

func (f *fakePublisher) PublishProgress(ctx context.Context, ev events.ProgressEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, ev)
	return nil
}

func (f *fakePublisher) Close() error { return nil }
