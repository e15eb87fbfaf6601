package httpapi

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gophquiz/internal/common"
	"github.com/dmitrijs2005/gophquiz/internal/server/materials"
	"github.com/dmitrijs2005/gophquiz/internal/server/models"
	"github.com/dmitrijs2005/gophquiz/internal/server/services"
)

type fakeUser struct {
	models.User
	password string
}

// fakeAuth implements UserService and SessionResolver with in-memory
// users and opaque tokens.
type fakeAuth struct {
	mu       sync.Mutex
	users    map[string]*fakeUser
	tokens   map[string]*models.Session
	progress *fakeProgress
	nextID   int64
	nextTok  int

	registerErr error
	loginErr    error
	logoutErr   error
	currentErr  error
	profileErr  error
}

func newFakeAuth(p *fakeProgress) *fakeAuth {
	return &fakeAuth{users: map[string]*fakeUser{}, tokens: map[string]*models.Session{}, progress: p}
}

func (f *fakeAuth) Register(ctx context.Context, in services.RegisterInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return 0, f.registerErr
	}
	if in.FullName == "" || in.Email == "" || in.Nickname == "" || in.Password == "" {
		return 0, common.ErrorValidation
	}
	for _, u := range f.users {
		if u.Nickname == in.Nickname || u.Email == in.Email {
			return 0, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	f.users[in.Nickname] = &fakeUser{
		User:     models.User{ID: f.nextID, FullName: in.FullName, Email: in.Email, Nickname: in.Nickname},
		password: in.Password,
	}
	return f.nextID, nil
}

func (f *fakeAuth) Login(ctx context.Context, previousToken, nickname, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return "", f.loginErr
	}
	u, ok := f.users[nickname]
	if !ok || u.password != password {
		return "", common.ErrorInvalidCredentials
	}
	delete(f.tokens, previousToken)
	f.nextTok++
	tok := fmt.Sprintf("tok-%d", f.nextTok)
	f.tokens[tok] = &models.Session{ID: tok, UserID: u.ID, Nickname: u.Nickname, ExpiresAt: time.Now().Add(time.Hour)}
	return tok, nil
}

func (f *fakeAuth) Logout(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return f.logoutErr
}

func (f *fakeAuth) Profile(ctx context.Context, userID int64) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	for _, u := range f.users {
		if u.ID == userID {
			return &models.Profile{
				ID: u.ID, FullName: u.FullName, Email: u.Email, Nickname: u.Nickname,
				Progress: f.progress.snapshot(userID),
			}, nil
		}
	}
	return nil, common.ErrorUnauthorized
}

func (f *fakeAuth) Current(ctx context.Context, token string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	s, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return s, nil
}

func (f *fakeAuth) TTL() time.Duration { return time.Hour }

type fakeProgress struct {
	mu     sync.Mutex
	scores map[int64]map[string]int
	err    error
}

func newFakeProgress() *fakeProgress {
	return &fakeProgress{scores: map[int64]map[string]int{}}
}

func (f *fakeProgress) UpdateProgress(ctx context.Context, userID int64, subject string, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if subject == "" {
		return common.ErrorValidation
	}
	m, ok := f.scores[userID]
	if !ok {
		m = map[string]int{}
		f.scores[userID] = m
	}
	if old, ok := m[subject]; !ok || score > old {
		m[subject] = score
	}
	return nil
}

func (f *fakeProgress) snapshot(userID int64) map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int{}
	for k, v := range f.scores[userID] {
		out[k] = v
	}
	return out
}

type fakeCatalog struct {
	summaries map[string]models.CourseSummary
	questions map[string][]models.Question
	err       error

	// slow listing: entered is signalled, then the call sleeps for delay
	entered  chan struct{}
	delay    time.Duration
	finished atomic.Bool
}

func (f *fakeCatalog) ListCourseSummaries(ctx context.Context) (map[string]models.CourseSummary, error) {
	if f.entered != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
		f.finished.Store(true)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.summaries, nil
}

func (f *fakeCatalog) GetQuestions(ctx context.Context, subject string) ([]models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	q, ok := f.questions[subject]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return q, nil
}

type fakeMaterials struct {
	files map[string]*materials.Location
	err   error
}

func (f *fakeMaterials) Locate(ctx context.Context, name string) (*materials.Location, error) {
	if f.err != nil {
		return nil, f.err
	}
	loc, ok := f.files[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return loc, nil
}
