package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophquiz/internal/common"
	"github.com/dmitrijs2005/gophquiz/internal/logging"
	"github.com/dmitrijs2005/gophquiz/internal/server/events"
	"github.com/dmitrijs2005/gophquiz/internal/server/repositories/repomanager"
)

// ProgressService keeps the best score per user and subject.
type ProgressService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	publisher   events.Publisher
	log         logging.Logger
	now         func() time.Time
}

func NewProgressService(db *sql.DB, m repomanager.RepositoryManager, p events.Publisher, l logging.Logger) *ProgressService {
	return &ProgressService{
		db:          db,
		repomanager: m,
		publisher:   p,
		log:         l.With("module", "progress_service"),
		now:         time.Now,
	}
}

func (s *ProgressService) GetProgress(ctx context.Context, userID int64) (map[string]int, error) {
	if userID == 0 {
		return nil, common.ErrorUnauthorized
	}
	progress, err := s.repomanager.Progress(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return progress, nil
}

// UpdateProgress stores score unless an equal or better score is already
// recorded; that case is a successful no-op. A stored change is announced
// to the publisher, whose failures are only logged.
func (s *ProgressService) UpdateProgress(ctx context.Context, userID int64, subject string, score int) error {
	if userID == 0 {
		return common.ErrorUnauthorized
	}
	if strings.TrimSpace(subject) == "" {
		return common.ErrorValidation
	}

	changed, err := s.repomanager.Progress(s.db).SaveBest(ctx, userID, subject, score)
	if err != nil {
		s.log.Error(ctx, "save progress failed", "user_id", userID, "subject", subject, "error", err)
		return common.ErrorInternal
	}
	if !changed {
		return nil
	}

	ev := events.ProgressEvent{UserID: userID, Subject: subject, Score: score, OccurredAt: s.now().UTC()}
	if err := s.publisher.PublishProgress(ctx, ev); err != nil {
		s.log.Warn(ctx, "publish progress event failed", "user_id", userID, "subject", subject, "error", err)
	}
	return nil
}
