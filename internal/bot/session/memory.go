package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
	"github.com/dmitrijs2005/winelog/internal/common"
)

// MemoryStore keeps sessions in a map guarded by one mutex. Sessions are
// small and operations are short, so a single lock is enough; copies go in
// and out so callers never alias the stored value.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]*models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*models.Session)}
}

func (s *MemoryStore) Get(ctx context.Context, userID int64) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *sess
	return &copied, nil
}

func (s *MemoryStore) Create(ctx context.Context, userID int64, createdAt time.Time) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[userID]; ok {
		return nil, common.ErrSessionExists
	}

	sess := &models.Session{
		UserID:    userID,
		Step:      models.StepPhoto,
		CreatedAt: createdAt,
	}
	s.sessions[userID] = sess

	copied := *sess
	return &copied, nil
}

func (s *MemoryStore) Update(ctx context.Context, userID int64, mutate func(*models.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return common.ErrorNotFound
	}
	return mutate(sess)
}

func (s *MemoryStore) Clear(ctx context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[userID]; !ok {
		return false, nil
	}
	delete(s.sessions, userID)
	return true, nil
}

func (s *MemoryStore) ClearOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}
