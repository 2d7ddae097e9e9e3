// Package store persists workout sessions and the ordered session index on
// top of a generic key-value storage.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/balkashynov/wrkout/internal/logging"
	"github.com/balkashynov/wrkout/internal/models"
)

// ErrStorageFailure wraps every error raised by the underlying storage
var ErrStorageFailure = errors.New("storage failure")

const (
	// IndexKey holds the session IDs in creation order
	IndexKey = "workout_session_index"

	sessionKeyPrefix = "workout_session_"
)

// Storage is the key-value capability sessions are persisted through
type Storage interface {
	Save(ctx context.Context, key string, value any) error
	Retrieve(ctx context.Context, key string, out any) (bool, error)
}

// SessionStore saves individual session records and maintains the index.
// It does not interpret session semantics.
type SessionStore struct {
	storage Storage
	logger  *logging.Logger
	mu      sync.Mutex // serializes index read-modify-write
}

// NewSessionStore creates a SessionStore over storage
func NewSessionStore(storage Storage, logger *logging.Logger) *SessionStore {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &SessionStore{
		storage: storage,
		logger:  logger.WithComponent("session_store"),
	}
}

// SessionKey returns the storage key of the record for id
func SessionKey(id string) string {
	return sessionKeyPrefix + id
}

func storageFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}

// Save writes the full record for session, overwriting any previous value,
// and appends its ID to the index the first time it is seen. Index
// maintenance failures are logged and do not fail the save.
func (s *SessionStore) Save(ctx context.Context, session models.Session) error {
	if err := s.storage.Save(ctx, SessionKey(session.ID), session); err != nil {
		return storageFailure("save session "+session.ID, err)
	}
	s.logger.Info("saved workout session", "session_id", session.ID, "status", session.Status)

	s.addToIndexIfNeeded(ctx, session.ID)
	return nil
}

// Update saves an existing session
func (s *SessionStore) Update(ctx context.Context, session models.Session) error {
	if err := s.Save(ctx, session); err != nil {
		return err
	}
	s.logger.Debug("updated workout session", "session_id", session.ID)
	return nil
}

func (s *SessionStore) addToIndexIfNeeded(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.loadIndex(ctx)
	if err != nil {
		s.logger.Error("failed to check session index", "session_id", id, "error", err)
		return
	}
	if slices.Contains(ids, id) {
		return
	}

	ids = append(ids, id)
	if err := s.storage.Save(ctx, IndexKey, ids); err != nil {
		s.logger.Error("failed to append session to index", "session_id", id, "error", err)
		return
	}
	s.logger.Info("appended session to index", "session_id", id, "index_size", len(ids))
}

func (s *SessionStore) loadIndex(ctx context.Context) ([]string, error) {
	var ids []string
	if _, err := s.storage.Retrieve(ctx, IndexKey, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetAll returns every indexed session in creation order, each resolved to
// its latest record. Returns an empty slice when nothing has been saved.
func (s *SessionStore) GetAll(ctx context.Context) ([]models.Session, error) {
	ids, err := s.loadIndex(ctx)
	if err != nil {
		return nil, storageFailure("load session index", err)
	}

	sessions := make([]models.Session, 0, len(ids))
	for _, id := range ids {
		session, found, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			s.logger.Warn("indexed session has no record", "session_id", id)
			continue
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// GetByID returns the record for id. found is false when id is unknown.
func (s *SessionStore) GetByID(ctx context.Context, id string) (session models.Session, found bool, err error) {
	found, err = s.storage.Retrieve(ctx, SessionKey(id), &session)
	if err != nil {
		return models.Session{}, false, storageFailure("load session "+id, err)
	}
	return session, found, nil
}
