package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Session identifies one user workflow session. All cross-request mutable
// flags ("which courses has this session enrolled in", "is an exam being
// taken") are scoped to a Session, never to process-wide state.
type Session struct {
	ID    string
	Actor string
}

// SessionStore keeps per-session workflow state in Redis with a TTL. The
// state is a convenience cache only: reads fail open and every decision that
// matters is re-arbitrated by the ledger.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewSessionStore builds a session store instance.
func NewSessionStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &SessionStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "session_store").Logger(),
	}
}

func (s *SessionStore) enrolledKey(sessionID string) string {
	return fmt.Sprintf("session:%s:enrolled", sessionID)
}

func (s *SessionStore) examKey(sessionID string, courseID uint64) string {
	return fmt.Sprintf("session:%s:exam:%d", sessionID, courseID)
}

// MarkEnrolled records a confirmed enrollment in the session cache. Called
// only after the ledger write is confirmed, never speculatively.
func (s *SessionStore) MarkEnrolled(ctx context.Context, session Session, courseID uint64) {
	if s == nil || s.client == nil {
		return
	}

	key := s.enrolledKey(session.ID)
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, key, courseID)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to cache enrollment")
	}
}

// IsEnrolled reports whether this session already saw a confirmed enrollment
// for the course. A store error reads as "unknown", letting the ledger decide.
func (s *SessionStore) IsEnrolled(ctx context.Context, session Session, courseID uint64) bool {
	if s == nil || s.client == nil {
		return false
	}

	member, err := s.client.SIsMember(ctx, s.enrolledKey(session.ID), courseID).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to read enrollment cache")
		}
		return false
	}

	return member
}

// SetExamInProgress flags an open exam attempt for the session.
func (s *SessionStore) SetExamInProgress(ctx context.Context, session Session, courseID uint64) {
	if s == nil || s.client == nil {
		return
	}

	if err := s.client.Set(ctx, s.examKey(session.ID, courseID), "1", s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to flag exam in progress")
	}
}

// ExamInProgress reports whether the session has an open attempt for the course.
func (s *SessionStore) ExamInProgress(ctx context.Context, session Session, courseID uint64) bool {
	if s == nil || s.client == nil {
		return false
	}

	value, err := s.client.Get(ctx, s.examKey(session.ID, courseID)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to read exam flag")
		}
		return false
	}

	return value == "1"
}

// ClearExamInProgress removes the open-attempt flag after grading or abandon.
func (s *SessionStore) ClearExamInProgress(ctx context.Context, session Session, courseID uint64) {
	if s == nil || s.client == nil {
		return
	}

	if err := s.client.Del(ctx, s.examKey(session.ID, courseID)).Err(); err != nil {
		s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to clear exam flag")
	}
}
