package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/skillified/skillified-api/internal/dto"
	"github.com/skillified/skillified-api/internal/events"
	"github.com/skillified/skillified-api/internal/ledger"
	"github.com/skillified/skillified-api/internal/models"
	"github.com/skillified/skillified-api/internal/repository"
)

// ExamService runs one exam attempt per session: hand out the fixed question
// bank, grade the full answer set, and record the verdict on the ledger. A
// failed exam may be retried (the new result overwrites the old one on the
// ledger); a passed result is terminal.
type ExamService interface {
	Start(ctx context.Context, session Session, courseID uint64) (dto.ExamStartResponse, error)
	Submit(ctx context.Context, session Session, courseID uint64, payload dto.ExamSubmitRequest) (dto.ExamVerdict, error)
}

type examService struct {
	ledger    ledger.Client
	engine    *ExamEngine
	sessions  *SessionStore
	receipts  repository.ReceiptRepository
	publisher *events.Publisher
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewExamService constructs an ExamService instance.
func NewExamService(client ledger.Client, engine *ExamEngine, sessions *SessionStore, receipts repository.ReceiptRepository, publisher *events.Publisher, validate *validator.Validate, logger zerolog.Logger) ExamService {
	return &examService{
		ledger:    client,
		engine:    engine,
		sessions:  sessions,
		receipts:  receipts,
		publisher: publisher,
		validator: validate,
		logger:    logger.With().Str("component", "exam_service").Logger(),
	}
}

func (s *examService) Start(ctx context.Context, session Session, courseID uint64) (dto.ExamStartResponse, error) {
	course, err := s.courseForAttempt(ctx, session, courseID)
	if err != nil {
		return dto.ExamStartResponse{}, err
	}

	questions, err := s.engine.Administer(course.ExamID)
	if err != nil {
		return dto.ExamStartResponse{}, err
	}

	s.sessions.SetExamInProgress(ctx, session, courseID)

	return dto.ExamStartResponse{
		CourseID:  courseID,
		ExamID:    course.ExamID,
		Questions: dto.NewExamQuestions(questions),
	}, nil
}

func (s *examService) Submit(ctx context.Context, session Session, courseID uint64, payload dto.ExamSubmitRequest) (dto.ExamVerdict, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamVerdict{}, err
	}

	course, err := s.courseForAttempt(ctx, session, courseID)
	if err != nil {
		return dto.ExamVerdict{}, err
	}

	passed, err := s.engine.Grade(course.ExamID, payload.Answers)
	if err != nil {
		return dto.ExamVerdict{}, err
	}

	txID, err := s.ledger.RecordExamResult(ctx, courseID, passed, session.Actor)
	if err != nil {
		return dto.ExamVerdict{}, fmt.Errorf("%w: %v", ErrLedgerWriteFailed, err)
	}

	s.sessions.ClearExamInProgress(ctx, session, courseID)

	s.recordReceipt(ctx, courseID, session.Actor, string(txID))
	s.publisher.Publish(events.SubjectExamGraded, map[string]interface{}{
		"course_id":       courseID,
		"student_address": session.Actor,
		"passed":          passed,
		"tx_id":           string(txID),
	})

	s.logger.Info().
		Uint64("course_id", courseID).
		Str("student", session.Actor).
		Bool("passed", passed).
		Msg("exam graded and recorded")

	return dto.ExamVerdict{CourseID: courseID, Passed: passed, TxID: string(txID)}, nil
}

// courseForAttempt enforces the common attempt preconditions: the course
// exists, the student is enrolled, and no passed result exists yet.
func (s *examService) courseForAttempt(ctx context.Context, session Session, courseID uint64) (ledger.Course, error) {
	course, err := s.ledger.CourseByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return ledger.Course{}, ErrCourseNotFound
		}
		return ledger.Course{}, err
	}

	enrolled, err := s.isEnrolled(ctx, session, courseID)
	if err != nil {
		return ledger.Course{}, err
	}
	if !enrolled {
		return ledger.Course{}, ErrNotEnrolled
	}

	result, err := s.ledger.ExamResult(ctx, courseID, session.Actor)
	if err != nil && !errors.Is(err, ledger.ErrNotFound) {
		return ledger.Course{}, err
	}
	if result.RecordedAt != nil && result.Passed {
		return ledger.Course{}, ErrExamAlreadyPassed
	}

	return course, nil
}

func (s *examService) isEnrolled(ctx context.Context, session Session, courseID uint64) (bool, error) {
	if s.sessions.IsEnrolled(ctx, session, courseID) {
		return true, nil
	}

	enrollments, err := s.ledger.Enrollments(ctx, session.Actor)
	if err != nil {
		return false, err
	}
	for _, enrollment := range enrollments {
		if enrollment.CourseID == courseID {
			return true, nil
		}
	}

	return false, nil
}

func (s *examService) recordReceipt(ctx context.Context, courseID uint64, student, txID string) {
	if s.receipts == nil {
		return
	}

	receipt := models.Receipt{
		Kind:           models.ReceiptKindExamResult,
		CourseID:       courseID,
		ActorAddress:   student,
		StudentAddress: student,
		TxID:           txID,
	}
	if err := s.receipts.Create(ctx, &receipt); err != nil {
		s.logger.Warn().Err(err).Str("tx_id", txID).Msg("failed to journal exam receipt")
	}
}
