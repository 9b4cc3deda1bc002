package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/skillified/skillified-api/internal/dto"
	"github.com/skillified/skillified-api/internal/events"
	"github.com/skillified/skillified-api/internal/ledger"
	"github.com/skillified/skillified-api/internal/models"
	"github.com/skillified/skillified-api/internal/repository"
)

// EnrollmentService admits students into courses. Admission is a single
// ledger write carrying the course fee; the ledger enforces atomicity of
// "accept payment + record enrollment".
type EnrollmentService interface {
	Enroll(ctx context.Context, session Session, payload dto.EnrollmentRequest) (dto.EnrollmentReceipt, error)
}

type enrollmentService struct {
	ledger    ledger.Client
	sessions  *SessionStore
	receipts  repository.ReceiptRepository
	publisher *events.Publisher
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(client ledger.Client, sessions *SessionStore, receipts repository.ReceiptRepository, publisher *events.Publisher, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		ledger:    client,
		sessions:  sessions,
		receipts:  receipts,
		publisher: publisher,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, session Session, payload dto.EnrollmentRequest) (dto.EnrollmentReceipt, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentReceipt{}, err
	}

	studentName := strings.TrimSpace(s.sanitizer.Sanitize(payload.StudentName))
	if studentName == "" {
		return dto.EnrollmentReceipt{}, fmt.Errorf("%w: student name is empty", ErrValidation)
	}

	course, err := s.ledger.CourseByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return dto.EnrollmentReceipt{}, ErrCourseNotFound
		}
		return dto.EnrollmentReceipt{}, err
	}

	student := session.Actor

	enrolled, err := s.isEnrolled(ctx, session, course.ID, student)
	if err != nil {
		return dto.EnrollmentReceipt{}, err
	}
	if enrolled {
		return dto.EnrollmentReceipt{}, ErrAlreadyEnrolled
	}

	balance, err := s.ledger.AccountBalance(ctx, student)
	if err != nil {
		return dto.EnrollmentReceipt{}, err
	}
	if balance.Cmp(course.Fee) < 0 {
		return dto.EnrollmentReceipt{}, ErrInsufficientFunds
	}

	txID, err := s.ledger.EnrollInCourse(ctx, course.ID, studentName, student, course.Fee)
	if err != nil {
		// Concurrent enrollment for the same pair loses at the ledger, which
		// is the final arbiter of the duplicate check above.
		if errors.Is(err, ledger.ErrRejected) {
			return dto.EnrollmentReceipt{}, ErrAlreadyEnrolled
		}
		return dto.EnrollmentReceipt{}, fmt.Errorf("%w: %v", ErrLedgerWriteFailed, err)
	}

	s.recordReceipt(ctx, course.ID, student, string(txID))

	// The cache only learns about the enrollment after ledger confirmation.
	s.sessions.MarkEnrolled(ctx, session, course.ID)

	s.publisher.Publish(events.SubjectEnrollmentRecorded, map[string]interface{}{
		"course_id":       course.ID,
		"student_address": student,
		"tx_id":           string(txID),
	})

	s.logger.Info().
		Uint64("course_id", course.ID).
		Str("student", student).
		Str("tx_id", string(txID)).
		Msg("enrollment confirmed")

	return dto.EnrollmentReceipt{
		TxID:           string(txID),
		CourseID:       course.ID,
		CourseTitle:    course.Title,
		StudentAddress: student,
		StudentName:    studentName,
		FeePaid:        ledger.FormatAmount(course.Fee),
	}, nil
}

func (s *enrollmentService) isEnrolled(ctx context.Context, session Session, courseID uint64, student string) (bool, error) {
	if s.sessions.IsEnrolled(ctx, session, courseID) {
		return true, nil
	}

	enrollments, err := s.ledger.Enrollments(ctx, student)
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

func (s *enrollmentService) recordReceipt(ctx context.Context, courseID uint64, student, txID string) {
	if s.receipts == nil {
		return
	}

	receipt := models.Receipt{
		Kind:           models.ReceiptKindEnrollment,
		CourseID:       courseID,
		ActorAddress:   student,
		StudentAddress: student,
		TxID:           txID,
	}
	if err := s.receipts.Create(ctx, &receipt); err != nil {
		// The ledger transaction is already confirmed; a journal miss is an
		// audit gap, not a workflow failure.
		s.logger.Warn().Err(err).Str("tx_id", txID).Msg("failed to journal enrollment receipt")
	}
}
