package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/skillified/skillified-api/internal/dto"
	"github.com/skillified/skillified-api/internal/events"
	"github.com/skillified/skillified-api/internal/ledger"
	"github.com/skillified/skillified-api/internal/models"
	"github.com/skillified/skillified-api/internal/repository"
	"github.com/skillified/skillified-api/pkg/pinning"
)

const dateLayout = "2006-01-02"

// IssuanceService runs the completion/certificate saga, the one workflow
// that spans both external systems. The ordering is deliberate: every
// precondition is checked before anything is written, the metadata document
// is pinned before the ledger learns about it, and the ledger write comes
// last so a failure anywhere leaves no false on-chain state. The worst
// outcome of a crash between pin and write is an orphaned blob, which is
// inert: a retry re-pins the identical document to the identical content id
// and re-attempts the write.
type IssuanceService interface {
	Issue(ctx context.Context, payload dto.IssuanceRequest, actingAddress string) (dto.IssuanceReceipt, error)
}

type issuanceService struct {
	ledger      ledger.Client
	pinner      pinning.Pinner
	authorizer  *Authorizer
	receipts    repository.ReceiptRepository
	publisher   *events.Publisher
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	gatewayBase string
	logger      zerolog.Logger
	now         func() time.Time
}

// NewIssuanceService constructs an IssuanceService instance.
func NewIssuanceService(client ledger.Client, pinner pinning.Pinner, authorizer *Authorizer, receipts repository.ReceiptRepository, publisher *events.Publisher, validate *validator.Validate, gatewayBase string, logger zerolog.Logger) IssuanceService {
	return &issuanceService{
		ledger:      client,
		pinner:      pinner,
		authorizer:  authorizer,
		receipts:    receipts,
		publisher:   publisher,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		gatewayBase: gatewayBase,
		logger:      logger.With().Str("component", "issuance_service").Logger(),
		now:         time.Now,
	}
}

func (s *issuanceService) Issue(ctx context.Context, payload dto.IssuanceRequest, actingAddress string) (dto.IssuanceReceipt, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.IssuanceReceipt{}, err
	}

	studentName := strings.TrimSpace(s.sanitizer.Sanitize(payload.StudentName))
	if studentName == "" {
		return dto.IssuanceReceipt{}, fmt.Errorf("%w: student name is empty", ErrValidation)
	}

	course, err := s.ledger.CourseByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return dto.IssuanceReceipt{}, ErrCourseNotFound
		}
		return dto.IssuanceReceipt{}, err
	}

	student := strings.TrimSpace(payload.StudentAddress)

	// Step 1: authorization. Instructors and the platform owner may issue
	// for any student of their course; a student may self-issue only with a
	// passed exam, which step 4 verifies for every path.
	if !sameAddress(actingAddress, student) {
		allowed, err := s.authorizer.CanManageCourse(ctx, course, actingAddress)
		if err != nil {
			return dto.IssuanceReceipt{}, err
		}
		if !allowed {
			return dto.IssuanceReceipt{}, ErrUnauthorized
		}
	}

	// Step 2: duplicate-issuance check. Optimistic: the ledger re-arbitrates
	// at the final write, this read only fails fast on the common case.
	completion, err := s.ledger.CompletionDate(ctx, course.ID, student)
	if err != nil && !errors.Is(err, ledger.ErrNotFound) {
		return dto.IssuanceReceipt{}, err
	}
	if completion != nil {
		return dto.IssuanceReceipt{}, ErrAlreadyCompleted
	}

	// Step 3: enrollment check.
	enrollmentDate, err := s.enrollmentDate(ctx, course.ID, student)
	if err != nil {
		return dto.IssuanceReceipt{}, err
	}
	if enrollmentDate == nil {
		return dto.IssuanceReceipt{}, ErrNotEnrolled
	}

	// Step 4: exam-status resolution.
	result, err := s.ledger.ExamResult(ctx, course.ID, student)
	if err != nil && !errors.Is(err, ledger.ErrNotFound) {
		return dto.IssuanceReceipt{}, err
	}
	if result.RecordedAt == nil || !result.Passed {
		return dto.IssuanceReceipt{}, ErrExamNotPassed
	}

	// Step 5: deterministic metadata construction.
	completionDate := s.now().UTC().Format(dateLayout)
	metadata := models.CertificateMetadata{
		CertificateID:     strconv.FormatUint(course.ID, 10),
		CourseTitle:       course.Title,
		CourseFee:         ledger.FormatAmount(course.Fee),
		InstructorAddress: course.Instructor,
		StudentName:       studentName,
		StudentAddress:    student,
		EnrollmentDate:    enrollmentDate.UTC().Format(dateLayout),
		ExamStatus:        "Passed",
		CompletionDate:    completionDate,
	}

	document, err := metadata.Marshal()
	if err != nil {
		return dto.IssuanceReceipt{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Step 6: pin before the ledger write. A pin failure aborts cleanly with
	// no on-chain side effects.
	cid, err := s.pinner.Pin(ctx, metadata.PinName(), document)
	if err != nil {
		return dto.IssuanceReceipt{}, fmt.Errorf("%w: %v", ErrPinningFailed, err)
	}

	// Step 7: the ledger write, last. A rejection here means another session
	// won the race since step 2; re-reading the completion date tells the
	// two cases apart.
	txID, err := s.ledger.MarkCompletionAndIssueCertificate(ctx, course.ID, student, studentName, cid, actingAddress)
	if err != nil {
		if errors.Is(err, ledger.ErrRejected) {
			if completion, readErr := s.ledger.CompletionDate(ctx, course.ID, student); readErr == nil && completion != nil {
				return dto.IssuanceReceipt{}, ErrAlreadyCompleted
			}
		}
		return dto.IssuanceReceipt{}, fmt.Errorf("%w: %v", ErrLedgerWriteFailed, err)
	}

	s.recordReceipt(ctx, course.ID, actingAddress, student, string(txID), cid)
	s.publisher.Publish(events.SubjectCertificateIssued, map[string]interface{}{
		"course_id":       course.ID,
		"student_address": student,
		"metadata_cid":    cid,
		"tx_id":           string(txID),
	})

	s.logger.Info().
		Uint64("course_id", course.ID).
		Str("student", student).
		Str("metadata_cid", cid).
		Str("tx_id", string(txID)).
		Msg("completion marked and certificate issued")

	return dto.IssuanceReceipt{
		TxID:           string(txID),
		CourseID:       course.ID,
		StudentAddress: student,
		MetadataCID:    cid,
		MetadataURL:    pinning.GatewayURL(s.gatewayBase, cid),
		CompletionDate: completionDate,
	}, nil
}

func (s *issuanceService) enrollmentDate(ctx context.Context, courseID uint64, student string) (*time.Time, error) {
	date, err := s.ledger.EnrollmentDate(ctx, courseID, student)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return date, nil
}

func (s *issuanceService) recordReceipt(ctx context.Context, courseID uint64, actor, student, txID, cid string) {
	if s.receipts == nil {
		return
	}

	receipt := models.Receipt{
		Kind:           models.ReceiptKindIssuance,
		CourseID:       courseID,
		ActorAddress:   actor,
		StudentAddress: student,
		TxID:           txID,
		ContentID:      cid,
	}
	if err := s.receipts.Create(ctx, &receipt); err != nil {
		s.logger.Warn().Err(err).Str("tx_id", txID).Msg("failed to journal issuance receipt")
	}
}
