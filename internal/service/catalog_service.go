package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/skillified/skillified-api/internal/dto"
	"github.com/skillified/skillified-api/internal/ledger"
	"github.com/skillified/skillified-api/internal/models"
	"github.com/skillified/skillified-api/internal/repository"
	"github.com/skillified/skillified-api/pkg/pinning"
)

// CatalogService is the read-side projection over the ledger's course set,
// plus the admin-only course creation flow. Reads are pass-through queries:
// courses can be created concurrently by other actors, so nothing is cached
// beyond one request.
type CatalogService interface {
	List(ctx context.Context) ([]dto.CourseResponse, error)
	FindByTitle(ctx context.Context, title string) (dto.CourseResponse, error)
	IsDuplicateTitle(ctx context.Context, title string) (bool, error)
	Create(ctx context.Context, payload dto.CourseCreateRequest, material, certificateImage *multipart.FileHeader, actingAddress string) (dto.CourseCreateReceipt, error)
}

type catalogService struct {
	ledger      ledger.Client
	pinner      pinning.Pinner
	authorizer  *Authorizer
	engine      *ExamEngine
	receipts    repository.ReceiptRepository
	validator   *validator.Validate
	gatewayBase string
	logger      zerolog.Logger
}

// NewCatalogService constructs a CatalogService instance.
func NewCatalogService(client ledger.Client, pinner pinning.Pinner, authorizer *Authorizer, engine *ExamEngine, receipts repository.ReceiptRepository, validate *validator.Validate, gatewayBase string, logger zerolog.Logger) CatalogService {
	return &catalogService{
		ledger:      client,
		pinner:      pinner,
		authorizer:  authorizer,
		engine:      engine,
		receipts:    receipts,
		validator:   validate,
		gatewayBase: gatewayBase,
		logger:      logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *catalogService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.allCourses(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses, s.gatewayBase), nil
}

func (s *catalogService) FindByTitle(ctx context.Context, title string) (dto.CourseResponse, error) {
	course, found, err := s.findByTitle(ctx, title)
	if err != nil {
		return dto.CourseResponse{}, err
	}
	if !found {
		return dto.CourseResponse{}, ErrCourseNotFound
	}

	return dto.NewCourseResponse(course, s.gatewayBase), nil
}

func (s *catalogService) IsDuplicateTitle(ctx context.Context, title string) (bool, error) {
	_, found, err := s.findByTitle(ctx, title)
	return found, err
}

func (s *catalogService) Create(ctx context.Context, payload dto.CourseCreateRequest, material, certificateImage *multipart.FileHeader, actingAddress string) (dto.CourseCreateReceipt, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseCreateReceipt{}, err
	}

	isOwner, err := s.authorizer.IsOwner(ctx, actingAddress)
	if err != nil {
		return dto.CourseCreateReceipt{}, err
	}
	if !isOwner {
		return dto.CourseCreateReceipt{}, ErrUnauthorized
	}

	if !s.engine.KnownExam(payload.ExamID) {
		return dto.CourseCreateReceipt{}, fmt.Errorf("%w: %s", ErrUnknownExam, payload.ExamID)
	}

	// Course and exam titles must match so the exam bank resolves by title.
	if payload.Title != payload.ExamID {
		return dto.CourseCreateReceipt{}, fmt.Errorf("%w: course title and exam title must match", ErrValidation)
	}

	fee, ok := ledger.ParseAmount(payload.Fee)
	if !ok {
		return dto.CourseCreateReceipt{}, fmt.Errorf("%w: invalid fee %q", ErrValidation, payload.Fee)
	}

	duplicate, err := s.IsDuplicateTitle(ctx, payload.Title)
	if err != nil {
		return dto.CourseCreateReceipt{}, err
	}
	if duplicate {
		return dto.CourseCreateReceipt{}, ErrDuplicateTitle
	}

	materialBytes, err := readUpload(material, "course material", materialTypes)
	if err != nil {
		return dto.CourseCreateReceipt{}, err
	}
	imageBytes, err := readUpload(certificateImage, "certificate image", imageTypes)
	if err != nil {
		return dto.CourseCreateReceipt{}, err
	}

	materialCID, err := s.pinner.Pin(ctx, material.Filename, materialBytes)
	if err != nil {
		return dto.CourseCreateReceipt{}, fmt.Errorf("%w: %v", ErrPinningFailed, err)
	}
	imageCID, err := s.pinner.Pin(ctx, certificateImage.Filename, imageBytes)
	if err != nil {
		return dto.CourseCreateReceipt{}, fmt.Errorf("%w: %v", ErrPinningFailed, err)
	}

	txID, err := s.ledger.CreateCourse(ctx, ledger.CreateCourseParams{
		Title:               payload.Title,
		Instructor:          payload.InstructorAddress,
		MaterialCID:         materialCID,
		ExamID:              payload.ExamID,
		CertificateImageCID: imageCID,
		Fee:                 fee,
	}, actingAddress)
	if err != nil {
		if errors.Is(err, ledger.ErrRejected) {
			return dto.CourseCreateReceipt{}, ErrDuplicateTitle
		}
		return dto.CourseCreateReceipt{}, fmt.Errorf("%w: %v", ErrLedgerWriteFailed, err)
	}

	s.recordReceipt(ctx, actingAddress, string(txID), materialCID)

	s.logger.Info().
		Str("title", payload.Title).
		Str("tx_id", string(txID)).
		Msg("course created")

	return dto.CourseCreateReceipt{
		TxID:                string(txID),
		Title:               payload.Title,
		MaterialCID:         materialCID,
		CertificateImageCID: imageCID,
	}, nil
}

// allCourses walks ledger course ids 0..count-1. Ids are sequential and
// ledger-assigned, so the scan is complete by construction.
func (s *catalogService) allCourses(ctx context.Context) ([]ledger.Course, error) {
	count, err := s.ledger.CourseCount(ctx)
	if err != nil {
		return nil, err
	}

	courses := make([]ledger.Course, 0, count)
	for id := uint64(0); id < count; id++ {
		course, err := s.ledger.CourseByID(ctx, id)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	return courses, nil
}

func (s *catalogService) findByTitle(ctx context.Context, title string) (ledger.Course, bool, error) {
	courses, err := s.allCourses(ctx)
	if err != nil {
		return ledger.Course{}, false, err
	}

	for _, course := range courses {
		if course.Title == title {
			return course, true, nil
		}
	}

	return ledger.Course{}, false, nil
}

func (s *catalogService) recordReceipt(ctx context.Context, actor, txID, cid string) {
	if s.receipts == nil {
		return
	}

	receipt := models.Receipt{
		Kind:         models.ReceiptKindCourseCreate,
		ActorAddress: actor,
		TxID:         txID,
		ContentID:    cid,
	}
	if err := s.receipts.Create(ctx, &receipt); err != nil {
		s.logger.Warn().Err(err).Str("tx_id", txID).Msg("failed to journal course creation receipt")
	}
}

var materialTypes = []string{"application/pdf", "application/zip", "application/x-zip-compressed", "text/plain", "text/html"}

var imageTypes = []string{"image/png", "image/jpeg", "image/webp"}

func readUpload(file *multipart.FileHeader, label string, allowed []string) ([]byte, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: %s file is required", ErrValidation, label)
	}

	reader, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", label, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", label, err)
	}

	mime := mimetype.Detect(data)
	for _, a := range allowed {
		if mime.Is(a) {
			return data, nil
		}
	}

	return nil, fmt.Errorf("%w: unsupported %s type %s", ErrValidation, label, mime.String())
}
