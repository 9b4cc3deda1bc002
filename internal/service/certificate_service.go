package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"

	"github.com/skillified/skillified-api/internal/dto"
	"github.com/skillified/skillified-api/internal/ledger"
	"github.com/skillified/skillified-api/internal/repository"
	"github.com/skillified/skillified-api/pkg/pinning"
)

// CertificateService projects a student's issued certificates and renders
// the downloadable PDF export. Certificate tokens share their id with the
// completed course, so the token id resolves course details directly.
type CertificateService interface {
	ListOwned(ctx context.Context, studentAddress string) ([]dto.CertificateResponse, error)
	Export(ctx context.Context, tokenID uint64, studentAddress, studentName string) ([]byte, string, error)
	ListReceipts(ctx context.Context, studentAddress string) ([]dto.ReceiptResponse, error)
}

type certificateService struct {
	ledger      ledger.Client
	fetcher     pinning.Fetcher
	receipts    repository.ReceiptRepository
	gatewayBase string
	logger      zerolog.Logger
}

// NewCertificateService constructs a CertificateService instance.
func NewCertificateService(client ledger.Client, fetcher pinning.Fetcher, receipts repository.ReceiptRepository, gatewayBase string, logger zerolog.Logger) CertificateService {
	return &certificateService{
		ledger:      client,
		fetcher:     fetcher,
		receipts:    receipts,
		gatewayBase: gatewayBase,
		logger:      logger.With().Str("component", "certificate_service").Logger(),
	}
}

func (s *certificateService) ListOwned(ctx context.Context, studentAddress string) ([]dto.CertificateResponse, error) {
	count, err := s.ledger.BalanceOf(ctx, studentAddress)
	if err != nil {
		return nil, err
	}

	certificates := make([]dto.CertificateResponse, 0, count)
	for i := 0; i < count; i++ {
		tokenID, err := s.ledger.TokenOfOwnerByIndex(ctx, studentAddress, i)
		if err != nil {
			return nil, err
		}

		certificate, err := s.ledger.Certificate(ctx, tokenID)
		if err != nil {
			return nil, err
		}

		course, err := s.ledger.CourseByID(ctx, tokenID)
		if err != nil {
			return nil, err
		}

		completion := ""
		if certificate.CompletedAt != nil {
			completion = certificate.CompletedAt.UTC().Format(dateLayout)
		}

		certificates = append(certificates, dto.CertificateResponse{
			TokenID:        tokenID,
			CourseID:       course.ID,
			CourseTitle:    course.Title,
			ImageURL:       pinning.GatewayURL(s.gatewayBase, course.CertificateImageCID),
			MetadataURL:    pinning.GatewayURL(s.gatewayBase, certificate.MetadataCID),
			CompletionDate: completion,
		})
	}

	return certificates, nil
}

// Export renders the certificate as a fixed-page-size PDF embedding the
// certificate image with the student name, course title and completion date
// beneath it. Returns the document bytes and a suggested filename.
func (s *certificateService) Export(ctx context.Context, tokenID uint64, studentAddress, studentName string) ([]byte, string, error) {
	studentName = strings.TrimSpace(studentName)
	if studentName == "" {
		return nil, "", fmt.Errorf("%w: student name is required for export", ErrValidation)
	}

	certificate, err := s.ledger.Certificate(ctx, tokenID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, "", ErrCourseNotFound
		}
		return nil, "", err
	}
	// A token without a completion timestamp has not been issued yet; from
	// the caller's perspective there is no certificate to export.
	if certificate.CompletedAt == nil {
		return nil, "", ErrCourseNotFound
	}

	owned, err := s.ownsToken(ctx, studentAddress, tokenID)
	if err != nil {
		return nil, "", err
	}
	if !owned {
		return nil, "", ErrUnauthorized
	}

	course, err := s.ledger.CourseByID(ctx, tokenID)
	if err != nil {
		return nil, "", err
	}

	imageURL := pinning.GatewayURL(s.gatewayBase, course.CertificateImageCID)
	image, err := s.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return nil, "", fmt.Errorf("fetch certificate image: %w", err)
	}

	document, err := renderCertificatePDF(image, studentName, course.Title, certificate.CompletedAt.UTC().Format(dateLayout))
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_certificate.pdf", strings.ReplaceAll(course.Title, " ", "_"))

	s.logger.Info().
		Uint64("token_id", tokenID).
		Str("student", studentAddress).
		Msg("certificate exported")

	return document, filename, nil
}

func (s *certificateService) ListReceipts(ctx context.Context, studentAddress string) ([]dto.ReceiptResponse, error) {
	if s.receipts == nil {
		return []dto.ReceiptResponse{}, nil
	}

	rows, err := s.receipts.ListByStudent(ctx, studentAddress)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReceiptResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, dto.ReceiptResponse{
			Kind:           row.Kind,
			CourseID:       row.CourseID,
			ActorAddress:   row.ActorAddress,
			StudentAddress: row.StudentAddress,
			TxID:           row.TxID,
			ContentID:      row.ContentID,
			CreatedAt:      row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return responses, nil
}

func (s *certificateService) ownsToken(ctx context.Context, owner string, tokenID uint64) (bool, error) {
	count, err := s.ledger.BalanceOf(ctx, owner)
	if err != nil {
		return false, err
	}

	for i := 0; i < count; i++ {
		id, err := s.ledger.TokenOfOwnerByIndex(ctx, owner, i)
		if err != nil {
			return false, err
		}
		if id == tokenID {
			return true, nil
		}
	}

	return false, nil
}

const certificatePageSize = 400.0 // points, square page

func renderCertificatePDF(image []byte, studentName, courseTitle, completionDate string) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: certificatePageSize, Ht: certificatePageSize},
	})
	pdf.AddPage()

	imageType := detectImageType(image)
	if imageType == "" {
		return nil, fmt.Errorf("%w: certificate image is not a supported format", ErrValidation)
	}

	options := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	pdf.RegisterImageOptionsReader("certificate", options, bytes.NewReader(image))
	pdf.ImageOptions("certificate", 100, 40, 200, 200, false, options, 0, "")

	pdf.SetFont("Times", "B", 14)
	pdf.SetY(260)
	for _, line := range []string{studentName, courseTitle, completionDate} {
		pdf.CellFormat(0, 24, line, "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func detectImageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	default:
		return ""
	}
}
