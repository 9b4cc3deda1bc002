package dto

import (
	"github.com/skillified/skillified-api/internal/ledger"
	"github.com/skillified/skillified-api/pkg/pinning"
)

// CourseResponse is the read-side projection of one on-chain course.
type CourseResponse struct {
	ID                  uint64 `json:"id"`
	Title               string `json:"title"`
	InstructorAddress   string `json:"instructor_address"`
	ExamID              string `json:"exam_id"`
	Fee                 string `json:"fee"`
	MaterialURL         string `json:"material_url"`
	CertificateImageURL string `json:"certificate_image_url"`
}

// NewCourseResponse maps a ledger course into the API projection.
func NewCourseResponse(course ledger.Course, gatewayBase string) CourseResponse {
	return CourseResponse{
		ID:                  course.ID,
		Title:               course.Title,
		InstructorAddress:   course.Instructor,
		ExamID:              course.ExamID,
		Fee:                 ledger.FormatAmount(course.Fee),
		MaterialURL:         pinning.GatewayURL(gatewayBase, course.MaterialCID),
		CertificateImageURL: pinning.GatewayURL(gatewayBase, course.CertificateImageCID),
	}
}

// NewCourseResponseSlice maps a list of ledger courses.
func NewCourseResponseSlice(courses []ledger.Course, gatewayBase string) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course, gatewayBase))
	}
	return responses
}

// CourseCreateRequest carries the admin course-creation payload. Fee is a
// whole-token decimal string converted to smallest units by the service.
type CourseCreateRequest struct {
	Title             string `json:"title" validate:"required,min=1,max=200"`
	InstructorAddress string `json:"instructor_address" validate:"required"`
	ExamID            string `json:"exam_id" validate:"required"`
	Fee               string `json:"fee" validate:"required"`
}

// CourseCreateReceipt reports a confirmed course creation.
type CourseCreateReceipt struct {
	TxID                string `json:"tx_id"`
	Title               string `json:"title"`
	MaterialCID         string `json:"material_cid"`
	CertificateImageCID string `json:"certificate_image_cid"`
}
