package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// CertificateMetadata is the document pinned to the content store before the
// ledger learns a certificate exists. The ledger only ever stores the
// resulting content identifier. Field order is fixed so identical inputs
// always serialize to identical bytes and therefore pin to the same
// content identifier.
type CertificateMetadata struct {
	CertificateID     string `json:"certificate_id"`
	CourseTitle       string `json:"course_title"`
	CourseFee         string `json:"course_fee"`
	InstructorAddress string `json:"instructor_address"`
	StudentName       string `json:"student_name"`
	StudentAddress    string `json:"student_address"`
	EnrollmentDate    string `json:"enrollment_date"`
	ExamStatus        string `json:"exam_status"`
	CompletionDate    string `json:"completion_date"`
}

const metadataSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": [
    "certificate_id", "course_title", "course_fee", "instructor_address",
    "student_name", "student_address", "enrollment_date", "exam_status",
    "completion_date"
  ],
  "properties": {
    "certificate_id": {"type": "string", "minLength": 1},
    "course_title": {"type": "string", "minLength": 1},
    "course_fee": {"type": "string", "pattern": "^[0-9]+(\\.[0-9]+)?$"},
    "instructor_address": {"type": "string", "minLength": 1},
    "student_name": {"type": "string", "minLength": 1},
    "student_address": {"type": "string", "minLength": 1},
    "enrollment_date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
    "exam_status": {"type": "string", "enum": ["Passed", "Failed", "Not Attempted"]},
    "completion_date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"}
  },
  "additionalProperties": false
}`

var compiledMetadataSchema = jsonschema.MustCompileString("certificate-metadata.json", metadataSchema)

// Marshal serializes the document deterministically and validates it against
// the embedded schema.
func (m CertificateMetadata) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(m); err != nil {
		return nil, fmt.Errorf("encode certificate metadata: %w", err)
	}

	payload := bytes.TrimRight(buf.Bytes(), "\n")

	var doc interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("reparse certificate metadata: %w", err)
	}
	if err := compiledMetadataSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("certificate metadata failed schema validation: %w", err)
	}

	return payload, nil
}

// PinName derives the blob name used when pinning the document.
func (m CertificateMetadata) PinName() string {
	slug := strings.ToLower(strings.ReplaceAll(m.CourseTitle, " ", "-"))
	return fmt.Sprintf("certificate-%s-%s-metadata.json", m.CertificateID, slug)
}
