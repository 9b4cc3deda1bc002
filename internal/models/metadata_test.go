package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func validMetadata() CertificateMetadata {
	return CertificateMetadata{
		CertificateID:     "3",
		CourseTitle:       "Introduction to Python",
		CourseFee:         "0.05",
		InstructorAddress: "0xInstructor",
		StudentName:       "Ada Lovelace",
		StudentAddress:    "0xStudent",
		EnrollmentDate:    "2026-02-10",
		ExamStatus:        "Passed",
		CompletionDate:    "2026-03-01",
	}
}

func TestMetadataMarshalIsDeterministic(t *testing.T) {
	first, err := validMetadata().Marshal()
	require.NoError(t, err)

	second, err := validMetadata().Marshal()
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestMetadataMarshalFieldOrderAndKeys(t *testing.T) {
	payload, err := validMetadata().Marshal()
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(payload, &decoded))

	require.Equal(t, "3", decoded["certificate_id"])
	require.Equal(t, "Introduction to Python", decoded["course_title"])
	require.Equal(t, "0.05", decoded["course_fee"])
	require.Equal(t, "Passed", decoded["exam_status"])
	require.Equal(t, "2026-02-10", decoded["enrollment_date"])
	require.Equal(t, "2026-03-01", decoded["completion_date"])
}

func TestMetadataMarshalRejectsBadDate(t *testing.T) {
	metadata := validMetadata()
	metadata.CompletionDate = "01/03/2026"

	_, err := metadata.Marshal()
	require.Error(t, err)
}

func TestMetadataMarshalRejectsUnknownExamStatus(t *testing.T) {
	metadata := validMetadata()
	metadata.ExamStatus = "Aced"

	_, err := metadata.Marshal()
	require.Error(t, err)
}

func TestMetadataMarshalRejectsMissingField(t *testing.T) {
	metadata := validMetadata()
	metadata.StudentName = ""

	_, err := metadata.Marshal()
	require.Error(t, err)
}

func TestMetadataPinName(t *testing.T) {
	metadata := validMetadata()
	require.Equal(t, "certificate-3-introduction-to-python-metadata.json", metadata.PinName())
}
