package dto

import "github.com/skillified/skillified-api/internal/models"

// ExamQuestion is one question as presented to the student, without the
// answer key. Option order matches the bank exactly.
type ExamQuestion struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// ExamStartResponse returns the ordered question set of an opened attempt.
type ExamStartResponse struct {
	CourseID  uint64         `json:"course_id"`
	ExamID    string         `json:"exam_id"`
	Questions []ExamQuestion `json:"questions"`
}

// NewExamQuestions maps engine questions into their presentation form.
func NewExamQuestions(questions []models.Question) []ExamQuestion {
	out := make([]ExamQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, ExamQuestion{ID: q.ID, Prompt: q.Prompt, Options: q.Options})
	}
	return out
}

// ExamSubmitRequest carries the full, ordered answer set of one attempt.
type ExamSubmitRequest struct {
	Answers []models.Answer `json:"answers" validate:"required,min=1,dive"`
}

// ExamVerdict reports the graded outcome and the ledger record transaction.
type ExamVerdict struct {
	CourseID uint64 `json:"course_id"`
	Passed   bool   `json:"passed"`
	TxID     string `json:"tx_id"`
}
