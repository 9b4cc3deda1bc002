package service

import (
	"fmt"

	"github.com/skillified/skillified-api/internal/models"
)

// ExamEngine administers and grades exams against fixed question banks. It
// is pure: no network dependency, deterministic grading, and the only
// failures are malformed attempts.
type ExamEngine struct {
	banks map[string]models.QuestionBank
}

// NewExamEngine builds the engine over the predefined question banks.
func NewExamEngine() *ExamEngine {
	return &ExamEngine{banks: questionBanks}
}

// KnownExam reports whether a question bank exists for the exam id.
func (e *ExamEngine) KnownExam(examID string) bool {
	_, ok := e.banks[examID]
	return ok
}

// Administer returns the fixed, ordered question bank for the exam id. The
// returned questions carry no answer key.
func (e *ExamEngine) Administer(examID string) ([]models.Question, error) {
	bank, ok := e.banks[examID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExam, examID)
	}

	questions := make([]models.Question, len(bank.Questions))
	for i, q := range bank.Questions {
		questions[i] = models.Question{
			ID:           q.ID,
			Prompt:       q.Prompt,
			Options:      q.Options,
			CorrectIndex: -1,
		}
	}

	return questions, nil
}

// Grade scores an attempt all-or-nothing: passed is true iff every question
// in the bank has a recorded answer equal to its correct index. There is no
// partial credit. An unanswered question or an out-of-range option index is
// a malformed attempt, not a fail.
func (e *ExamEngine) Grade(examID string, answers []models.Answer) (bool, error) {
	bank, ok := e.banks[examID]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownExam, examID)
	}

	selected := make(map[int]int, len(answers))
	for _, answer := range answers {
		selected[answer.QuestionID] = answer.SelectedOption
	}

	passed := true
	for _, question := range bank.Questions {
		choice, answered := selected[question.ID]
		if !answered {
			return false, fmt.Errorf("%w: question %d", ErrMissingAnswer, question.ID)
		}
		if choice < 0 || choice >= len(question.Options) {
			return false, fmt.Errorf("%w: question %d has no option %d", ErrMissingAnswer, question.ID, choice)
		}
		if choice != question.CorrectIndex {
			passed = false
		}
	}

	return passed, nil
}
