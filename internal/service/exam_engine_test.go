package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillified/skillified-api/internal/models"
)

func TestExamEngineKnownExam(t *testing.T) {
	engine := NewExamEngine()

	require.True(t, engine.KnownExam(ExamIntroductionToPython))
	require.True(t, engine.KnownExam(ExamMachineLearning))
	require.True(t, engine.KnownExam(ExamBlockchainAndWeb3))
	require.False(t, engine.KnownExam("Underwater Basket Weaving"))
}

func TestExamEngineAdministerStripsAnswerKey(t *testing.T) {
	engine := NewExamEngine()

	questions, err := engine.Administer(ExamIntroductionToPython)
	require.NoError(t, err)
	require.Len(t, questions, 10)

	bank := questionBanks[ExamIntroductionToPython]
	for i, question := range questions {
		require.Equal(t, bank.Questions[i].ID, question.ID)
		require.Equal(t, bank.Questions[i].Prompt, question.Prompt)
		require.Equal(t, bank.Questions[i].Options, question.Options)
		require.Equal(t, -1, question.CorrectIndex)
	}
}

func TestExamEngineAdministerUnknownExam(t *testing.T) {
	engine := NewExamEngine()

	_, err := engine.Administer("No Such Exam")
	require.ErrorIs(t, err, ErrUnknownExam)
}

func TestExamEngineGradeAllCorrectPasses(t *testing.T) {
	engine := NewExamEngine()

	passed, err := engine.Grade(ExamMachineLearning, correctAnswers(ExamMachineLearning))
	require.NoError(t, err)
	require.True(t, passed)
}

func TestExamEngineGradeSingleWrongAnswerFails(t *testing.T) {
	engine := NewExamEngine()

	answers := correctAnswers(ExamBlockchainAndWeb3)
	bank := questionBanks[ExamBlockchainAndWeb3]
	last := len(answers) - 1
	answers[last].SelectedOption = (answers[last].SelectedOption + 1) % len(bank.Questions[last].Options)

	passed, err := engine.Grade(ExamBlockchainAndWeb3, answers)
	require.NoError(t, err)
	require.False(t, passed)
}

func TestExamEngineGradeMissingAnswerIsMalformed(t *testing.T) {
	engine := NewExamEngine()

	answers := correctAnswers(ExamIntroductionToPython)
	answers = answers[:len(answers)-1]

	_, err := engine.Grade(ExamIntroductionToPython, answers)
	require.ErrorIs(t, err, ErrMissingAnswer)
}

func TestExamEngineGradeOutOfRangeOptionIsMalformed(t *testing.T) {
	engine := NewExamEngine()

	answers := correctAnswers(ExamIntroductionToPython)
	answers[0].SelectedOption = 99

	_, err := engine.Grade(ExamIntroductionToPython, answers)
	require.ErrorIs(t, err, ErrMissingAnswer)
}

func TestExamEngineGradeUnknownExam(t *testing.T) {
	engine := NewExamEngine()

	_, err := engine.Grade("No Such Exam", []models.Answer{{QuestionID: 1, SelectedOption: 0}})
	require.ErrorIs(t, err, ErrUnknownExam)
}
