package models

// Question is one entry in a fixed question bank. Options are never
// reordered; their position is the identity under which the correct-index
// comparison happens.
type Question struct {
	ID           int
	Prompt       string
	Options      []string
	CorrectIndex int
}

// QuestionBank is the fixed, ordered question set behind one exam id.
type QuestionBank struct {
	ExamID    string
	Questions []Question
}

// Answer records one selected option within an exam attempt.
type Answer struct {
	QuestionID     int `json:"question_id"`
	SelectedOption int `json:"selected_option"`
}

// ExamAttempt is the ephemeral, all-or-nothing submission of one exam
// session. It is never persisted by this service.
type ExamAttempt struct {
	CourseID uint64
	Student  string
	Answers  []Answer
}
