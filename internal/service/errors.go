package service

import "errors"

// Workflow failure taxonomy. Precondition errors fail fast before any
// external write; only ErrPinningFailed and ErrLedgerWriteFailed can occur
// after the saga has started touching external systems, and both leave the
// workflow safe to retry from scratch.
var (
	// ErrValidation indicates malformed input; the caller's fault, never retried.
	ErrValidation = errors.New("invalid input")

	// ErrCourseNotFound indicates no course exists for the given id or title.
	ErrCourseNotFound = errors.New("course not found")

	// ErrDuplicateTitle indicates a course with the exact title already exists.
	ErrDuplicateTitle = errors.New("course title already exists")

	// ErrUnauthorized indicates the acting address lacks the required capability.
	ErrUnauthorized = errors.New("not authorized")

	// ErrAlreadyEnrolled indicates the (course, student) pair is already enrolled.
	ErrAlreadyEnrolled = errors.New("already enrolled in course")

	// ErrInsufficientFunds indicates the student's balance does not cover the fee.
	ErrInsufficientFunds = errors.New("insufficient funds for course fee")

	// ErrNotEnrolled indicates the student has no enrollment for the course.
	ErrNotEnrolled = errors.New("student not enrolled in course")

	// ErrExamNotPassed indicates the latest exam result is absent or failing.
	ErrExamNotPassed = errors.New("exam not passed")

	// ErrExamAlreadyPassed indicates a passed result exists; passing is terminal.
	ErrExamAlreadyPassed = errors.New("exam already passed")

	// ErrUnknownExam indicates no question bank exists for the exam id.
	ErrUnknownExam = errors.New("unknown exam")

	// ErrMissingAnswer indicates an attempt left at least one question unanswered.
	ErrMissingAnswer = errors.New("attempt is missing an answer")

	// ErrAlreadyCompleted indicates a completion record already exists for the
	// (course, student) pair; issuance runs at most once.
	ErrAlreadyCompleted = errors.New("course already completed")

	// ErrPinningFailed indicates the content store rejected the pin. No ledger
	// write has happened; the operation may be retried from scratch.
	ErrPinningFailed = errors.New("content pinning failed")

	// ErrLedgerWriteFailed indicates the final ledger write failed. The cause
	// may be transient or permanent; callers should retry the whole operation.
	ErrLedgerWriteFailed = errors.New("ledger write failed")
)
