package ledger

import (
	"context"
	"errors"
	"math/big"
	"time"
)

// ErrNotFound indicates the requested entity does not exist on the ledger.
var ErrNotFound = errors.New("ledger entity not found")

// ErrRejected indicates the contract refused a write, typically because a
// precondition observed earlier no longer holds.
var ErrRejected = errors.New("ledger rejected transaction")

// TxID identifies a confirmed ledger transaction.
type TxID string

// Course mirrors the on-chain course record. Fee is denominated in the
// ledger's smallest currency unit.
type Course struct {
	ID                  uint64
	Title               string
	Instructor          string
	MaterialCID         string
	ExamID              string
	CertificateImageCID string
	Fee                 *big.Int
}

// Enrollment is a confirmed (course, student) admission owned by the ledger.
type Enrollment struct {
	CourseID    uint64
	Student     string
	StudentName string
	EnrolledAt  time.Time
}

// ExamResult is the latest recorded exam outcome for a (course, student)
// pair. RecordedAt is nil when the student has never attempted the exam.
type ExamResult struct {
	CourseID   uint64
	Student    string
	Passed     bool
	RecordedAt *time.Time
}

// Certificate is a completion token. CompletedAt is nil until issuance; a
// non-nil value marks the course permanently completed for its owner.
type Certificate struct {
	TokenID     uint64
	MetadataCID string
	CompletedAt *time.Time
}

// CreateCourseParams carries the arguments of a createCourse write.
type CreateCourseParams struct {
	Title               string
	Instructor          string
	MaterialCID         string
	ExamID              string
	CertificateImageCID string
	Fee                 *big.Int
}

// Client is the typed surface of the external ledger. The ledger serializes
// all writes and is the single source of truth; callers must treat every
// read as potentially stale by the time a subsequent write lands.
type Client interface {
	Owner(ctx context.Context) (string, error)
	CourseCount(ctx context.Context) (uint64, error)
	CourseByID(ctx context.Context, id uint64) (Course, error)
	AccountBalance(ctx context.Context, address string) (*big.Int, error)

	EnrollInCourse(ctx context.Context, courseID uint64, studentName, from string, value *big.Int) (TxID, error)
	Enrollments(ctx context.Context, student string) ([]Enrollment, error)
	EnrollmentDate(ctx context.Context, courseID uint64, student string) (*time.Time, error)

	ExamResult(ctx context.Context, courseID uint64, student string) (ExamResult, error)
	RecordExamResult(ctx context.Context, courseID uint64, passed bool, from string) (TxID, error)

	CompletionDate(ctx context.Context, courseID uint64, student string) (*time.Time, error)
	MarkCompletionAndIssueCertificate(ctx context.Context, courseID uint64, student, studentName, metadataCID, from string) (TxID, error)

	Certificate(ctx context.Context, tokenID uint64) (Certificate, error)
	BalanceOf(ctx context.Context, owner string) (int, error)
	TokenOfOwnerByIndex(ctx context.Context, owner string, index int) (uint64, error)

	CreateCourse(ctx context.Context, params CreateCourseParams, from string) (TxID, error)
}

// unitsPerToken is the conversion factor between the ledger's smallest
// currency unit and one whole token (10^18, wei-style).
var unitsPerToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FormatAmount renders an amount in smallest units as a whole-token decimal
// string with trailing zeros trimmed, e.g. 50000000000000000 -> "0.05".
func FormatAmount(amount *big.Int) string {
	if amount == nil {
		return "0"
	}

	whole := new(big.Int)
	frac := new(big.Int)
	whole.DivMod(amount, unitsPerToken, frac)

	if frac.Sign() == 0 {
		return whole.String()
	}

	padded := frac.String()
	for len(padded) < 18 {
		padded = "0" + padded
	}
	for len(padded) > 1 && padded[len(padded)-1] == '0' {
		padded = padded[:len(padded)-1]
	}

	return whole.String() + "." + padded
}

// ParseAmount converts a whole-token decimal string into smallest units.
func ParseAmount(value string) (*big.Int, bool) {
	rat, ok := new(big.Rat).SetString(value)
	if !ok || rat.Sign() < 0 {
		return nil, false
	}

	scaled := new(big.Rat).Mul(rat, new(big.Rat).SetInt(unitsPerToken))
	if !scaled.IsInt() {
		return nil, false
	}

	return new(big.Int).Set(scaled.Num()), true
}

// timeFromUnix maps the ledger's zero-timestamp sentinel to an absent value
// so that epoch zero is never mistaken for a real date.
func timeFromUnix(seconds int64) *time.Time {
	if seconds == 0 {
		return nil
	}
	t := time.Unix(seconds, 0).UTC()
	return &t
}
