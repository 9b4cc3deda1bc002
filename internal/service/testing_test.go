package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skillified/skillified-api/internal/ledger"
	"github.com/skillified/skillified-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func newTestSessions(t *testing.T) *SessionStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionStore(client, time.Minute, testLogger())
}

var fakeClockBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeLedger is an in-memory stand-in for the external ledger. It enforces
// the same write preconditions as the contract (duplicate enrollment and
// duplicate completion are rejected) so races and retries can be simulated.
type fakeLedger struct {
	owner       string
	courses     map[uint64]ledger.Course
	balances    map[string]*big.Int
	enrollments map[string]map[uint64]time.Time
	results     map[string]map[uint64]ledger.ExamResult
	certs       map[uint64]ledger.Certificate
	tokens      map[string][]uint64

	enrollErr     error
	recordExamErr error
	issueErr      error
	createErr     error

	issueCalls int
	txSeq      int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		owner:       "0xOwner",
		courses:     make(map[uint64]ledger.Course),
		balances:    make(map[string]*big.Int),
		enrollments: make(map[string]map[uint64]time.Time),
		results:     make(map[string]map[uint64]ledger.ExamResult),
		certs:       make(map[uint64]ledger.Certificate),
		tokens:      make(map[string][]uint64),
	}
}

func addrKey(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func (f *fakeLedger) nextTx() ledger.TxID {
	f.txSeq++
	return ledger.TxID(fmt.Sprintf("0xtx%04d", f.txSeq))
}

func (f *fakeLedger) addCourse(title, instructor, examID, fee string) ledger.Course {
	amount, _ := ledger.ParseAmount(fee)
	course := ledger.Course{
		ID:                  uint64(len(f.courses)),
		Title:               title,
		Instructor:          instructor,
		MaterialCID:         "QmMaterial" + fmt.Sprint(len(f.courses)),
		ExamID:              examID,
		CertificateImageCID: "QmImage" + fmt.Sprint(len(f.courses)),
		Fee:                 amount,
	}
	f.courses[course.ID] = course
	return course
}

func (f *fakeLedger) setBalance(address, tokens string) {
	amount, _ := ledger.ParseAmount(tokens)
	f.balances[addrKey(address)] = amount
}

func (f *fakeLedger) enroll(courseID uint64, student string) {
	key := addrKey(student)
	if f.enrollments[key] == nil {
		f.enrollments[key] = make(map[uint64]time.Time)
	}
	f.enrollments[key][courseID] = fakeClockBase
}

func (f *fakeLedger) setExamResult(courseID uint64, student string, passed bool) {
	key := addrKey(student)
	if f.results[key] == nil {
		f.results[key] = make(map[uint64]ledger.ExamResult)
	}
	recorded := fakeClockBase
	f.results[key][courseID] = ledger.ExamResult{
		CourseID:   courseID,
		Student:    student,
		Passed:     passed,
		RecordedAt: &recorded,
	}
}

func (f *fakeLedger) Owner(ctx context.Context) (string, error) {
	return f.owner, nil
}

func (f *fakeLedger) CourseCount(ctx context.Context) (uint64, error) {
	return uint64(len(f.courses)), nil
}

func (f *fakeLedger) CourseByID(ctx context.Context, id uint64) (ledger.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return ledger.Course{}, ledger.ErrNotFound
	}
	return course, nil
}

func (f *fakeLedger) AccountBalance(ctx context.Context, address string) (*big.Int, error) {
	if balance, ok := f.balances[addrKey(address)]; ok {
		return new(big.Int).Set(balance), nil
	}
	return big.NewInt(0), nil
}

func (f *fakeLedger) EnrollInCourse(ctx context.Context, courseID uint64, studentName, from string, value *big.Int) (ledger.TxID, error) {
	if f.enrollErr != nil {
		return "", f.enrollErr
	}

	key := addrKey(from)
	if _, ok := f.enrollments[key][courseID]; ok {
		return "", ledger.ErrRejected
	}

	if balance, ok := f.balances[key]; ok && value != nil {
		balance.Sub(balance, value)
	}

	if f.enrollments[key] == nil {
		f.enrollments[key] = make(map[uint64]time.Time)
	}
	f.enrollments[key][courseID] = fakeClockBase

	return f.nextTx(), nil
}

func (f *fakeLedger) Enrollments(ctx context.Context, student string) ([]ledger.Enrollment, error) {
	key := addrKey(student)
	enrollments := make([]ledger.Enrollment, 0, len(f.enrollments[key]))
	for courseID, at := range f.enrollments[key] {
		enrollments = append(enrollments, ledger.Enrollment{
			CourseID:   courseID,
			Student:    student,
			EnrolledAt: at,
		})
	}
	return enrollments, nil
}

func (f *fakeLedger) EnrollmentDate(ctx context.Context, courseID uint64, student string) (*time.Time, error) {
	at, ok := f.enrollments[addrKey(student)][courseID]
	if !ok {
		return nil, nil
	}
	return &at, nil
}

func (f *fakeLedger) ExamResult(ctx context.Context, courseID uint64, student string) (ledger.ExamResult, error) {
	result, ok := f.results[addrKey(student)][courseID]
	if !ok {
		return ledger.ExamResult{}, ledger.ErrNotFound
	}
	return result, nil
}

func (f *fakeLedger) RecordExamResult(ctx context.Context, courseID uint64, passed bool, from string) (ledger.TxID, error) {
	if f.recordExamErr != nil {
		return "", f.recordExamErr
	}

	f.setExamResult(courseID, from, passed)
	return f.nextTx(), nil
}

func (f *fakeLedger) CompletionDate(ctx context.Context, courseID uint64, student string) (*time.Time, error) {
	cert, ok := f.certs[courseID]
	if !ok || cert.CompletedAt == nil {
		return nil, nil
	}
	for _, tokenID := range f.tokens[addrKey(student)] {
		if tokenID == courseID {
			return cert.CompletedAt, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) MarkCompletionAndIssueCertificate(ctx context.Context, courseID uint64, student, studentName, metadataCID, from string) (ledger.TxID, error) {
	f.issueCalls++
	if f.issueErr != nil {
		return "", f.issueErr
	}

	if _, ok := f.certs[courseID]; ok {
		return "", ledger.ErrRejected
	}

	completed := fakeClockBase
	f.certs[courseID] = ledger.Certificate{
		TokenID:     courseID,
		MetadataCID: metadataCID,
		CompletedAt: &completed,
	}
	key := addrKey(student)
	f.tokens[key] = append(f.tokens[key], courseID)

	return f.nextTx(), nil
}

func (f *fakeLedger) Certificate(ctx context.Context, tokenID uint64) (ledger.Certificate, error) {
	cert, ok := f.certs[tokenID]
	if !ok {
		return ledger.Certificate{}, ledger.ErrNotFound
	}
	return cert, nil
}

func (f *fakeLedger) BalanceOf(ctx context.Context, owner string) (int, error) {
	return len(f.tokens[addrKey(owner)]), nil
}

func (f *fakeLedger) TokenOfOwnerByIndex(ctx context.Context, owner string, index int) (uint64, error) {
	tokens := f.tokens[addrKey(owner)]
	if index < 0 || index >= len(tokens) {
		return 0, ledger.ErrNotFound
	}
	return tokens[index], nil
}

func (f *fakeLedger) CreateCourse(ctx context.Context, params ledger.CreateCourseParams, from string) (ledger.TxID, error) {
	if f.createErr != nil {
		return "", f.createErr
	}

	for _, course := range f.courses {
		if course.Title == params.Title {
			return "", ledger.ErrRejected
		}
	}

	id := uint64(len(f.courses))
	f.courses[id] = ledger.Course{
		ID:                  id,
		Title:               params.Title,
		Instructor:          params.Instructor,
		MaterialCID:         params.MaterialCID,
		ExamID:              params.ExamID,
		CertificateImageCID: params.CertificateImageCID,
		Fee:                 params.Fee,
	}

	return f.nextTx(), nil
}

// stubPinner derives the content identifier from the blob bytes, mirroring
// the content-addressed property tests rely on: identical bytes pin to an
// identical identifier.
type stubPinner struct {
	err   error
	names []string
	cids  []string
}

func (p *stubPinner) Pin(ctx context.Context, name string, data []byte) (string, error) {
	if p.err != nil {
		return "", p.err
	}

	sum := sha256.Sum256(data)
	cid := "bafy" + hex.EncodeToString(sum[:8])
	p.names = append(p.names, name)
	p.cids = append(p.cids, cid)
	return cid, nil
}

type stubFetcher struct {
	data []byte
	err  error
	urls []string
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type memoryReceiptRepo struct {
	rows      []models.Receipt
	createErr error
}

func newMemoryReceiptRepo() *memoryReceiptRepo {
	return &memoryReceiptRepo{}
}

func (m *memoryReceiptRepo) Create(ctx context.Context, receipt *models.Receipt) error {
	if m.createErr != nil {
		return m.createErr
	}

	receipt.ID = uint(len(m.rows) + 1)
	receipt.CreatedAt = fakeClockBase.Add(time.Duration(len(m.rows)) * time.Second)
	m.rows = append(m.rows, *receipt)
	return nil
}

func (m *memoryReceiptRepo) ListByStudent(ctx context.Context, studentAddress string) ([]models.Receipt, error) {
	matched := make([]models.Receipt, 0, len(m.rows))
	for i := len(m.rows) - 1; i >= 0; i-- {
		if addrKey(m.rows[i].StudentAddress) == addrKey(studentAddress) {
			matched = append(matched, m.rows[i])
		}
	}
	return matched, nil
}

func (m *memoryReceiptRepo) ListRecent(ctx context.Context, limit int) ([]models.Receipt, error) {
	if limit <= 0 {
		limit = 50
	}

	recent := make([]models.Receipt, 0, limit)
	for i := len(m.rows) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, m.rows[i])
	}
	return recent, nil
}

// correctAnswers builds a full passing answer set for the exam id.
func correctAnswers(examID string) []models.Answer {
	bank := questionBanks[examID]
	answers := make([]models.Answer, 0, len(bank.Questions))
	for _, question := range bank.Questions {
		answers = append(answers, models.Answer{
			QuestionID:     question.ID,
			SelectedOption: question.CorrectIndex,
		})
	}
	return answers
}
