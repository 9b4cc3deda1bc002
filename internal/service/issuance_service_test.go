package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillified/skillified-api/internal/dto"
	"github.com/skillified/skillified-api/internal/ledger"
	"github.com/skillified/skillified-api/internal/models"
)

const testGateway = "https://gateway.test/ipfs"

func newIssuanceFixture(t *testing.T, fake ledger.Client) (*stubPinner, *memoryReceiptRepo, IssuanceService) {
	t.Helper()

	pinner := &stubPinner{}
	receipts := newMemoryReceiptRepo()
	svc := NewIssuanceService(fake, pinner, NewAuthorizer(fake), receipts, nil, testValidator(), testGateway, testLogger())
	svc.(*issuanceService).now = func() time.Time { return fakeClockBase }
	return pinner, receipts, svc
}

func readyCourse(fake *fakeLedger) ledger.Course {
	course := fake.addCourse(ExamIntroductionToPython, "0xInstructor", ExamIntroductionToPython, "0.05")
	fake.enroll(course.ID, "0xStudent")
	fake.setExamResult(course.ID, "0xStudent", true)
	return course
}

func TestIssueSuccess(t *testing.T) {
	fake := newFakeLedger()
	course := readyCourse(fake)
	pinner, receipts, svc := newIssuanceFixture(t, fake)

	receipt, err := svc.Issue(context.Background(), dto.IssuanceRequest{
		CourseID:       course.ID,
		StudentAddress: "0xStudent",
		StudentName:    "Ada Lovelace",
	}, "0xStudent")
	require.NoError(t, err)

	require.NotEmpty(t, receipt.TxID)
	require.Equal(t, course.ID, receipt.CourseID)
	require.Equal(t, "0xStudent", receipt.StudentAddress)
	require.NotEmpty(t, receipt.MetadataCID)
	require.Equal(t, testGateway+"/"+receipt.MetadataCID, receipt.MetadataURL)
	require.Equal(t, "2026-03-01", receipt.CompletionDate)

	cert, err := fake.Certificate(context.Background(), course.ID)
	require.NoError(t, err)
	require.Equal(t, receipt.MetadataCID, cert.MetadataCID)
	require.NotNil(t, cert.CompletedAt)

	require.Len(t, pinner.names, 1)
	require.Len(t, receipts.rows, 1)
	require.Equal(t, models.ReceiptKindIssuance, receipts.rows[0].Kind)
	require.Equal(t, receipt.MetadataCID, receipts.rows[0].ContentID)
}

func TestIssueSecondCallIsDuplicate(t *testing.T) {
	fake := newFakeLedger()
	course := readyCourse(fake)
	_, _, svc := newIssuanceFixture(t, fake)

	payload := dto.IssuanceRequest{CourseID: course.ID, StudentAddress: "0xStudent", StudentName: "Ada Lovelace"}

	_, err := svc.Issue(context.Background(), payload, "0xStudent")
	require.NoError(t, err)

	_, err = svc.Issue(context.Background(), payload, "0xStudent")
	require.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestIssueRequiresEnrollment(t *testing.T) {
	fake := newFakeLedger()
	course := fake.addCourse(ExamIntroductionToPython, "0xInstructor", ExamIntroductionToPython, "0.05")
	fake.setExamResult(course.ID, "0xStudent", true)
	_, _, svc := newIssuanceFixture(t, fake)

	_, err := svc.Issue(context.Background(), dto.IssuanceRequest{
		CourseID:       course.ID,
		StudentAddress: "0xStudent",
		StudentName:    "Ada Lovelace",
	}, "0xStudent")
	require.ErrorIs(t, err, ErrNotEnrolled)
}

func TestIssueRequiresPassedExam(t *testing.T) {
	fake := newFakeLedger()
	course := fake.addCourse(ExamIntroductionToPython, "0xInstructor", ExamIntroductionToPython, "0.05")
	fake.enroll(course.ID, "0xStudent")
	_, _, svc := newIssuanceFixture(t, fake)

	payload := dto.IssuanceRequest{CourseID: course.ID, StudentAddress: "0xStudent", StudentName: "Ada Lovelace"}

	// No attempt recorded at all.
	_, err := svc.Issue(context.Background(), payload, "0xStudent")
	require.ErrorIs(t, err, ErrExamNotPassed)

	// A recorded failure is not enough either.
	fake.setExamResult(course.ID, "0xStudent", false)
	_, err = svc.Issue(context.Background(), payload, "0xStudent")
	require.ErrorIs(t, err, ErrExamNotPassed)
}

func TestIssueThirdPartyNeedsCourseAuthority(t *testing.T) {
	fake := newFakeLedger()
	course := readyCourse(fake)
	_, _, svc := newIssuanceFixture(t, fake)

	payload := dto.IssuanceRequest{CourseID: course.ID, StudentAddress: "0xStudent", StudentName: "Ada Lovelace"}

	_, err := svc.Issue(context.Background(), payload, "0xSomeoneElse")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestIssueInstructorMayIssueForStudent(t *testing.T) {
	fake := newFakeLedger()
	course := readyCourse(fake)
	_, _, svc := newIssuanceFixture(t, fake)

	receipt, err := svc.Issue(context.Background(), dto.IssuanceRequest{
		CourseID:       course.ID,
		StudentAddress: "0xStudent",
		StudentName:    "Ada Lovelace",
	}, "0xInstructor")
	require.NoError(t, err)
	require.Equal(t, "0xStudent", receipt.StudentAddress)

	// The certificate belongs to the student, not the acting instructor.
	count, err := fake.BalanceOf(context.Background(), "0xStudent")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestIssuePlatformOwnerMayIssueForStudent(t *testing.T) {
	fake := newFakeLedger()
	course := readyCourse(fake)
	_, _, svc := newIssuanceFixture(t, fake)

	_, err := svc.Issue(context.Background(), dto.IssuanceRequest{
		CourseID:       course.ID,
		StudentAddress: "0xStudent",
		StudentName:    "Ada Lovelace",
	}, fake.owner)
	require.NoError(t, err)
}

func TestIssuePinFailureLeavesNoLedgerState(t *testing.T) {
	fake := newFakeLedger()
	course := readyCourse(fake)
	pinner, _, svc := newIssuanceFixture(t, fake)
	pinner.err = errors.New("pin service down")

	payload := dto.IssuanceRequest{CourseID: course.ID, StudentAddress: "0xStudent", StudentName: "Ada Lovelace"}

	_, err := svc.Issue(context.Background(), payload, "0xStudent")
	require.ErrorIs(t, err, ErrPinningFailed)

	require.Zero(t, fake.issueCalls)
	_, err = fake.Certificate(context.Background(), course.ID)
	require.ErrorIs(t, err, ledger.ErrNotFound)

	// Retry after the outage: same inputs pin to the same content id and
	// the write proceeds.
	pinner.err = nil
	receipt, err := svc.Issue(context.Background(), payload, "0xStudent")
	require.NoError(t, err)
	require.NotEmpty(t, receipt.MetadataCID)
}

func TestIssueRetryPinsIdenticalContentID(t *testing.T) {
	fake := newFakeLedger()
	course := readyCourse(fake)
	pinner, _, svc := newIssuanceFixture(t, fake)
	fake.issueErr = errors.New("gateway timeout")

	payload := dto.IssuanceRequest{CourseID: course.ID, StudentAddress: "0xStudent", StudentName: "Ada Lovelace"}

	_, err := svc.Issue(context.Background(), payload, "0xStudent")
	require.ErrorIs(t, err, ErrLedgerWriteFailed)

	fake.issueErr = nil
	receipt, err := svc.Issue(context.Background(), payload, "0xStudent")
	require.NoError(t, err)

	require.Len(t, pinner.cids, 2)
	require.Equal(t, pinner.cids[0], pinner.cids[1])
	require.Equal(t, pinner.cids[1], receipt.MetadataCID)
}

func TestIssueLostRaceReadsAsDuplicate(t *testing.T) {
	fake := newFakeLedger()
	course := readyCourse(fake)
	raced := &racedCompletionLedger{fakeLedger: fake}
	_, _, svc := newIssuanceFixture(t, raced)

	_, err := svc.Issue(context.Background(), dto.IssuanceRequest{
		CourseID:       course.ID,
		StudentAddress: "0xStudent",
		StudentName:    "Ada Lovelace",
	}, "0xStudent")
	require.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestIssueCourseNotFound(t *testing.T) {
	fake := newFakeLedger()
	_, _, svc := newIssuanceFixture(t, fake)

	_, err := svc.Issue(context.Background(), dto.IssuanceRequest{
		CourseID:       99,
		StudentAddress: "0xStudent",
		StudentName:    "Ada Lovelace",
	}, "0xStudent")
	require.ErrorIs(t, err, ErrCourseNotFound)
}

// racedCompletionLedger simulates another session winning the issuance race
// between the duplicate check and the final write: the early read sees no
// completion, the write is rejected, and the re-read sees the winner's date.
type racedCompletionLedger struct {
	*fakeLedger
	issued bool
}

func (r *racedCompletionLedger) CompletionDate(ctx context.Context, courseID uint64, student string) (*time.Time, error) {
	if !r.issued {
		return nil, nil
	}
	completed := fakeClockBase
	return &completed, nil
}

func (r *racedCompletionLedger) MarkCompletionAndIssueCertificate(ctx context.Context, courseID uint64, student, studentName, metadataCID, from string) (ledger.TxID, error) {
	r.issued = true
	return "", ledger.ErrRejected
}
