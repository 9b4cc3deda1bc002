package models

import "time"

// Receipt kinds recorded in the local audit journal.
const (
	ReceiptKindEnrollment   = "enrollment"
	ReceiptKindExamResult   = "exam_result"
	ReceiptKindIssuance     = "issuance"
	ReceiptKindCourseCreate = "course_create"
)

// Receipt is a local audit row for one confirmed ledger write. The journal
// is display-only; workflow decisions always re-read the ledger.
type Receipt struct {
	ID             uint   `gorm:"primaryKey"`
	Kind           string `gorm:"index;size:32"`
	CourseID       uint64 `gorm:"index"`
	ActorAddress   string `gorm:"size:64"`
	StudentAddress string `gorm:"index;size:64"`
	TxID           string `gorm:"size:128"`
	ContentID      string `gorm:"size:128"`
	CreatedAt      time.Time
}
