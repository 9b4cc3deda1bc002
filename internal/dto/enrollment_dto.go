package dto

// EnrollmentRequest carries a student's self-enrollment payload.
type EnrollmentRequest struct {
	CourseID    uint64 `json:"course_id"`
	StudentName string `json:"student_name" validate:"required,min=1,max=120"`
}

// EnrollmentReceipt reports a confirmed enrollment ledger write.
type EnrollmentReceipt struct {
	TxID           string `json:"tx_id"`
	CourseID       uint64 `json:"course_id"`
	CourseTitle    string `json:"course_title"`
	StudentAddress string `json:"student_address"`
	StudentName    string `json:"student_name"`
	FeePaid        string `json:"fee_paid"`
}
