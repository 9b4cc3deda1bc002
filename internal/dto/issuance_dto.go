package dto

// IssuanceRequest asks the saga to mark completion and issue a certificate.
// The acting address comes from the authenticated session, not the payload.
type IssuanceRequest struct {
	CourseID       uint64 `json:"course_id"`
	StudentAddress string `json:"student_address" validate:"required"`
	StudentName    string `json:"student_name" validate:"required,min=1,max=120"`
}

// IssuanceReceipt reports a completed issuance saga: the ledger transaction
// plus the pinned metadata document.
type IssuanceReceipt struct {
	TxID           string `json:"tx_id"`
	CourseID       uint64 `json:"course_id"`
	StudentAddress string `json:"student_address"`
	MetadataCID    string `json:"metadata_cid"`
	MetadataURL    string `json:"metadata_url"`
	CompletionDate string `json:"completion_date"`
}
