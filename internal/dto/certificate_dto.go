package dto

// CertificateResponse describes one owned certificate token.
type CertificateResponse struct {
	TokenID        uint64 `json:"token_id"`
	CourseID       uint64 `json:"course_id"`
	CourseTitle    string `json:"course_title"`
	ImageURL       string `json:"image_url"`
	MetadataURL    string `json:"metadata_url"`
	CompletionDate string `json:"completion_date"`
}

// ReceiptResponse is one audit journal row.
type ReceiptResponse struct {
	Kind           string `json:"kind"`
	CourseID       uint64 `json:"course_id"`
	ActorAddress   string `json:"actor_address"`
	StudentAddress string `json:"student_address,omitempty"`
	TxID           string `json:"tx_id"`
	ContentID      string `json:"content_id,omitempty"`
	CreatedAt      string `json:"created_at"`
}
