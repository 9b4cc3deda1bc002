package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/skillified/skillified-api/internal/models"
)

// ReceiptRepository persists the local audit journal of ledger writes.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *models.Receipt) error
	ListByStudent(ctx context.Context, studentAddress string) ([]models.Receipt, error)
	ListRecent(ctx context.Context, limit int) ([]models.Receipt, error)
}

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository constructs a gorm-backed receipt repository.
func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *models.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *receiptRepository) ListByStudent(ctx context.Context, studentAddress string) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := r.db.WithContext(ctx).
		Where("student_address = ?", studentAddress).
		Order("created_at desc").
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) ListRecent(ctx context.Context, limit int) ([]models.Receipt, error) {
	if limit <= 0 {
		limit = 50
	}

	var receipts []models.Receipt
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&receipts).Error
	return receipts, err
}
