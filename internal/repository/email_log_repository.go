package repository

import (
	"copo_analysis_backend/internal/model"

	"gorm.io/gorm"
)

type EmailLogRepository struct {
	DB *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) *EmailLogRepository {
	return &EmailLogRepository{DB: db}
}

func (r *EmailLogRepository) Create(log *model.EmailLog) error {
	return r.DB.Create(log).Error
}

func (r *EmailLogRepository) ListByDataset(datasetID string, page, limit int) ([]model.EmailLog, int64, error) {
	var logs []model.EmailLog
	var total int64

	query := r.DB.Model(&model.EmailLog{}).Where("dataset_id = ?", datasetID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error
	return logs, total, err
}

func (r *EmailLogRepository) ListByStudent(studentID string) ([]model.EmailLog, error) {
	var logs []model.EmailLog
	err := r.DB.Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
