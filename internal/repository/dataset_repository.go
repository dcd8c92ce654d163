package repository

import (
	"copo_analysis_backend/internal/model"

	"gorm.io/gorm"
)

type DatasetUploadRepository struct {
	DB *gorm.DB
}

func NewDatasetUploadRepository(db *gorm.DB) *DatasetUploadRepository {
	return &DatasetUploadRepository{DB: db}
}

func (r *DatasetUploadRepository) Create(upload *model.DatasetUpload) error {
	return r.DB.Create(upload).Error
}

func (r *DatasetUploadRepository) FindByID(id string) (*model.DatasetUpload, error) {
	var upload model.DatasetUpload
	err := r.DB.Where("id = ?", id).First(&upload).Error
	return &upload, err
}

func (r *DatasetUploadRepository) ListByUser(userID uint, page, limit int) ([]model.DatasetUpload, int64, error) {
	var uploads []model.DatasetUpload
	var total int64

	query := r.DB.Model(&model.DatasetUpload{}).Where("uploaded_by = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&uploads).Error
	return uploads, total, err
}

func (r *DatasetUploadRepository) UpdateStatus(id, status string) error {
	return r.DB.Model(&model.DatasetUpload{}).
		Where("id = ?", id).
		Update("status", status).Error
}
