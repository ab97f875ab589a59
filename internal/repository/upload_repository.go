package repository

import (
	"cater-menu-backend/internal/models"

	"gorm.io/gorm"
)

type UploadRepository interface {
	Create(upload *models.MenuUpload) error
	List() ([]models.MenuUpload, error)
}

type uploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(upload *models.MenuUpload) error {
	return r.db.Create(upload).Error
}

func (r *uploadRepository) List() ([]models.MenuUpload, error) {
	var uploads []models.MenuUpload
	err := r.db.Order("created_at DESC").Find(&uploads).Error
	return uploads, err
}
