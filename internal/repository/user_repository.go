package repository

import (
	"cater-menu-backend/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	GetByUsername(username string) (*models.AdminUser, error)
	Create(user *models.AdminUser) error
	Count() (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByUsername(username string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(user *models.AdminUser) error {
	return r.db.Create(user).Error
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.AdminUser{}).Count(&count).Error
	return count, err
}
