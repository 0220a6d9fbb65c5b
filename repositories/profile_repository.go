package repositories

import (
	"blog-api/models"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	GetByUserID(userID uint) (*models.Profile, error)
	Update(profile *models.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	return &profile, err
}

func (r *profileRepository) Update(profile *models.Profile) error {
	return r.db.Select("bio", "birth_date", "profile_pic").Updates(profile).Error
}
