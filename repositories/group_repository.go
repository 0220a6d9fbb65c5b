package repositories

import (
	"blog-api/models"

	"gorm.io/gorm"
)

type GroupRepository interface {
	WithTx(tx *gorm.DB) GroupRepository
	GetByName(name string) (*models.Group, error)
	GetAll() ([]models.Group, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) WithTx(tx *gorm.DB) GroupRepository {
	return &groupRepository{db: tx}
}

func (r *groupRepository) GetByName(name string) (*models.Group, error) {
	var group models.Group
	err := r.db.Where("name = ?", name).First(&group).Error
	return &group, err
}

func (r *groupRepository) GetAll() ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Order("name asc").Find(&groups).Error
	return groups, err
}
