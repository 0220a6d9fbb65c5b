package repositories

import (
	"time"

	"blog-api/models"

	"gorm.io/gorm"
)

type RefreshTokenRepository interface {
	WithTx(tx *gorm.DB) RefreshTokenRepository
	Create(token *models.RefreshToken) error
	GetByJTI(jti string) (*models.RefreshToken, error)
	RevokeAllForUser(userID uint, at time.Time) (int64, error)
	DeleteExpired(before time.Time) (int64, error)
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) WithTx(tx *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: tx}
}

func (r *refreshTokenRepository) Create(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *refreshTokenRepository) GetByJTI(jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.db.Where("jti = ?", jti).First(&token).Error
	return &token, err
}

func (r *refreshTokenRepository) RevokeAllForUser(userID uint, at time.Time) (int64, error) {
	res := r.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at)
	return res.RowsAffected, res.Error
}

func (r *refreshTokenRepository) DeleteExpired(before time.Time) (int64, error) {
	res := r.db.Where("expires_at < ?", before).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
