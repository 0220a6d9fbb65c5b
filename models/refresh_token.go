package models

import "time"

// RefreshToken records an issued refresh token by its JWT id so it can be
// revoked. The signed token itself is never stored.
type RefreshToken struct {
	ID        uint       `gorm:"primarykey"`
	JTI       string     `gorm:"column:jti;uniqueIndex;size:36;not null"`
	UserID    uint       `gorm:"not null;index"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	RevokedAt *time.Time `gorm:"index"`
	CreatedAt time.Time
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}
