package models

import (
	"time"
)

type Tag struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	CreatedAt time.Time `json:"created_at"`
	// ArticleCount is filled by listing queries only.
	ArticleCount int64 `json:"article_count" gorm:"->;-:migration"`
}
