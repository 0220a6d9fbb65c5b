package models

import (
	"time"
)

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"
)

func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

type Article struct {
	ID              uint          `json:"id" gorm:"primarykey"`
	Title           string        `json:"title" gorm:"uniqueIndex;size:200;not null"`
	Content         string        `json:"content" gorm:"type:text;not null"`
	AuthorID        uint          `json:"author_id" gorm:"not null;index"`
	Author          User          `json:"-" gorm:"foreignKey:AuthorID"`
	Tags            []Tag         `json:"-" gorm:"many2many:article_tags;"`
	Status          ArticleStatus `json:"status" gorm:"size:10;not null;default:'draft';index"`
	PublicationDate time.Time     `json:"publication_date" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time     `json:"updated_at"`
	// CommentCount is computed by the repository on reads.
	CommentCount int64 `json:"comment_count" gorm:"->;-:migration"`
}

// TagNames returns the article's tag labels in stored order.
func (a *Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		names = append(names, t.Name)
	}
	return names
}

func (a *Article) AuthorUsername() string {
	return a.Author.Username
}

// IsPublished reports whether anonymous readers may see the article.
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}
