package models

import "time"

type Comment struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	Author    User      `json:"-" gorm:"foreignKey:AuthorID"`
	ArticleID uint      `json:"article_id" gorm:"not null;index"`
	Article   *Article  `json:"-" gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE;"`
	ReplyToID *uint     `json:"reply_to" gorm:"index"`
	ReplyTo   *Comment  `json:"-" gorm:"foreignKey:ReplyToID;constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTopLevel reports whether the comment is attached directly to its article.
func (c *Comment) IsTopLevel() bool {
	return c.ReplyToID == nil
}

func (c *Comment) AuthorUsername() string {
	return c.Author.Username
}
