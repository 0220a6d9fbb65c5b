package repositories

import (
	"time"

	"blog-api/models"

	"gorm.io/gorm"
)

const commentCountSelect = "articles.*, (SELECT COUNT(*) FROM comments WHERE comments.article_id = articles.id) AS comment_count"

// ArticleFilter is a validated list query. Order must be a trusted SQL
// ORDER BY clause.
type ArticleFilter struct {
	Search        string
	Tag           string
	Author        string
	Status        models.ArticleStatus
	PublishedOnly bool
	From          *time.Time
	To            *time.Time
	Order         string
	Page          models.PageParams
}

type ArticleRepository interface {
	WithTx(tx *gorm.DB) ArticleRepository
	Create(article *models.Article) error
	GetByID(id uint) (*models.Article, error)
	GetList(filter ArticleFilter) ([]models.Article, int64, error)
	TitleExists(title string, excludeID uint) (bool, error)
	Update(article *models.Article) error
	Delete(id uint) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) WithTx(tx *gorm.DB) ArticleRepository {
	return &articleRepository{db: tx}
}

func (r *articleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.Select(commentCountSelect).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name asc") }).
		First(&article, id).Error
	return &article, err
}

func (r *articleRepository) GetList(filter ArticleFilter) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	query := r.db.Model(&models.Article{})

	if filter.PublishedOnly {
		query = query.Where("articles.status = ?", models.StatusPublished)
	} else if filter.Status != "" {
		query = query.Where("articles.status = ?", filter.Status)
	}

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			r.db.Where("LOWER(articles.title) LIKE ? ESCAPE '\\'", pattern).
				Or("LOWER(articles.content) LIKE ? ESCAPE '\\'", pattern).
				Or("articles.author_id IN (SELECT id FROM users WHERE LOWER(users.username) LIKE ? ESCAPE '\\')", pattern).
				Or("articles.id IN (SELECT article_tags.article_id FROM article_tags JOIN tags ON tags.id = article_tags.tag_id WHERE LOWER(tags.name) LIKE ? ESCAPE '\\')", pattern),
		)
	}

	if filter.Tag != "" {
		query = query.Where("articles.id IN (SELECT article_tags.article_id FROM article_tags JOIN tags ON tags.id = article_tags.tag_id WHERE LOWER(tags.name) LIKE ? ESCAPE '\\')", likePattern(filter.Tag))
	}

	if filter.Author != "" {
		query = query.Where("articles.author_id IN (SELECT id FROM users WHERE LOWER(users.username) LIKE ? ESCAPE '\\')", likePattern(filter.Author))
	}

	if filter.From != nil {
		query = query.Where("articles.publication_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("articles.publication_date <= ?", *filter.To)
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := filter.Order
	if order == "" {
		order = "articles.publication_date desc, articles.id desc"
	}

	err := query.Session(&gorm.Session{}).
		Select(commentCountSelect).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name asc") }).
		Order(order).
		Offset(filter.Page.Offset()).Limit(filter.Page.PageSize).
		Find(&articles).Error

	return articles, total, err
}

func (r *articleRepository) TitleExists(title string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.Article{}).Where("LOWER(title) = LOWER(?)", title)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Update saves the scalar fields and replaces the tag set.
func (r *articleRepository) Update(article *models.Article) error {
	article.UpdatedAt = time.Now()
	err := r.db.Model(article).
		Select("title", "content", "status", "updated_at").
		Updates(map[string]interface{}{
			"title":      article.Title,
			"content":    article.Content,
			"status":     article.Status,
			"updated_at": article.UpdatedAt,
		}).Error
	if err != nil {
		return err
	}
	if len(article.Tags) == 0 {
		return r.db.Model(article).Association("Tags").Clear()
	}
	return r.db.Model(article).Association("Tags").Replace(article.Tags)
}

// Delete removes the article with its comments and tag links.
func (r *articleRepository) Delete(id uint) error {
	if err := r.db.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := r.db.Exec("DELETE FROM article_tags WHERE article_id = ?", id).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Article{}, id).Error
}
