package repositories

import (
	"blog-api/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	WithTx(tx *gorm.DB) CommentRepository
	Create(comment *models.Comment) error
	GetByID(id uint) (*models.Comment, error)
	GetTopLevel(articleID uint, page models.PageParams) ([]models.Comment, int64, error)
	GetReplies(articleID uint) ([]models.Comment, error)
	Depth(id uint) (int, error)
	UpdateContent(comment *models.Comment) error
	DeleteTree(id uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return err
	}
	return r.db.Preload("Author").First(comment, comment.ID).Error
}

func (r *commentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Author").First(&comment, id).Error
	return &comment, err
}

func (r *commentRepository) GetTopLevel(articleID uint, page models.PageParams) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	query := r.db.Model(&models.Comment{}).Where("article_id = ? AND reply_to_id IS NULL", articleID)
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Session(&gorm.Session{}).
		Preload("Author").
		Order("created_at asc, id asc").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&comments).Error
	return comments, total, err
}

// GetReplies returns every non top-level comment of the article, oldest first.
func (r *commentRepository) GetReplies(articleID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").
		Where("article_id = ? AND reply_to_id IS NOT NULL", articleID).
		Order("created_at asc, id asc").
		Find(&comments).Error
	return comments, err
}

// Depth counts the ancestors of a comment; a top-level comment has depth 0.
func (r *commentRepository) Depth(id uint) (int, error) {
	depth := 0
	current := id
	seen := map[uint]bool{}
	for {
		var parent struct{ ReplyToID *uint }
		err := r.db.Model(&models.Comment{}).Select("reply_to_id").Where("id = ?", current).Take(&parent).Error
		if err != nil {
			return 0, err
		}
		if parent.ReplyToID == nil || seen[*parent.ReplyToID] {
			return depth, nil
		}
		seen[current] = true
		current = *parent.ReplyToID
		depth++
	}
}

func (r *commentRepository) UpdateContent(comment *models.Comment) error {
	return r.db.Model(comment).Update("content", comment.Content).Error
}

// DeleteTree deletes the comment and all of its replies, returning the
// number of rows removed.
func (r *commentRepository) DeleteTree(id uint) (int64, error) {
	ids := []uint{id}
	frontier := []uint{id}
	for len(frontier) > 0 {
		var children []uint
		err := r.db.Model(&models.Comment{}).Where("reply_to_id IN ?", frontier).Pluck("id", &children).Error
		if err != nil {
			return 0, err
		}
		ids = append(ids, children...)
		frontier = children
	}

	// Leaves first so reply_to references never dangle mid-statement.
	var deleted int64
	for i := len(ids) - 1; i >= 0; i-- {
		res := r.db.Delete(&models.Comment{}, ids[i])
		if res.Error != nil {
			return 0, res.Error
		}
		deleted += res.RowsAffected
	}
	return deleted, nil
}
