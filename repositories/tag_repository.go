package repositories

import (
	"strings"

	"blog-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const articleCountSelect = "tags.*, (SELECT COUNT(*) FROM article_tags JOIN articles ON articles.id = article_tags.article_id WHERE article_tags.tag_id = tags.id AND articles.status = 'published') AS article_count"

type TagRepository interface {
	WithTx(tx *gorm.DB) TagRepository
	Create(tag *models.Tag) error
	GetByName(name string) (*models.Tag, error)
	GetByID(id uint) (*models.Tag, error)
	GetList(search string, page models.PageParams) ([]models.Tag, int64, error)
	FindOrCreate(names []string) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return &tagRepository{db: tx}
}

func (r *tagRepository) Create(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

func (r *tagRepository) GetByName(name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Select(articleCountSelect).Where("LOWER(tags.name) = ?", strings.ToLower(name)).First(&tag).Error
	return &tag, err
}

func (r *tagRepository) GetByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Select(articleCountSelect).First(&tag, id).Error
	return &tag, err
}

func (r *tagRepository) GetList(search string, page models.PageParams) ([]models.Tag, int64, error) {
	var tags []models.Tag
	var total int64

	query := r.db.Model(&models.Tag{})
	if search != "" {
		query = query.Where("LOWER(tags.name) LIKE ? ESCAPE '\\'", likePattern(search))
	}
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Session(&gorm.Session{}).
		Select(articleCountSelect).
		Order("article_count desc, tags.name asc").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&tags).Error
	return tags, total, err
}

// FindOrCreate returns one tag per name, inserting the missing ones. Names
// match case-insensitively and an existing tag keeps its stored spelling.
// Order follows names.
func (r *tagRepository) FindOrCreate(names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return []models.Tag{}, nil
	}

	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, strings.ToLower(name))
	}

	byKey, err := r.findByKeys(keys)
	if err != nil {
		return nil, err
	}

	var missing []models.Tag
	queued := make(map[string]bool)
	for i, name := range names {
		if _, ok := byKey[keys[i]]; ok || queued[keys[i]] {
			continue
		}
		queued[keys[i]] = true
		missing = append(missing, models.Tag{Name: name})
	}
	if len(missing) > 0 {
		if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&missing).Error; err != nil {
			return nil, err
		}
		if byKey, err = r.findByKeys(keys); err != nil {
			return nil, err
		}
	}

	tags := make([]models.Tag, 0, len(names))
	for _, key := range keys {
		if t, ok := byKey[key]; ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (r *tagRepository) findByKeys(keys []string) (map[string]models.Tag, error) {
	var found []models.Tag
	if err := r.db.Where("LOWER(tags.name) IN ?", keys).Order("tags.id asc").Find(&found).Error; err != nil {
		return nil, err
	}
	byKey := make(map[string]models.Tag, len(found))
	for _, t := range found {
		key := strings.ToLower(t.Name)
		if _, ok := byKey[key]; !ok {
			byKey[key] = t
		}
	}
	return byKey, nil
}
