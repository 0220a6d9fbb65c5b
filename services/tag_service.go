package services

import (
	"strings"

	"blog-api/models"
	"blog-api/policy"
	"blog-api/repositories"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TagService interface {
	CreateTag(actor *policy.Actor, req models.CreateTagRequest) (*models.Tag, error)
	GetTags(search string, page models.PageParams) ([]models.Tag, int64, error)
	GetTag(id uint) (*models.Tag, error)
}

type tagService struct {
	tagRepo repositories.TagRepository
	policy  *policy.Policy
}

func NewTagService(tagRepo repositories.TagRepository, p *policy.Policy) TagService {
	return &tagService{tagRepo: tagRepo, policy: p}
}

// CreateTag is limited to the same actors that may write articles.
func (s *tagService) CreateTag(actor *policy.Actor, req models.CreateTagRequest) (*models.Tag, error) {
	if err := s.policy.Authorize(actor, policy.ActionCreate, policy.Article(0)); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.FieldError("Invalid tag", "name", "This field may not be blank.")
	}
	if containsHTML(name) {
		return nil, models.FieldError("Invalid tag", "name", "Tag cannot contain HTML tags")
	}

	_, err := s.tagRepo.GetByName(name)
	if err == nil {
		return nil, models.FieldError("Invalid tag", "name", "Tag with this name already exists.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "check tag")
	}

	tag := &models.Tag{Name: name}
	if err := s.tagRepo.Create(tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.FieldError("Invalid tag", "name", "Tag with this name already exists.")
		}
		return nil, errors.Wrap(err, "create tag")
	}
	return tag, nil
}

func (s *tagService) GetTags(search string, page models.PageParams) ([]models.Tag, int64, error) {
	tags, total, err := s.tagRepo.GetList(strings.TrimSpace(search), page.Normalized())
	if err != nil {
		return nil, 0, errors.Wrap(err, "list tags")
	}
	return tags, total, nil
}

func (s *tagService) GetTag(id uint) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "Tag not found"}
		}
		return nil, errors.Wrap(err, "load tag")
	}
	return tag, nil
}
