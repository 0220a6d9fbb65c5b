package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"blog-api/models"
	"blog-api/policy"
	"blog-api/repositories"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var errArticleNotFound = models.ErrorNotFound{Message: "Article not found"}

// articleOrderings maps the accepted ordering values to ORDER BY clauses.
var articleOrderings = map[string]string{
	"publication_date":  "articles.publication_date asc, articles.id asc",
	"-publication_date": "articles.publication_date desc, articles.id desc",
	"title":             "articles.title asc",
	"-title":            "articles.title desc",
	"updated_at":        "articles.updated_at asc, articles.id asc",
	"-updated_at":       "articles.updated_at desc, articles.id desc",
	"comment_count":     "comment_count asc, articles.publication_date desc, articles.id desc",
	"-comment_count":    "comment_count desc, articles.publication_date desc, articles.id desc",
}

type ArticleService interface {
	GetArticles(actor *policy.Actor, params models.ArticleListParams) ([]models.Article, int64, error)
	GetPopular(actor *policy.Actor, page models.PageParams) ([]models.Article, int64, error)
	GetArticle(actor *policy.Actor, id uint) (*models.Article, error)
	CreateArticle(actor *policy.Actor, req models.CreateArticleRequest) (*models.Article, error)
	UpdateArticle(actor *policy.Actor, id uint, req models.UpdateArticleRequest) (*models.Article, error)
	DeleteArticle(actor *policy.Actor, id uint) error
}

type articleService struct {
	tx          repositories.Transactor
	articleRepo repositories.ArticleRepository
	tagRepo     repositories.TagRepository
	policy      *policy.Policy
}

func NewArticleService(tx repositories.Transactor, articleRepo repositories.ArticleRepository, tagRepo repositories.TagRepository, p *policy.Policy) ArticleService {
	return &articleService{
		tx:          tx,
		articleRepo: articleRepo,
		tagRepo:     tagRepo,
		policy:      p,
	}
}

func (s *articleService) GetArticles(actor *policy.Actor, params models.ArticleListParams) ([]models.Article, int64, error) {
	filter := repositories.ArticleFilter{
		Search: strings.TrimSpace(params.Search),
		Tag:    strings.TrimSpace(params.Tag),
		Author: strings.TrimSpace(params.Author),
		Order:  articleOrderings[params.Ordering],
		Page:   params.PageParams.Normalized(),
	}

	if s.policy.CanSeeUnpublished(actor) {
		if params.Status != "" {
			status := models.ArticleStatus(params.Status)
			if !status.Valid() {
				return nil, 0, models.FieldError("Invalid filter", "status", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", params.Status))
			}
			filter.Status = status
		}
	} else {
		filter.PublishedOnly = true
	}

	verr := models.NewValidationError("Invalid filter")
	if params.StartDate != "" {
		from, err := parseDateBound(params.StartDate, false)
		if err != nil {
			verr.Add("start_date", "Enter a valid date.")
		}
		filter.From = from
	}
	if params.EndDate != "" {
		to, err := parseDateBound(params.EndDate, true)
		if err != nil {
			verr.Add("end_date", "Enter a valid date.")
		}
		filter.To = to
	}
	if err := verr.OrNil(); err != nil {
		return nil, 0, err
	}

	articles, total, err := s.articleRepo.GetList(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list articles")
	}
	return articles, total, nil
}

func (s *articleService) GetPopular(actor *policy.Actor, page models.PageParams) ([]models.Article, int64, error) {
	filter := repositories.ArticleFilter{
		PublishedOnly: !s.policy.CanSeeUnpublished(actor),
		Order:         articleOrderings["-comment_count"],
		Page:          page.Normalized(),
	}
	articles, total, err := s.articleRepo.GetList(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list popular articles")
	}
	return articles, total, nil
}

// GetArticle hides unpublished articles from readers behind a plain 404.
func (s *articleService) GetArticle(actor *policy.Actor, id uint) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errArticleNotFound
		}
		return nil, errors.Wrap(err, "load article")
	}
	if !article.IsPublished() && !s.policy.CanSeeUnpublished(actor) {
		return nil, errArticleNotFound
	}
	return article, nil
}

func (s *articleService) CreateArticle(actor *policy.Actor, req models.CreateArticleRequest) (*models.Article, error) {
	if err := s.policy.Authorize(actor, policy.ActionCreate, policy.Article(0)); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}
	article := &models.Article{
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		AuthorID: actor.UserID,
		Status:   status,
	}
	if err := s.validate(article, 0); err != nil {
		return nil, err
	}

	err := s.tx.Transaction(func(tx *gorm.DB) error {
		tags, err := s.tagRepo.WithTx(tx).FindOrCreate(normalizeTags(req.Tags))
		if err != nil {
			return errors.Wrap(err, "resolve tags")
		}
		article.Tags = tags
		return s.articleRepo.WithTx(tx).Create(article)
	})
	if err != nil {
		return nil, s.translateWriteError(err)
	}

	return s.reload(article.ID)
}

// UpdateArticle applies the non-nil fields of req and validates the merged
// article. A full replacement sets every field.
func (s *articleService) UpdateArticle(actor *policy.Actor, id uint, req models.UpdateArticleRequest) (*models.Article, error) {
	article, err := s.GetArticle(actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, policy.ActionUpdate, policy.Article(article.AuthorID)); err != nil {
		return nil, err
	}

	if req.Title != nil {
		article.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.Status != nil {
		article.Status = *req.Status
	}
	if err := s.validate(article, article.ID); err != nil {
		return nil, err
	}

	err = s.tx.Transaction(func(tx *gorm.DB) error {
		if req.Tags != nil {
			tags, err := s.tagRepo.WithTx(tx).FindOrCreate(normalizeTags(*req.Tags))
			if err != nil {
				return errors.Wrap(err, "resolve tags")
			}
			article.Tags = tags
		}
		return s.articleRepo.WithTx(tx).Update(article)
	})
	if err != nil {
		return nil, s.translateWriteError(err)
	}

	return s.reload(article.ID)
}

func (s *articleService) DeleteArticle(actor *policy.Actor, id uint) error {
	article, err := s.GetArticle(actor, id)
	if err != nil {
		return err
	}
	if err := s.policy.Authorize(actor, policy.ActionDelete, policy.Article(article.AuthorID)); err != nil {
		return err
	}

	err = s.tx.Transaction(func(tx *gorm.DB) error {
		return s.articleRepo.WithTx(tx).Delete(article.ID)
	})
	return errors.Wrap(err, "delete article")
}

// validate collects every problem with the article's title, content and
// status. excludeID skips the article itself in the uniqueness check.
func (s *articleService) validate(article *models.Article, excludeID uint) error {
	verr := models.NewValidationError("Invalid article")

	switch n := utf8.RuneCountInString(article.Title); {
	case strings.TrimSpace(article.Title) == "":
		verr.Add("title", "This field may not be blank.")
	case n < 5:
		verr.Add("title", "Title must be at least 5 characters long")
	case n > 200:
		verr.Add("title", "Ensure this field has no more than 200 characters.")
	}
	if word, found := containsBlockedWord(article.Title); found {
		verr.Add("title", fmt.Sprintf("Title contains inappropriate word: '%s'", word))
	}
	if containsHTML(article.Title) {
		verr.Add("title", "Title cannot contain HTML tags")
	}

	switch {
	case strings.TrimSpace(article.Content) == "":
		verr.Add("content", "This field may not be blank.")
	case utf8.RuneCountInString(article.Content) < 10:
		verr.Add("content", "Content must be at least 10 characters long")
	}
	if word, found := containsBlockedWord(article.Content); found {
		verr.Add("content", fmt.Sprintf("Content contains inappropriate word: '%s'", word))
	}

	if !article.Status.Valid() {
		verr.Add("status", fmt.Sprintf("\"%s\" is not a valid choice.", article.Status))
	}

	if article.Title != "" && strings.EqualFold(strings.TrimSpace(article.Title), strings.TrimSpace(article.Content)) {
		verr.Add("non_field_errors", "Content cannot be identical to the title")
	}

	if article.Title != "" {
		exists, err := s.articleRepo.TitleExists(article.Title, excludeID)
		if err != nil {
			return errors.Wrap(err, "check title")
		}
		if exists {
			verr.Add("title", "Article with this title already exists.")
		}
	}

	return verr.OrNil()
}

func (s *articleService) translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.FieldError("Invalid article", "title", "Article with this title already exists.")
	}
	return errors.Wrap(err, "save article")
}

func (s *articleService) reload(id uint) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "reload article")
	}
	return article, nil
}

// parseDateBound accepts YYYY-MM-DD or RFC3339. A bare end date covers the
// whole day.
func parseDateBound(value string, end bool) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, err
	}
	if end {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
