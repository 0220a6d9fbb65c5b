package services

import (
	"fmt"
	"unicode/utf8"

	"blog-api/models"
	"blog-api/policy"
	"blog-api/repositories"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var errCommentNotFound = models.ErrorNotFound{Message: "Comment not found"}

type CommentService interface {
	GetArticleComments(actor *policy.Actor, articleID uint, page models.PageParams) ([]models.CommentResponse, int64, error)
	GetComment(actor *policy.Actor, id uint) (*models.CommentResponse, error)
	CreateComment(actor *policy.Actor, articleID uint, req models.CreateCommentRequest) (*models.CommentResponse, error)
	Reply(actor *policy.Actor, parentID uint, req models.UpdateCommentRequest) (*models.CommentResponse, error)
	UpdateComment(actor *policy.Actor, id uint, req models.UpdateCommentRequest) (*models.CommentResponse, error)
	DeleteComment(actor *policy.Actor, id uint) error
}

type commentService struct {
	tx            repositories.Transactor
	commentRepo   repositories.CommentRepository
	articles      ArticleService
	policy        *policy.Policy
	maxReplyDepth int
}

// NewCommentService builds the comment service. maxReplyDepth bounds how
// deep replies may nest; 0 disables the limit.
func NewCommentService(tx repositories.Transactor, commentRepo repositories.CommentRepository, articles ArticleService, p *policy.Policy, maxReplyDepth int) CommentService {
	return &commentService{
		tx:            tx,
		commentRepo:   commentRepo,
		articles:      articles,
		policy:        p,
		maxReplyDepth: maxReplyDepth,
	}
}

// GetArticleComments lists top-level comments with their reply threads.
func (s *commentService) GetArticleComments(actor *policy.Actor, articleID uint, page models.PageParams) ([]models.CommentResponse, int64, error) {
	if _, err := s.articles.GetArticle(actor, articleID); err != nil {
		return nil, 0, err
	}

	top, total, err := s.commentRepo.GetTopLevel(articleID, page.Normalized())
	if err != nil {
		return nil, 0, errors.Wrap(err, "list comments")
	}
	replies, err := s.commentRepo.GetReplies(articleID)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list replies")
	}

	children := groupReplies(replies)
	out := make([]models.CommentResponse, 0, len(top))
	for i := range top {
		resp, err := buildThread(&top[i], children)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, resp)
	}
	return out, total, nil
}

func (s *commentService) GetComment(actor *policy.Actor, id uint) (*models.CommentResponse, error) {
	comment, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	return s.thread(comment)
}

func (s *commentService) CreateComment(actor *policy.Actor, articleID uint, req models.CreateCommentRequest) (*models.CommentResponse, error) {
	if err := s.policy.Authorize(actor, policy.ActionCreate, policy.Comment(0)); err != nil {
		return nil, err
	}
	if _, err := s.articles.GetArticle(actor, articleID); err != nil {
		return nil, err
	}

	verr := validateCommentContent(req.Content)

	if req.ReplyTo != nil {
		parent, err := s.commentRepo.GetByID(*req.ReplyTo)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			verr.Add("reply_to", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *req.ReplyTo))
		case err != nil:
			return nil, errors.Wrap(err, "load parent comment")
		case parent.ArticleID != articleID:
			verr.Add("reply_to", "Reply must be to a comment on the same article")
		default:
			if err := s.checkDepth(parent.ID, verr); err != nil {
				return nil, err
			}
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:   req.Content,
		AuthorID:  actor.UserID,
		ArticleID: articleID,
		ReplyToID: req.ReplyTo,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, errors.Wrap(err, "create comment")
	}
	resp, err := models.NewCommentResponse(comment)
	if err != nil {
		return nil, errors.Wrap(err, "map comment")
	}
	return &resp, nil
}

// Reply answers an existing comment on the parent's article.
func (s *commentService) Reply(actor *policy.Actor, parentID uint, req models.UpdateCommentRequest) (*models.CommentResponse, error) {
	if err := s.policy.Authorize(actor, policy.ActionCreate, policy.Comment(0)); err != nil {
		return nil, err
	}
	parent, err := s.load(actor, parentID)
	if err != nil {
		return nil, err
	}
	return s.CreateComment(actor, parent.ArticleID, models.CreateCommentRequest{
		Content: req.Content,
		ReplyTo: &parent.ID,
	})
}

func (s *commentService) UpdateComment(actor *policy.Actor, id uint, req models.UpdateCommentRequest) (*models.CommentResponse, error) {
	comment, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, policy.ActionUpdate, policy.Comment(comment.AuthorID)); err != nil {
		return nil, err
	}
	if err := validateCommentContent(req.Content).OrNil(); err != nil {
		return nil, err
	}

	comment.Content = req.Content
	if err := s.commentRepo.UpdateContent(comment); err != nil {
		return nil, errors.Wrap(err, "update comment")
	}
	return s.thread(comment)
}

// DeleteComment removes the comment and its whole reply subtree.
func (s *commentService) DeleteComment(actor *policy.Actor, id uint) error {
	comment, err := s.load(actor, id)
	if err != nil {
		return err
	}
	if err := s.policy.Authorize(actor, policy.ActionDelete, policy.Comment(comment.AuthorID)); err != nil {
		return err
	}

	err = s.tx.Transaction(func(tx *gorm.DB) error {
		_, err := s.commentRepo.WithTx(tx).DeleteTree(comment.ID)
		return err
	})
	return errors.Wrap(err, "delete comment")
}

// load fetches a comment whose article is visible to the actor.
func (s *commentService) load(actor *policy.Actor, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errCommentNotFound
		}
		return nil, errors.Wrap(err, "load comment")
	}
	if _, err := s.articles.GetArticle(actor, comment.ArticleID); err != nil {
		var nf models.ErrorNotFound
		if errors.As(err, &nf) {
			return nil, errCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *commentService) thread(comment *models.Comment) (*models.CommentResponse, error) {
	replies, err := s.commentRepo.GetReplies(comment.ArticleID)
	if err != nil {
		return nil, errors.Wrap(err, "list replies")
	}
	resp, err := buildThread(comment, groupReplies(replies))
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// checkDepth adds a reply_to error when answering parent would exceed the
// configured nesting limit.
func (s *commentService) checkDepth(parentID uint, verr *models.ErrorValidation) error {
	if s.maxReplyDepth <= 0 {
		return nil
	}
	depth, err := s.commentRepo.Depth(parentID)
	if err != nil {
		return errors.Wrap(err, "measure reply depth")
	}
	if depth+1 > s.maxReplyDepth {
		verr.Add("reply_to", fmt.Sprintf("Replies cannot be nested more than %d levels deep", s.maxReplyDepth))
	}
	return nil
}

func validateCommentContent(content string) *models.ErrorValidation {
	verr := models.NewValidationError("Invalid comment")
	switch n := utf8.RuneCountInString(content); {
	case n < 2:
		verr.Add("content", "Comment must be at least 2 characters long")
	case n > 1000:
		verr.Add("content", "Ensure this field has no more than 1000 characters.")
	}
	if word, found := containsBlockedWord(content); found {
		verr.Add("content", fmt.Sprintf("Comment contains inappropriate word: '%s'", word))
	}
	if containsHTML(content) {
		verr.Add("content", "Comment cannot contain HTML tags")
	}
	return verr
}

func groupReplies(replies []models.Comment) map[uint][]*models.Comment {
	children := make(map[uint][]*models.Comment)
	for i := range replies {
		r := &replies[i]
		children[*r.ReplyToID] = append(children[*r.ReplyToID], r)
	}
	return children
}

func buildThread(comment *models.Comment, children map[uint][]*models.Comment) (models.CommentResponse, error) {
	resp, err := models.NewCommentResponse(comment)
	if err != nil {
		return resp, errors.Wrap(err, "map comment")
	}
	for _, child := range children[comment.ID] {
		reply, err := buildThread(child, children)
		if err != nil {
			return resp, err
		}
		resp.Replies = append(resp.Replies, reply)
	}
	return resp, nil
}
