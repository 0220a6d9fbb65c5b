package handlers

import (
	"net/http"

	"blog-api/helper"
	"blog-api/middleware"
	"blog-api/models"
	"blog-api/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService services.CommentService
	Helper         *helper.HTTPHelper
}

func NewCommentHandler(commentService services.CommentService, h *helper.HTTPHelper) *CommentHandler {
	return &CommentHandler{commentService: commentService, Helper: h}
}

// GetArticleComments lists the top-level comments of an article.
func (h *CommentHandler) GetArticleComments(c *gin.Context) {
	articleID, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}
	var params models.PageParams
	if !h.Helper.BindQuery(c, &params) {
		return
	}

	comments, total, err := h.commentService.GetArticleComments(middleware.CurrentActor(c), articleID, params)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.Helper.SendPage(c, params, total, comments)
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	articleID, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}
	var req models.CreateCommentRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.CreateComment(middleware.CurrentActor(c), articleID, req)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.Helper.SendSuccess(c, http.StatusCreated, comment)
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	comment, err := h.commentService.GetComment(middleware.CurrentActor(c), id)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.Helper.SendSuccess(c, http.StatusOK, comment)
}

// UpdateComment serves both PUT and PATCH; content is the only writable field.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateCommentRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.UpdateComment(middleware.CurrentActor(c), id, req)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.Helper.SendSuccess(c, http.StatusOK, comment)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(middleware.CurrentActor(c), id); err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.Helper.SendNoContent(c)
}

func (h *CommentHandler) Reply(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateCommentRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Reply(middleware.CurrentActor(c), id, req)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.Helper.SendSuccess(c, http.StatusCreated, comment)
}
