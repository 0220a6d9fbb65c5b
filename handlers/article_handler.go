package handlers

import (
	"net/http"

	"blog-api/helper"
	"blog-api/middleware"
	"blog-api/models"
	"blog-api/services"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService services.ArticleService
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService, h *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, Helper: h}
}

func (h *ArticleHandler) GetArticles(c *gin.Context) {
	var params models.ArticleListParams
	if !h.Helper.BindQuery(c, &params) {
		return
	}

	articles, total, err := h.articleService.GetArticles(middleware.CurrentActor(c), params)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.sendList(c, params.PageParams, total, articles)
}

func (h *ArticleHandler) GetPopularArticles(c *gin.Context) {
	var params models.PageParams
	if !h.Helper.BindQuery(c, &params) {
		return
	}

	articles, total, err := h.articleService.GetPopular(middleware.CurrentActor(c), params)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.sendList(c, params, total, articles)
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	article, err := h.articleService.GetArticle(middleware.CurrentActor(c), id)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.send(c, http.StatusOK, article)
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req models.CreateArticleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.articleService.CreateArticle(middleware.CurrentActor(c), req)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.send(c, http.StatusCreated, article)
}

// ReplaceArticle handles PUT: every writable field is taken from the body.
func (h *ArticleHandler) ReplaceArticle(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}
	var req models.CreateArticleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.articleService.UpdateArticle(middleware.CurrentActor(c), id, req.AsUpdate())
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.send(c, http.StatusOK, article)
}

// PatchArticle handles PATCH: only supplied fields change.
func (h *ArticleHandler) PatchArticle(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateArticleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.articleService.UpdateArticle(middleware.CurrentActor(c), id, req)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.send(c, http.StatusOK, article)
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.articleService.DeleteArticle(middleware.CurrentActor(c), id); err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.Helper.SendNoContent(c)
}

func (h *ArticleHandler) send(c *gin.Context, status int, article *models.Article) {
	resp, err := models.NewArticleResponse(article)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.Helper.SendSuccess(c, status, resp)
}

func (h *ArticleHandler) sendList(c *gin.Context, params models.PageParams, total int64, articles []models.Article) {
	results, err := models.NewArticleResponses(articles)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.Helper.SendPage(c, params, total, results)
}
