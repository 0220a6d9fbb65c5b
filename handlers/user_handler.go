package handlers

import (
	"net/http"

	"blog-api/helper"
	"blog-api/middleware"
	"blog-api/models"
	"blog-api/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService services.UserService
	Helper      *helper.HTTPHelper
}

func NewUserHandler(userService services.UserService, h *helper.HTTPHelper) *UserHandler {
	return &UserHandler{userService: userService, Helper: h}
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	var params models.PageParams
	if !h.Helper.BindQuery(c, &params) {
		return
	}

	users, total, err := h.userService.GetUsers(middleware.CurrentActor(c), params)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	results := make([]*models.UserResponse, 0, len(users))
	for i := range users {
		resp, err := models.NewUserResponse(&users[i])
		if err != nil {
			h.Helper.SendAppError(c, err)
			return
		}
		results = append(results, resp)
	}
	h.Helper.SendPage(c, params, total, results)
}

func (h *UserHandler) AssignGroup(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}
	var req models.AssignGroupRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.AssignGroup(middleware.CurrentActor(c), id, req)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	resp, err := models.NewUserResponse(user)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.Helper.SendSuccess(c, http.StatusOK, resp)
}
