package handlers

import (
	"net/http"

	"blog-api/helper"
	"blog-api/middleware"
	"blog-api/models"
	"blog-api/services"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService services.ProfileService
	Helper         *helper.HTTPHelper
}

func NewProfileHandler(profileService services.ProfileService, h *helper.HTTPHelper) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, Helper: h}
}

// targetUser resolves /profile/:id/ or, without an id, the requester.
func (h *ProfileHandler) targetUser(c *gin.Context) (uint, bool) {
	if c.Param("id") != "" {
		return h.Helper.ParseID(c, "id")
	}
	actor := middleware.CurrentActor(c)
	if actor == nil {
		h.Helper.SendUnauthorizedError(c, "Authentication credentials were not provided.")
		return 0, false
	}
	return actor.UserID, true
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := h.targetUser(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(userID)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.Helper.SendSuccess(c, http.StatusOK, profile)
}

// UpdateProfile serves PUT and PATCH; absent fields keep their values.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.targetUser(c)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateProfile(middleware.CurrentActor(c), userID, req)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	h.Helper.SendSuccess(c, http.StatusOK, profile)
}
