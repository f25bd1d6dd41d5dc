package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexusjob_backend/internal/coordinator"
	"nexusjob_backend/internal/middleware"
	"nexusjob_backend/internal/models"
	"nexusjob_backend/internal/services"
	"nexusjob_backend/internal/services/dto"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
	sessions    *coordinator.Coordinator
}

func NewUserHandler(base *BaseHandler, userService services.UserService, sessions *coordinator.Coordinator) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
		sessions:    sessions,
	}
}

func (h *UserHandler) GetMyProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveMyProfile upserts the caller's profile. Role comes from the
// token, not the body.
func (h *UserHandler) SaveMyProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	role := models.UserRoleSeeker
	if session, ok := middleware.GetSession(c); ok {
		role = session.Role
	}

	profile, err := h.userService.SaveProfile(h.GetDB(c), userID, role, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// EndSession tears down the caller's server-side session. The token
// itself stays valid until it expires; a later request starts a fresh
// session.
func (h *UserHandler) EndSession(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	h.sessions.End(userID)
	c.Status(http.StatusNoContent)
}
