package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexusjob_backend/internal/middleware"
	"nexusjob_backend/internal/models"
	"nexusjob_backend/internal/services"
	"nexusjob_backend/internal/services/dto"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

// Apply submits a seeker's application to a job.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	seekerName := ""
	if session, ok := middleware.GetSession(c); ok {
		seekerName = session.Name
	}

	app, err := h.applicationService.Apply(h.GetDB(c), userID, seekerName, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if session, ok := middleware.GetSession(c); ok {
		session.InvalidateApplications()
	}
	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	app, err := h.applicationService.GetApplication(h.GetDB(c), c.Param("applicationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// ListMyApplications returns the caller's applications: their own
// submissions for seekers, applications to their jobs for employers.
// The seeker view is served from the session cache when the
// coordinator has not invalidated it.
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	session, hasSession := middleware.GetSession(c)
	if hasSession && session.Role == models.UserRoleSeeker {
		if apps, ok := session.CachedApplications(); ok {
			c.JSON(http.StatusOK, apps)
			return
		}
	}

	var (
		apps []*dto.ApplicationResponse
		err  error
	)
	if hasSession && session.Role == models.UserRoleEmployer {
		apps, err = h.applicationService.ListForEmployer(h.GetDB(c), userID)
	} else {
		apps, err = h.applicationService.ListForSeeker(h.GetDB(c), userID)
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if hasSession && session.Role == models.UserRoleSeeker {
		session.StoreApplications(apps)
	}
	c.JSON(http.StatusOK, apps)
}

// UpdateStatus lets the owning employer move an application through
// the workflow. Accepting triggers chat provisioning downstream.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	app, err := h.applicationService.UpdateStatus(h.GetDB(c), userID, c.Param("applicationId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
