package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexusjob_backend/internal/services"
	"nexusjob_backend/internal/services/dto"
)

type RecommendationHandler struct {
	*BaseHandler
	recommendationService services.RecommendationService
}

func NewRecommendationHandler(base *BaseHandler, recommendationService services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		BaseHandler:           base,
		recommendationService: recommendationService,
	}
}

// GenerateJobDescription drafts a posting from title, company and a
// few keywords. Always succeeds: model failures fall back to a
// template the employer can edit.
func (h *RecommendationHandler) GenerateJobDescription(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req dto.GenerateJobDescriptionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result := h.recommendationService.GenerateJobDescription(c.Request.Context(), &req)
	c.JSON(http.StatusOK, result)
}

// EnhanceCoverLetter polishes a seeker's draft for a specific job.
func (h *RecommendationHandler) EnhanceCoverLetter(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req dto.EnhanceCoverLetterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result := h.recommendationService.EnhanceCoverLetter(c.Request.Context(), &req)
	c.JSON(http.StatusOK, result)
}

// RecommendJobs ranks open jobs against the caller's profile. An
// unavailable model yields an empty list, never an error.
func (h *RecommendationHandler) RecommendJobs(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	recs, err := h.recommendationService.RecommendJobs(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// RecommendCandidates ranks applicants and profile matches for one of
// the employer's jobs.
func (h *RecommendationHandler) RecommendCandidates(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	recs, err := h.recommendationService.RecommendCandidates(c.Request.Context(), h.GetDB(c), userID, c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}
