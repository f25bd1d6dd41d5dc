package dto

import (
	"time"

	"nexusjob_backend/internal/models"
)

type CreateApplicationRequest struct {
	JobID       string `json:"jobId" validate:"required,uuid"`
	CoverLetter string `json:"coverLetter" validate:"max=5000"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,application_status"`
}

type ApplicationResponse struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId"`
	SeekerID    string    `json:"seekerId"`
	SeekerName  string    `json:"seekerName"`
	Status      string    `json:"status"`
	CoverLetter string    `json:"coverLetter,omitempty"`
	AppliedAt   time.Time `json:"appliedAt"`
}

func NewApplicationResponse(a *models.Application) *ApplicationResponse {
	return &ApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		SeekerID:    a.SeekerID,
		SeekerName:  a.SeekerName,
		Status:      string(a.Status),
		CoverLetter: a.CoverLetter,
		AppliedAt:   a.AppliedAt,
	}
}
