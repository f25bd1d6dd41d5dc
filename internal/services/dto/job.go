package dto

import (
	"time"

	"nexusjob_backend/internal/models"
)

type CreateJobRequest struct {
	CompanyName  string   `json:"companyName" validate:"required,max=200"`
	Title        string   `json:"title" validate:"required,max=200"`
	Location     string   `json:"location" validate:"max=200"`
	Type         string   `json:"type" validate:"required,job_type"`
	SalaryRange  string   `json:"salaryRange" validate:"max=100"`
	Description  string   `json:"description" validate:"required"`
	Requirements []string `json:"requirements"`
	Tags         []string `json:"tags" validate:"max=20"`
}

type UpdateJobRequest struct {
	CompanyName  *string  `json:"companyName" validate:"omitempty,max=200"`
	Title        *string  `json:"title" validate:"omitempty,max=200"`
	Location     *string  `json:"location" validate:"omitempty,max=200"`
	Type         *string  `json:"type" validate:"omitempty,job_type"`
	SalaryRange  *string  `json:"salaryRange" validate:"omitempty,max=100"`
	Description  *string  `json:"description"`
	Requirements []string `json:"requirements"`
	Tags         []string `json:"tags" validate:"omitempty,max=20"`
}

type JobResponse struct {
	ID           string    `json:"id"`
	EmployerID   string    `json:"employerId"`
	CompanyName  string    `json:"companyName"`
	Title        string    `json:"title"`
	Location     string    `json:"location"`
	Type         string    `json:"type"`
	SalaryRange  string    `json:"salaryRange"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Tags         []string  `json:"tags"`
	PostedAt     time.Time `json:"postedAt"`
}

func NewJobResponse(j *models.Job) *JobResponse {
	return &JobResponse{
		ID:           j.ID,
		EmployerID:   j.EmployerID,
		CompanyName:  j.CompanyName,
		Title:        j.Title,
		Location:     j.Location,
		Type:         string(j.Type),
		SalaryRange:  j.SalaryRange,
		Description:  j.Description,
		Requirements: j.Requirements,
		Tags:         j.Tags,
		PostedAt:     j.PostedAt,
	}
}
