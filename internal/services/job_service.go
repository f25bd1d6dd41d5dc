package services

import (
	"errors"

	"nexusjob_backend/internal/models"
	"nexusjob_backend/internal/repositories"
	"nexusjob_backend/internal/services/dto"
	"nexusjob_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type JobService interface {
	CreateJob(db *gorm.DB, employerID string, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	GetJob(db *gorm.DB, jobID string) (*dto.JobResponse, error)
	ListJobs(db *gorm.DB) ([]*dto.JobResponse, error)
	ListEmployerJobs(db *gorm.DB, employerID string) ([]*dto.JobResponse, error)
	UpdateJob(db *gorm.DB, employerID, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error)
	DeleteJob(db *gorm.DB, employerID, jobID string) error
}

type jobService struct {
	jobRepo  repositories.JobRepository
	userRepo repositories.UserRepository
}

func NewJobService(jobRepo repositories.JobRepository, userRepo repositories.UserRepository) JobService {
	return &jobService{jobRepo: jobRepo, userRepo: userRepo}
}

func (s *jobService) CreateJob(db *gorm.DB, employerID string, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	employer, err := s.userRepo.FindByID(db, employerID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if employer.Role != models.UserRoleEmployer {
		return nil, apperrors.ErrInvalidUserRole
	}

	job := &models.Job{
		EmployerID:   employerID,
		CompanyName:  req.CompanyName,
		Title:        req.Title,
		Location:     req.Location,
		Type:         models.JobType(req.Type),
		SalaryRange:  req.SalaryRange,
		Description:  req.Description,
		Requirements: req.Requirements,
		Tags:         req.Tags,
	}
	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewJobResponse(job), nil
}

func (s *jobService) GetJob(db *gorm.DB, jobID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewJobResponse(job), nil
}

func (s *jobService) ListJobs(db *gorm.DB) ([]*dto.JobResponse, error) {
	jobs, err := s.jobRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return toJobResponses(jobs), nil
}

func (s *jobService) ListEmployerJobs(db *gorm.DB, employerID string) ([]*dto.JobResponse, error) {
	jobs, err := s.jobRepo.FindByEmployer(db, employerID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return toJobResponses(jobs), nil
}

func (s *jobService) UpdateJob(db *gorm.DB, employerID, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := s.ownedJob(db, employerID, jobID)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		job.CompanyName = *req.CompanyName
	}
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.Type != nil {
		job.Type = models.JobType(*req.Type)
	}
	if req.SalaryRange != nil {
		job.SalaryRange = *req.SalaryRange
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = req.Requirements
	}
	if req.Tags != nil {
		job.Tags = req.Tags
	}

	if err := s.jobRepo.Update(db, job); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewJobResponse(job), nil
}

func (s *jobService) DeleteJob(db *gorm.DB, employerID, jobID string) error {
	if _, err := s.ownedJob(db, employerID, jobID); err != nil {
		return err
	}
	if err := s.jobRepo.Delete(db, jobID); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// ownedJob loads the job and enforces that employerID posted it.
func (s *jobService) ownedJob(db *gorm.DB, employerID, jobID string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	if job.EmployerID != employerID {
		return nil, apperrors.ErrNotJobOwner
	}
	return job, nil
}

func toJobResponses(jobs []models.Job) []*dto.JobResponse {
	out := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, dto.NewJobResponse(&jobs[i]))
	}
	return out
}
