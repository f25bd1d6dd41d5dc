package services

import (
	"errors"

	"nexusjob_backend/internal/events"
	"nexusjob_backend/internal/models"
	"nexusjob_backend/internal/repositories"
	"nexusjob_backend/internal/services/dto"
	"nexusjob_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ApplicationService interface {
	Apply(db *gorm.DB, seekerID, seekerName string, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error)
	UpdateStatus(db *gorm.DB, actorID, applicationID string, req *dto.UpdateApplicationStatusRequest) (*dto.ApplicationResponse, error)
	GetApplication(db *gorm.DB, applicationID string) (*dto.ApplicationResponse, error)
	ListAll(db *gorm.DB) ([]*dto.ApplicationResponse, error)
	ListForSeeker(db *gorm.DB, seekerID string) ([]*dto.ApplicationResponse, error)
	ListForEmployer(db *gorm.DB, employerID string) ([]*dto.ApplicationResponse, error)
	ListForJob(db *gorm.DB, employerID, jobID string) ([]*dto.ApplicationResponse, error)
}

type applicationService struct {
	applicationRepo repositories.ApplicationRepository
	jobRepo         repositories.JobRepository
	notifications   NotificationService
	bus             *events.Bus
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	notifications NotificationService,
	bus *events.Bus,
) ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		notifications:   notifications,
		bus:             bus,
	}
}

// Apply files a Pending application. An unresolved job reference is a
// validation error; a second application from the same seeker to the
// same job trips the composite unique index.
func (s *applicationService) Apply(db *gorm.DB, seekerID, seekerName string, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByID(db, req.JobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ValidationError(map[string]string{"jobId": "referenced job does not exist"})
		}
		return nil, apperrors.DatabaseError(err)
	}
	if job.EmployerID == seekerID {
		return nil, apperrors.ErrInvalidOperation("application", "You cannot apply to your own job")
	}

	app := &models.Application{
		JobID:       req.JobID,
		SeekerID:    seekerID,
		SeekerName:  seekerName,
		Status:      models.ApplicationStatusPending,
		CoverLetter: req.CoverLetter,
	}
	if err := s.applicationRepo.Create(db, app); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, apperrors.ErrDuplicateApplication
		}
		return nil, apperrors.DatabaseError(err)
	}

	s.notifications.NotifyNewApplication(db, job, app)
	return dto.NewApplicationResponse(app), nil
}

// UpdateStatus overwrites the status; only the employer who owns the
// referenced job may call it, and no transition order is enforced. The
// repository does not cascade: the ApplicationUpdated event is what
// drives chat creation downstream when the new status is Accepted.
func (s *applicationService) UpdateStatus(db *gorm.DB, actorID, applicationID string, req *dto.UpdateApplicationStatusRequest) (*dto.ApplicationResponse, error) {
	status := models.ApplicationStatus(req.Status)
	if !models.ValidApplicationStatus(status) {
		return nil, apperrors.ErrInvalidApplicationStatus
	}

	app, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	job, err := s.jobRepo.FindByID(db, app.JobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			// Orphaned application: the job was deleted. Status changes
			// no longer have an owner to authorize them.
			return nil, apperrors.ErrInvalidOperation("application", "The job for this application no longer exists")
		}
		return nil, apperrors.DatabaseError(err)
	}
	if job.EmployerID != actorID {
		return nil, apperrors.ErrNotJobOwner
	}

	updated, err := s.applicationRepo.UpdateStatus(db, applicationID, status)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	s.notifications.NotifyApplicationStatus(db, job, updated)
	s.bus.Publish(events.Event{Type: events.TypeApplicationUpdated, Application: updated})

	return dto.NewApplicationResponse(updated), nil
}

func (s *applicationService) GetApplication(db *gorm.DB, applicationID string) (*dto.ApplicationResponse, error) {
	app, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewApplicationResponse(app), nil
}

func (s *applicationService) ListAll(db *gorm.DB) ([]*dto.ApplicationResponse, error) {
	apps, err := s.applicationRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return toApplicationResponses(apps), nil
}

func (s *applicationService) ListForSeeker(db *gorm.DB, seekerID string) ([]*dto.ApplicationResponse, error) {
	apps, err := s.applicationRepo.FindBySeeker(db, seekerID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return toApplicationResponses(apps), nil
}

func (s *applicationService) ListForEmployer(db *gorm.DB, employerID string) ([]*dto.ApplicationResponse, error) {
	apps, err := s.applicationRepo.FindByEmployer(db, employerID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return toApplicationResponses(apps), nil
}

func (s *applicationService) ListForJob(db *gorm.DB, employerID, jobID string) ([]*dto.ApplicationResponse, error) {
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

	apps, err := s.applicationRepo.FindByJob(db, jobID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return toApplicationResponses(apps), nil
}

func toApplicationResponses(apps []models.Application) []*dto.ApplicationResponse {
	out := make([]*dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, dto.NewApplicationResponse(&apps[i]))
	}
	return out
}
