package repositories

import (
	"nexusjob_backend/internal/models"

	"gorm.io/gorm"
)

type ApplicationRepository interface {
	Create(db *gorm.DB, app *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	FindAll(db *gorm.DB) ([]models.Application, error)
	FindBySeeker(db *gorm.DB, seekerID string) ([]models.Application, error)
	FindByEmployer(db *gorm.DB, employerID string) ([]models.Application, error)
	FindByJob(db *gorm.DB, jobID string) ([]models.Application, error)
	UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) (*models.Application, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, app *models.Application) error {
	if err := db.Create(app).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var app models.Application
	if err := db.First(&app, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrApplicationNotFound)
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindAll(db *gorm.DB) ([]models.Application, error) {
	var apps []models.Application
	err := db.Order("applied_at DESC").Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) FindBySeeker(db *gorm.DB, seekerID string) ([]models.Application, error) {
	var apps []models.Application
	err := db.Where("seeker_id = ?", seekerID).Order("applied_at DESC").Find(&apps).Error
	return apps, err
}

// FindByEmployer returns applications received across all jobs the
// employer owns.
func (r *ApplicationRepositoryImpl) FindByEmployer(db *gorm.DB, employerID string) ([]models.Application, error) {
	var apps []models.Application
	err := db.
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.employer_id = ?", employerID).
		Order("applications.applied_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) FindByJob(db *gorm.DB, jobID string) ([]models.Application, error) {
	var apps []models.Application
	err := db.Where("job_id = ?", jobID).Order("applied_at DESC").Find(&apps).Error
	return apps, err
}

// UpdateStatus overwrites the status unconditionally and returns the
// updated row. There is no previous-state validation: any status may
// replace any other. Cascading effects (chat creation on Accepted) are
// the coordinator's job, not the repository's.
func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) (*models.Application, error) {
	res := db.Model(&models.Application{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrApplicationNotFound
	}
	return r.FindByID(db, id)
}
