package models

import "time"

// Application is a seeker's request to be considered for a Job. Status is
// mutated exclusively by the employer who owns the referenced job. A
// deleted job leaves its applications orphaned; no cascade is defined.
//
// The composite unique index prevents a seeker from applying to the same
// job twice; the violation is translated to ErrDuplicateApplication.
type Application struct {
	BaseModel
	JobID       string            `gorm:"type:uuid;not null;index;uniqueIndex:idx_applications_job_seeker" json:"jobId"`
	SeekerID    string            `gorm:"type:uuid;not null;index;uniqueIndex:idx_applications_job_seeker" json:"seekerId"`
	SeekerName  string            `gorm:"not null" json:"seekerName"`
	Status      ApplicationStatus `gorm:"not null;default:'Pending'" json:"status"`
	CoverLetter string            `gorm:"type:text" json:"coverLetter,omitempty"`
	AppliedAt   time.Time         `gorm:"default:now()" json:"appliedAt"`
}

func (Application) TableName() string {
	return "applications"
}
