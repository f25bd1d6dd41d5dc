package models

import (
	"time"

	"gorm.io/datatypes"
)

type Job struct {
	BaseModel
	EmployerID   string                     `gorm:"type:uuid;not null;index" json:"employerId"`
	CompanyName  string                     `gorm:"not null" json:"companyName"`
	Title        string                     `gorm:"not null" json:"title"`
	Location     string                     `json:"location"`
	Type         JobType                    `gorm:"not null" json:"type"`
	SalaryRange  string                     `json:"salaryRange"`
	Description  string                     `gorm:"type:text" json:"description"`
	Requirements datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"requirements"`
	Tags         datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"tags"`
	PostedAt     time.Time                  `gorm:"default:now();index" json:"postedAt"`
}

func (Job) TableName() string {
	return "jobs"
}
