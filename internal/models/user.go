package models

import (
	"gorm.io/datatypes"
)

// User is a profile projection of the hosted identity provider. Identity
// and credentials live with the provider; this table only mirrors the
// fields the board itself needs (role, recommendation inputs). Other
// tables reference users by id, never embed them.
type User struct {
	BaseModel
	Name        string                     `gorm:"not null" json:"name"`
	Email       string                     `gorm:"uniqueIndex;not null" json:"email"`
	Role        UserRole                   `gorm:"not null" json:"role"`
	Avatar      string                     `json:"avatar,omitempty"`
	Bio         string                     `gorm:"type:text" json:"bio,omitempty"`
	Skills      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"skills,omitempty"`
	Experience  string                     `gorm:"type:text" json:"experience,omitempty"`
	CompanyName string                     `json:"companyName,omitempty"`
}

func (User) TableName() string {
	return "profiles"
}
