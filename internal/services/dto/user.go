package dto

import (
	"time"

	"gorm.io/datatypes"

	"nexusjob_backend/internal/models"
)

// UpdateProfileRequest carries the profile fields a user maintains
// locally. Identity fields (id, role) come from the token, never the
// body.
type UpdateProfileRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Email       string   `json:"email" validate:"required,email,max=320"`
	Avatar      string   `json:"avatar" validate:"omitempty,url,max=2000"`
	Bio         string   `json:"bio" validate:"max=5000"`
	Skills      []string `json:"skills" validate:"max=50,dive,max=100"`
	Experience  string   `json:"experience" validate:"max=5000"`
	CompanyName string   `json:"companyName" validate:"max=200"`
}

type UserResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Role        models.UserRole `json:"role"`
	Avatar      string          `json:"avatar,omitempty"`
	Bio         string          `json:"bio,omitempty"`
	Skills      []string        `json:"skills,omitempty"`
	Experience  string          `json:"experience,omitempty"`
	CompanyName string          `json:"companyName,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Avatar:      u.Avatar,
		Bio:         u.Bio,
		Skills:      u.Skills,
		Experience:  u.Experience,
		CompanyName: u.CompanyName,
		CreatedAt:   u.CreatedAt,
	}
}

// ToModel builds the profile row to upsert for the given identity.
func (r *UpdateProfileRequest) ToModel(userID string, role models.UserRole) *models.User {
	return &models.User{
		BaseModel:   models.BaseModel{ID: userID},
		Name:        r.Name,
		Email:       r.Email,
		Role:        role,
		Avatar:      r.Avatar,
		Bio:         r.Bio,
		Skills:      datatypes.JSONSlice[string](r.Skills),
		Experience:  r.Experience,
		CompanyName: r.CompanyName,
	}
}
