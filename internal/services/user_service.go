package services

import (
	"errors"

	"gorm.io/gorm"

	"nexusjob_backend/internal/models"
	"nexusjob_backend/internal/repositories"
	"nexusjob_backend/internal/services/dto"
	"nexusjob_backend/pkg/apperrors"
)

type UserService interface {
	GetProfile(db *gorm.DB, userID string) (*dto.UserResponse, error)
	SaveProfile(db *gorm.DB, userID string, role models.UserRole, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewUserResponse(user), nil
}

// SaveProfile upserts the caller's profile row. Identity and role are
// taken from the verified token, so a user cannot switch roles or
// write someone else's profile.
func (s *userService) SaveProfile(db *gorm.DB, userID string, role models.UserRole, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user := req.ToModel(userID, role)
	if err := s.userRepo.Upsert(db, user); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	saved, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewUserResponse(saved), nil
}
