package helpers

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"nexusjob_backend/internal/auth"
	"nexusjob_backend/internal/models"
	"nexusjob_backend/internal/models/chat"
)

// MintToken signs a bearer token the way the hosted identity provider
// would, using the JWT_SECRET the test server was configured with.
func MintToken(t *testing.T, userID, name string, role models.UserRole) string {
	claims := &auth.Claims{
		Role: role,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    os.Getenv("JWT_ISSUER"),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

// CreateUser inserts a profile row directly.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) *models.User {
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", user.Email, err)
	}
	return user
}

// CreateSeeker creates a seeker profile with a unique email and returns
// the user together with a valid bearer token.
func CreateSeeker(t *testing.T, db *gorm.DB, name string) (*models.User, string) {
	user := CreateUser(t, db, &models.User{
		Name:  name,
		Email: fmt.Sprintf("seeker_%d@test.com", time.Now().UnixNano()),
		Role:  models.UserRoleSeeker,
	})
	return user, MintToken(t, user.ID, user.Name, models.UserRoleSeeker)
}

// CreateEmployer creates an employer profile with a unique email and
// returns the user together with a valid bearer token.
func CreateEmployer(t *testing.T, db *gorm.DB, name, companyName string) (*models.User, string) {
	user := CreateUser(t, db, &models.User{
		Name:        name,
		Email:       fmt.Sprintf("employer_%d@test.com", time.Now().UnixNano()),
		Role:        models.UserRoleEmployer,
		CompanyName: companyName,
	})
	return user, MintToken(t, user.ID, user.Name, models.UserRoleEmployer)
}

// CreateTestJob inserts a job row directly.
func CreateTestJob(t *testing.T, db *gorm.DB, employerID, companyName, title string) *models.Job {
	job := &models.Job{
		EmployerID:  employerID,
		CompanyName: companyName,
		Title:       title,
		Location:    "Remote",
		Type:        models.JobTypeFullTime,
		Description: "Test description",
		PostedAt:    time.Now(),
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("failed to create test job: %v", err)
	}
	return job
}

// CreateTestChat inserts a chat row directly. A nil lastMessageAt makes
// a chat with no conversation yet.
func CreateTestChat(t *testing.T, db *gorm.DB, applicationID, employerID, seekerID, jobTitle string, lastMessageAt *time.Time) *chat.Chat {
	c := &chat.Chat{
		ApplicationID: applicationID,
		EmployerID:    employerID,
		SeekerID:      seekerID,
		JobTitle:      jobTitle,
		LastMessageAt: lastMessageAt,
	}
	if lastMessageAt != nil {
		c.LastMessage = "last message in " + jobTitle
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create test chat: %v", err)
	}
	return c
}

// CreateTestApplication inserts an application row directly.
func CreateTestApplication(t *testing.T, db *gorm.DB, jobID, seekerID, seekerName string, status models.ApplicationStatus) *models.Application {
	application := &models.Application{
		JobID:      jobID,
		SeekerID:   seekerID,
		SeekerName: seekerName,
		Status:     status,
		AppliedAt:  time.Now(),
	}
	if err := db.Create(application).Error; err != nil {
		t.Fatalf("failed to create test application: %v", err)
	}
	return application
}
