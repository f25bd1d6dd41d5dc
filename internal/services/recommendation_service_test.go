package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/datatypes"

	"nexusjob_backend/internal/models"
	"nexusjob_backend/internal/services/dto"
	"nexusjob_backend/pkg/apperrors"
)

func recommendationFixture(model *fakeModel) RecommendationService {
	jobRepo := newFakeJobRepo(
		&models.Job{BaseModel: models.BaseModel{ID: "job-1"}, EmployerID: "emp-1", Title: "Go Engineer"},
		&models.Job{BaseModel: models.BaseModel{ID: "job-2"}, EmployerID: "emp-1", Title: "Data Engineer"},
	)
	userRepo := newFakeUserRepo(
		&models.User{
			BaseModel: models.BaseModel{ID: "seek-1"},
			Name:      "Dana",
			Role:      models.UserRoleSeeker,
			Skills:    datatypes.JSONSlice[string]{"Go", "Postgres"},
		},
		&models.User{
			BaseModel: models.BaseModel{ID: "seek-2"},
			Name:      "Alex",
			Role:      models.UserRoleSeeker,
		},
		&models.User{
			BaseModel: models.BaseModel{ID: "emp-1"},
			Name:      "Boss",
			Role:      models.UserRoleEmployer,
		},
	)
	return NewRecommendationService(model, jobRepo, userRepo, 0)
}

func TestRecommendJobsFiltersHallucinatedIDs(t *testing.T) {
	model := &fakeModel{reply: `[
		{"jobId":"job-1","reason":"Strong Go background"},
		{"jobId":"made-up","reason":"Does not exist"}
	]`}
	svc := recommendationFixture(model)

	recs, err := svc.RecommendJobs(context.Background(), nil, "seek-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "job-1", recs[0].JobID)
	assert.Contains(t, model.lastPrompt(), `"job-1"`)
}

func TestRecommendJobsUnwrapsMarkdownFences(t *testing.T) {
	model := &fakeModel{reply: "```json\n[{\"jobId\":\"job-2\",\"reason\":\"fit\"}]\n```"}
	svc := recommendationFixture(model)

	recs, err := svc.RecommendJobs(context.Background(), nil, "seek-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "job-2", recs[0].JobID)
}

func TestRecommendJobsDegradesToEmptyOnModelFailure(t *testing.T) {
	model := &fakeModel{err: errors.New("quota exceeded")}
	svc := recommendationFixture(model)

	recs, err := svc.RecommendJobs(context.Background(), nil, "seek-1")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommendJobsDegradesToEmptyOnGarbageReply(t *testing.T) {
	model := &fakeModel{reply: "I am sorry, I cannot help with that."}
	svc := recommendationFixture(model)

	recs, err := svc.RecommendJobs(context.Background(), nil, "seek-1")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommendJobsUnknownSeeker(t *testing.T) {
	svc := recommendationFixture(&fakeModel{reply: "[]"})

	_, err := svc.RecommendJobs(context.Background(), nil, "ghost")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestRecommendCandidatesAppliesScoreCutoff(t *testing.T) {
	model := &fakeModel{reply: `[
		{"userId":"seek-1","matchScore":88,"reason":"Great overlap"},
		{"userId":"seek-2","matchScore":42,"reason":"Weak overlap"},
		{"userId":"ghost","matchScore":95,"reason":"Not a real user"}
	]`}
	svc := recommendationFixture(model)

	recs, err := svc.RecommendCandidates(context.Background(), nil, "emp-1", "job-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "seek-1", recs[0].UserID)
	assert.Greater(t, recs[0].MatchScore, float64(50))
}

func TestRecommendCandidatesRequiresOwnership(t *testing.T) {
	svc := recommendationFixture(&fakeModel{reply: "[]"})

	_, err := svc.RecommendCandidates(context.Background(), nil, "not-the-owner", "job-1")
	assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)
}

func TestGenerateJobDescriptionFallsBackToDefault(t *testing.T) {
	svc := recommendationFixture(&fakeModel{err: errors.New("unavailable")})

	out := svc.GenerateJobDescription(context.Background(), &dto.GenerateJobDescriptionRequest{
		Title:   "Go Engineer",
		Company: "NexusJob",
		Skills:  "Go, Postgres",
	})
	require.NotNil(t, out)
	assert.NotEmpty(t, out.Description)
	assert.NotEmpty(t, out.Requirements)
}

func TestGenerateJobDescriptionParsesModelReply(t *testing.T) {
	model := &fakeModel{reply: `{"description":"A great role.","requirements":["Go","SQL"]}`}
	svc := recommendationFixture(model)

	out := svc.GenerateJobDescription(context.Background(), &dto.GenerateJobDescriptionRequest{
		Title:   "Go Engineer",
		Company: "NexusJob",
		Skills:  "Go",
	})
	assert.Equal(t, "A great role.", out.Description)
	assert.Equal(t, []string{"Go", "SQL"}, out.Requirements)
}

func TestEnhanceCoverLetterReturnsDraftOnFailure(t *testing.T) {
	svc := recommendationFixture(&fakeModel{err: errors.New("down")})

	out := svc.EnhanceCoverLetter(context.Background(), &dto.EnhanceCoverLetterRequest{
		Draft:    "my humble draft",
		JobTitle: "Go Engineer",
	})
	assert.Equal(t, "my humble draft", out.Text)
}
