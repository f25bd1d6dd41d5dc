package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"nexusjob_backend/internal/ai"
	"nexusjob_backend/internal/logger"
	"nexusjob_backend/internal/models"
	"nexusjob_backend/internal/repositories"
	"nexusjob_backend/internal/services/dto"
	"nexusjob_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// RecommendationService shapes internal records into bounded requests
// for the external ranking model and normalizes whatever comes back.
// Model failures never surface to callers: every operation degrades to
// a safe default (empty list, canned description, unmodified draft).
type RecommendationService interface {
	GenerateJobDescription(ctx context.Context, req *dto.GenerateJobDescriptionRequest) *dto.GeneratedJobDescription
	EnhanceCoverLetter(ctx context.Context, req *dto.EnhanceCoverLetterRequest) *dto.EnhancedCoverLetter
	RecommendJobs(ctx context.Context, db *gorm.DB, seekerID string) ([]dto.JobRecommendation, error)
	RecommendCandidates(ctx context.Context, db *gorm.DB, employerID, jobID string) ([]dto.CandidateRecommendation, error)
}

type recommendationService struct {
	model    ai.TextModel
	jobRepo  repositories.JobRepository
	userRepo repositories.UserRepository
	timeout  time.Duration
}

func NewRecommendationService(
	model ai.TextModel,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	timeout time.Duration,
) RecommendationService {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &recommendationService{
		model:    model,
		jobRepo:  jobRepo,
		userRepo: userRepo,
		timeout:  timeout,
	}
}

var defaultJobDescription = dto.GeneratedJobDescription{
	Description: "We are looking for a talented individual to join our team. " +
		"Please apply if you have relevant experience.",
	Requirements: []string{
		"Relevant experience in the field",
		"Strong communication skills",
		"Team player",
	},
}

func (s *recommendationService) GenerateJobDescription(ctx context.Context, req *dto.GenerateJobDescriptionRequest) *dto.GeneratedJobDescription {
	raw, err := s.generate(ctx, ai.JobDescriptionPrompt(req.Title, req.Company, req.Skills))
	if err != nil {
		logger.WithError(err).Warn("job description generation failed, using default")
		out := defaultJobDescription
		return &out
	}

	var parsed dto.GeneratedJobDescription
	if err := json.Unmarshal([]byte(ai.StripJSONFences(raw)), &parsed); err != nil || parsed.Description == "" {
		logger.Warn("job description response unparseable, using default")
		out := defaultJobDescription
		return &out
	}
	return &parsed
}

func (s *recommendationService) EnhanceCoverLetter(ctx context.Context, req *dto.EnhanceCoverLetterRequest) *dto.EnhancedCoverLetter {
	raw, err := s.generate(ctx, ai.CoverLetterPrompt(req.Draft, req.JobTitle))
	if err != nil || raw == "" {
		if err != nil {
			logger.WithError(err).Warn("cover letter enhancement failed, returning draft")
		}
		return &dto.EnhancedCoverLetter{Text: req.Draft}
	}
	return &dto.EnhancedCoverLetter{Text: raw}
}

// RecommendJobs ranks open jobs for a seeker. "No recommendations" is a
// normal, retryable state: the empty slice is returned both when the
// model fails and when it finds nothing.
func (s *recommendationService) RecommendJobs(ctx context.Context, db *gorm.DB, seekerID string) ([]dto.JobRecommendation, error) {
	seeker, err := s.userRepo.FindByID(db, seekerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.DatabaseError(err)
	}

	jobs, err := s.jobRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if len(jobs) == 0 {
		return []dto.JobRecommendation{}, nil
	}

	slim := make([]ai.SlimJob, 0, len(jobs))
	known := make(map[string]bool, len(jobs))
	for i := range jobs {
		slim = append(slim, ai.SlimJob{
			ID:          jobs[i].ID,
			Title:       jobs[i].Title,
			Description: ai.Truncate(jobs[i].Description, ai.DescriptionLimit),
			Tags:        jobs[i].Tags,
		})
		known[jobs[i].ID] = true
	}

	profile := ai.SeekerProfile{
		Skills:     seeker.Skills,
		Experience: seeker.Experience,
		Bio:        seeker.Bio,
	}

	raw, err := s.generate(ctx, ai.RecommendJobsPrompt(profile, slim))
	if err != nil {
		logger.WithError(err).Warn("job recommendation call failed, returning empty set")
		return []dto.JobRecommendation{}, nil
	}

	var recs []dto.JobRecommendation
	if err := json.Unmarshal([]byte(ai.StripJSONFences(raw)), &recs); err != nil {
		logger.Warn("job recommendation response unparseable, returning empty set")
		return []dto.JobRecommendation{}, nil
	}

	// Drop hallucinated job IDs.
	out := recs[:0]
	for _, r := range recs {
		if known[r.JobID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *recommendationService) RecommendCandidates(ctx context.Context, db *gorm.DB, employerID, jobID string) ([]dto.CandidateRecommendation, error) {
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

	seekers, err := s.userRepo.FindByRole(db, models.UserRoleSeeker)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if len(seekers) == 0 {
		return []dto.CandidateRecommendation{}, nil
	}

	slim := make([]ai.SlimCandidate, 0, len(seekers))
	known := make(map[string]bool, len(seekers))
	for i := range seekers {
		slim = append(slim, ai.SlimCandidate{
			ID:         seekers[i].ID,
			Name:       seekers[i].Name,
			Skills:     seekers[i].Skills,
			Experience: seekers[i].Experience,
			Bio:        seekers[i].Bio,
		})
		known[seekers[i].ID] = true
	}

	jobProfile := ai.JobProfile{
		Title:        job.Title,
		Requirements: job.Requirements,
		Tags:         job.Tags,
	}

	raw, err := s.generate(ctx, ai.RecommendCandidatesPrompt(jobProfile, slim))
	if err != nil {
		logger.WithError(err).Warn("candidate recommendation call failed, returning empty set")
		return []dto.CandidateRecommendation{}, nil
	}

	var recs []dto.CandidateRecommendation
	if err := json.Unmarshal([]byte(ai.StripJSONFences(raw)), &recs); err != nil {
		logger.Warn("candidate recommendation response unparseable, returning empty set")
		return []dto.CandidateRecommendation{}, nil
	}

	out := recs[:0]
	for _, r := range recs {
		if known[r.UserID] && r.MatchScore > 50 {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *recommendationService) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.model.Generate(ctx, prompt)
}
