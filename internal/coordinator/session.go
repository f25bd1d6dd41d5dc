package coordinator

import (
	"sync"
	"time"

	"nexusjob_backend/internal/models"
	"nexusjob_backend/internal/services/dto"
)

// Session is the explicit per-user session context: who is signed in,
// plus cached projections of the data-sensitive views (jobs,
// applications, chats). It replaces any notion of a process-wide
// "current user": every consumer receives the session it acts for.
//
// Caches are advisory. Events observed by the Coordinator invalidate
// them; a handler that finds its cache invalid re-fetches from storage.
type Session struct {
	UserID    string
	Name      string
	Role      models.UserRole
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time

	jobs       []*dto.JobResponse
	jobsValid  bool
	apps       []*dto.ApplicationResponse
	appsValid  bool
	chats      []*dto.ChatResponse
	chatsValid bool
}

func newSession(userID, name string, role models.UserRole) *Session {
	now := time.Now()
	return &Session{
		UserID:    userID,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		lastSeen:  now,
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// CachedJobs returns the cached job listing and whether it is usable.
func (s *Session) CachedJobs() ([]*dto.JobResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs, s.jobsValid
}

func (s *Session) StoreJobs(jobs []*dto.JobResponse) {
	s.mu.Lock()
	s.jobs, s.jobsValid = jobs, true
	s.mu.Unlock()
}

func (s *Session) CachedApplications() ([]*dto.ApplicationResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps, s.appsValid
}

func (s *Session) StoreApplications(apps []*dto.ApplicationResponse) {
	s.mu.Lock()
	s.apps, s.appsValid = apps, true
	s.mu.Unlock()
}

func (s *Session) CachedChats() ([]*dto.ChatResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chats, s.chatsValid
}

func (s *Session) StoreChats(chats []*dto.ChatResponse) {
	s.mu.Lock()
	s.chats, s.chatsValid = chats, true
	s.mu.Unlock()
}

// InvalidateJobs drops the job cache; same pattern for the others.
func (s *Session) InvalidateJobs() {
	s.mu.Lock()
	s.jobsValid = false
	s.mu.Unlock()
}

func (s *Session) InvalidateApplications() {
	s.mu.Lock()
	s.appsValid = false
	s.mu.Unlock()
}

func (s *Session) InvalidateChats() {
	s.mu.Lock()
	s.chatsValid = false
	s.mu.Unlock()
}
