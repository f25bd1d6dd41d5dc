package services

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"nexusjob_backend/internal/models"
	chatmodels "nexusjob_backend/internal/models/chat"
	"nexusjob_backend/internal/repositories"
	"nexusjob_backend/internal/services/dto"
)

// In-memory repository fakes. They ignore the db handle entirely, so
// service tests pass nil and exercise pure business logic.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByRole(_ *gorm.DB, role models.UserRole) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Upsert(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ *gorm.DB, user *models.User) error {
	return r.Upsert(nil, user)
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs []*models.Job
	seq  int
}

func newFakeJobRepo(jobs ...*models.Job) *fakeJobRepo {
	return &fakeJobRepo{jobs: jobs}
}

func (r *fakeJobRepo) Create(_ *gorm.DB, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		r.seq++
		job.ID = fmt.Sprintf("job-%d", r.seq)
	}
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *fakeJobRepo) FindByID(_ *gorm.DB, id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, repositories.ErrJobNotFound
}

func (r *fakeJobRepo) FindAll(_ *gorm.DB) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, *j)
	}
	return out, nil
}

func (r *fakeJobRepo) FindByEmployer(_ *gorm.DB, employerID string) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, j := range r.jobs {
		if j.EmployerID == employerID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Update(_ *gorm.DB, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, j := range r.jobs {
		if j.ID == job.ID {
			r.jobs[i] = job
			return nil
		}
	}
	return repositories.ErrJobNotFound
}

func (r *fakeJobRepo) Delete(_ *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, j := range r.jobs {
		if j.ID == id {
			r.jobs = append(r.jobs[:i], r.jobs[i+1:]...)
			return nil
		}
	}
	return repositories.ErrJobNotFound
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps []*models.Application
	seq  int
}

func (r *fakeApplicationRepo) Create(_ *gorm.DB, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.JobID == app.JobID && a.SeekerID == app.SeekerID {
			return repositories.ErrDuplicateKey
		}
	}
	if app.ID == "" {
		r.seq++
		app.ID = fmt.Sprintf("app-%d", r.seq)
	}
	r.apps = append(r.apps, app)
	return nil
}

func (r *fakeApplicationRepo) FindByID(_ *gorm.DB, id string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

func (r *fakeApplicationRepo) FindAll(_ *gorm.DB) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyApps(r.apps), nil
}

func (r *fakeApplicationRepo) FindBySeeker(_ *gorm.DB, seekerID string) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, a := range r.apps {
		if a.SeekerID == seekerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) FindByEmployer(_ *gorm.DB, employerID string) ([]models.Application, error) {
	return nil, nil
}

func (r *fakeApplicationRepo) FindByJob(_ *gorm.DB, jobID string) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, a := range r.apps {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) UpdateStatus(_ *gorm.DB, id string, status models.ApplicationStatus) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.ID == id {
			a.Status = status
			return a, nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

func copyApps(apps []*models.Application) []models.Application {
	out := make([]models.Application, 0, len(apps))
	for _, a := range apps {
		out = append(out, *a)
	}
	return out
}

// fakeNotifier records the factory calls and serves nothing.
type fakeNotifier struct {
	mu             sync.Mutex
	newApplication int
	statusChanges  int
	newMessages    int
}

func (f *fakeNotifier) GetUserNotifications(*gorm.DB, string, bool) ([]*dto.NotificationResponse, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkAsRead(*gorm.DB, string, string) error  { return nil }
func (f *fakeNotifier) MarkAllAsRead(*gorm.DB, string) error       { return nil }
func (f *fakeNotifier) GetUnreadCount(*gorm.DB, string) (int64, error) { return 0, nil }

func (f *fakeNotifier) NotifyNewApplication(*gorm.DB, *models.Job, *models.Application) {
	f.mu.Lock()
	f.newApplication++
	f.mu.Unlock()
}

func (f *fakeNotifier) NotifyApplicationStatus(*gorm.DB, *models.Job, *models.Application) {
	f.mu.Lock()
	f.statusChanges++
	f.mu.Unlock()
}

func (f *fakeNotifier) NotifyNewMessage(*gorm.DB, *chatmodels.Chat, *chatmodels.Message) {
	f.mu.Lock()
	f.newMessages++
	f.mu.Unlock()
}

// fakeModel scripts the text model's reply.
type fakeModel struct {
	reply string
	err   error
	mu    sync.Mutex
	last  string
}

func (m *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.last = prompt
	m.mu.Unlock()
	return m.reply, m.err
}

func (m *fakeModel) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
