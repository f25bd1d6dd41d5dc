package apperrors

import (
	"net/http"
)

// Factories and predefined errors for the job-board domain.

// ErrNotFound converts a repository-level miss (gorm.ErrRecordNotFound)
// into a 404. Lookups where absence is an expected branch (a chat that has
// not been created yet) return a nil row instead of this.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists is used when a storage uniqueness constraint fires.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- Jobs ---

var ErrJobNotFound = New(
	CodeNotFound,
	"job",
	"Job not found",
	http.StatusNotFound,
)

var ErrNotJobOwner = New(
	CodeForbidden,
	"job",
	"Only the employer who posted this job may modify it",
	http.StatusForbidden,
)

// --- Applications ---

var ErrApplicationNotFound = New(
	CodeNotFound,
	"application",
	"Application not found",
	http.StatusNotFound,
)

var ErrDuplicateApplication = New(
	CodeAlreadyExists,
	"application",
	"You have already applied to this job",
	http.StatusConflict,
)

var ErrInvalidApplicationStatus = New(
	CodeInvalidStatus,
	"application",
	"Unknown application status",
	http.StatusBadRequest,
)

// --- Chat ---

var ErrChatNotFound = New(
	CodeNotFound,
	"chat",
	"Chat not found",
	http.StatusNotFound,
)

var ErrChatAccessDenied = New(
	CodeForbidden,
	"chat",
	"You are not a participant of this chat",
	http.StatusForbidden,
)

var ErrChatNotAccepted = New(
	CodeInvalidOperation,
	"chat",
	"Chat is only available after the application is accepted",
	http.StatusConflict,
)

var ErrEmptyMessage = New(
	CodeValidationFailed,
	"chat",
	"Message content must not be empty",
	http.StatusBadRequest,
)

// --- Roles ---

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)
