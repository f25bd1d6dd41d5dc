package models

type UserRole string
type ApplicationStatus string
type JobType string

const (
	UserRoleSeeker   UserRole = "SEEKER"
	UserRoleEmployer UserRole = "EMPLOYER"

	ApplicationStatusPending   ApplicationStatus = "Pending"
	ApplicationStatusReviewing ApplicationStatus = "Reviewing"
	ApplicationStatusAccepted  ApplicationStatus = "Accepted"
	ApplicationStatusRejected  ApplicationStatus = "Rejected"

	JobTypeFullTime JobType = "Full-time"
	JobTypePartTime JobType = "Part-time"
	JobTypeContract JobType = "Contract"
	JobTypeRemote   JobType = "Remote"
)

// ValidApplicationStatus reports whether s is one of the four known
// statuses. The model deliberately does not enforce transition order:
// the owning employer may set any status at any time.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewing,
		ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

func ValidJobType(t JobType) bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeRemote:
		return true
	}
	return false
}
