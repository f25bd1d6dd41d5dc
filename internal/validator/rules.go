package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"nexusjob_backend/internal/models"
)

// registerCustomRules wires the enum rules used by the request DTOs.
// A registration failure is a programming error, so it is fatal.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("job_type", validateJobType)
	mustRegister("application_status", validateApplicationStatus)
	mustRegister("user_role", validateUserRole)
}

func validateJobType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		// Empty is the 'required' rule's problem.
		return true
	}
	return models.ValidJobType(models.JobType(value))
}

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidApplicationStatus(models.ApplicationStatus(value))
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.UserRole(value) {
	case models.UserRoleSeeker, models.UserRoleEmployer:
		return true
	default:
		return false
	}
}
