// Package command contains write operations (CQRS - Commands).
package command

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/acharya/acharya/internal/domain/shared"
	"github.com/acharya/acharya/internal/domain/student"
	"github.com/acharya/acharya/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRATION FORM
// The form-side shape of a student record, as filled in on the register and
// edit screens. Only the form validates; the store accepts whatever it is given.
// ══════════════════════════════════════════════════════════════════════════════

// Registration holds the editable fields of a student.
type Registration struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`

	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`

	Grade      string `json:"grade" validate:"required,grade"`
	SchoolName string `json:"schoolName" validate:"required"`

	ParentName       string `json:"parentName" validate:"required"`
	ParentPhone      string `json:"parentPhone" validate:"required"`
	ParentEmail      string `json:"parentEmail" validate:"required,email"`
	EmergencyContact string `json:"emergencyContact" validate:"required"`
	EmergencyPhone   string `json:"emergencyPhone" validate:"required"`

	MedicalConditions string `json:"medicalConditions"`
	Allergies         string `json:"allergies"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("grade", func(fl validator.FieldLevel) bool {
		return student.IsValidGrade(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("command: register grade validation: %v", err))
	}
	return v
}

// Normalized returns a copy with every field trimmed of surrounding whitespace.
func (r Registration) Normalized() Registration {
	v := reflect.ValueOf(&r).Elem()
	for i := 0; i < v.NumField(); i++ {
		if f := v.Field(i); f.Kind() == reflect.String {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
	return r
}

// Validate checks the normalized form. Failures wrap shared.ErrValidation and
// list every offending field.
func (r Registration) Validate() error {
	err := validate.Struct(r.Normalized())
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return shared.WrapError("student", "Validate", shared.ErrValidation, "invalid registration", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe.Field(), fe.Tag()))
	}
	return shared.NewDomainError("student", "Validate", shared.ErrValidation, strings.Join(msgs, ", "))
}

// ValidateField checks a single value against the rules of the named field
// (its wire name, e.g. "email"). Unknown fields always pass.
func ValidateField(field, value string) error {
	tag, ok := ruleFor(field)
	if !ok || tag == "" {
		return nil
	}
	if err := validate.Var(strings.TrimSpace(value), tag); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return errors.New(fieldMessage(field, fieldErrs[0].Tag()))
		}
		return err
	}
	return nil
}

func ruleFor(field string) (string, bool) {
	t := reflect.TypeOf(Registration{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == field {
			return f.Tag.Get("validate"), true
		}
	}
	return "", false
}

func fieldMessage(field, tag string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD form", field)
	case "grade":
		return fmt.Sprintf("%s must be one of the known grade levels", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Conversions
// ─────────────────────────────────────────────────────────────────────────────

// ToStudent builds an unsaved student from the normalized form.
func (r Registration) ToStudent() student.Student {
	n := r.Normalized()
	return student.Student{
		FirstName:         n.FirstName,
		LastName:          n.LastName,
		Email:             n.Email,
		DateOfBirth:       n.DateOfBirth,
		PhoneNumber:       n.PhoneNumber,
		Address:           n.Address,
		City:              n.City,
		State:             n.State,
		ZipCode:           n.ZipCode,
		Grade:             n.Grade,
		SchoolName:        n.SchoolName,
		ParentName:        n.ParentName,
		ParentPhone:       n.ParentPhone,
		ParentEmail:       n.ParentEmail,
		EmergencyContact:  n.EmergencyContact,
		EmergencyPhone:    n.EmergencyPhone,
		MedicalConditions: n.MedicalConditions,
		Allergies:         n.Allergies,
	}
}

// RegistrationFromStudent pre-fills the edit form from a stored record.
// A date of birth stored as a timestamp is reduced to its calendar date.
func RegistrationFromStudent(s student.Student) Registration {
	dob := s.DateOfBirth
	if d, err := timeutil.ParseDate(dob); err == nil {
		dob = d.Format(timeutil.FormatDate)
	}
	return Registration{
		FirstName:         s.FirstName,
		LastName:          s.LastName,
		Email:             s.Email,
		DateOfBirth:       dob,
		PhoneNumber:       s.PhoneNumber,
		Address:           s.Address,
		City:              s.City,
		State:             s.State,
		ZipCode:           s.ZipCode,
		Grade:             s.Grade,
		SchoolName:        s.SchoolName,
		ParentName:        s.ParentName,
		ParentPhone:       s.ParentPhone,
		ParentEmail:       s.ParentEmail,
		EmergencyContact:  s.EmergencyContact,
		EmergencyPhone:    s.EmergencyPhone,
		MedicalConditions: s.MedicalConditions,
		Allergies:         s.Allergies,
	}
}
