package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/acharya/acharya/internal/application/command"
)

// registrationField ties one form field to its flag, its wire name and its
// place in command.Registration.
type registrationField struct {
	flag        string
	wire        string
	title       string
	placeholder string
	ptr         func(*command.Registration) *string
}

var registrationFields = []registrationField{
	{"first-name", "firstName", "First name", "Asha", func(r *command.Registration) *string { return &r.FirstName }},
	{"last-name", "lastName", "Last name", "Rao", func(r *command.Registration) *string { return &r.LastName }},
	{"email", "email", "Email", "asha@example.com", func(r *command.Registration) *string { return &r.Email }},
	{"dob", "dateOfBirth", "Date of birth", "2016-04-02", func(r *command.Registration) *string { return &r.DateOfBirth }},
	{"phone", "phoneNumber", "Phone number", "555-0100", func(r *command.Registration) *string { return &r.PhoneNumber }},
	{"address", "address", "Street address", "1 Elm St", func(r *command.Registration) *string { return &r.Address }},
	{"city", "city", "City", "Springfield", func(r *command.Registration) *string { return &r.City }},
	{"state", "state", "State", "IL", func(r *command.Registration) *string { return &r.State }},
	{"zip", "zipCode", "ZIP code", "62701", func(r *command.Registration) *string { return &r.ZipCode }},
	{"grade", "grade", "Grade", "3rd Grade", func(r *command.Registration) *string { return &r.Grade }},
	{"school", "schoolName", "School name", "Lincoln Elementary", func(r *command.Registration) *string { return &r.SchoolName }},
	{"parent-name", "parentName", "Parent or guardian name", "Priya Rao", func(r *command.Registration) *string { return &r.ParentName }},
	{"parent-phone", "parentPhone", "Parent phone", "555-0101", func(r *command.Registration) *string { return &r.ParentPhone }},
	{"parent-email", "parentEmail", "Parent email", "priya@example.com", func(r *command.Registration) *string { return &r.ParentEmail }},
	{"emergency-contact", "emergencyContact", "Emergency contact", "Dev Rao", func(r *command.Registration) *string { return &r.EmergencyContact }},
	{"emergency-phone", "emergencyPhone", "Emergency phone", "555-0102", func(r *command.Registration) *string { return &r.EmergencyPhone }},
	{"medical-conditions", "medicalConditions", "Medical conditions (optional)", "", func(r *command.Registration) *string { return &r.MedicalConditions }},
	{"allergies", "allergies", "Allergies (optional)", "", func(r *command.Registration) *string { return &r.Allergies }},
}

// fieldGroups lays the interactive form out in pages.
var fieldGroups = [][]string{
	{"first-name", "last-name", "email", "dob", "phone"},
	{"address", "city", "state", "zip"},
	{"grade", "school"},
	{"parent-name", "parent-phone", "parent-email", "emergency-contact", "emergency-phone"},
	{"medical-conditions", "allergies"},
}

func fieldByFlag(name string) registrationField {
	for _, f := range registrationFields {
		if f.flag == name {
			return f
		}
	}
	panic("cli: unknown registration field " + name)
}

// bindRegistrationFlags defines one string flag per field, writing into reg.
func bindRegistrationFlags(fs *pflag.FlagSet, reg *command.Registration) {
	for _, f := range registrationFields {
		usage := strings.TrimSuffix(f.title, " (optional)")
		fs.StringVar(f.ptr(reg), f.flag, "", usage)
	}
}

// anyRegistrationFlag reports whether any field flag was set.
func anyRegistrationFlag(fs *pflag.FlagSet) bool {
	for _, f := range registrationFields {
		if fs.Changed(f.flag) {
			return true
		}
	}
	return false
}

// applyChangedFlags copies the fields whose flags were set from src into dst.
func applyChangedFlags(fs *pflag.FlagSet, src, dst *command.Registration) {
	for _, f := range registrationFields {
		if fs.Changed(f.flag) {
			*f.ptr(dst) = *f.ptr(src)
		}
	}
}
