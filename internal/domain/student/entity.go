// Package student contains the domain model of a registered student.
// This is the core of the module - there are no external dependencies here.
package student

import (
	"strings"
	"time"

	"github.com/acharya/acharya/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student is a registered student as seen by the client.
//
// ID is empty until the record has been created on the server; once assigned
// it never changes from the client's point of view. CreatedAt and UpdatedAt
// are server-assigned and kept verbatim.
type Student struct {
	ID string

	// Personal
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth string
	PhoneNumber string

	// Address
	Address string
	City    string
	State   string
	ZipCode string

	// Academic
	Grade      string
	SchoolName string

	// Guardian and emergency contact
	ParentName       string
	ParentPhone      string
	ParentEmail      string
	EmergencyContact string
	EmergencyPhone   string

	// Medical (optional)
	MedicalConditions string
	Allergies         string

	CreatedAt string
	UpdatedAt string
}

// FullName returns first and last name joined by a space, trimmed.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Age returns the student's age in whole years as of today.
func (s Student) Age() int {
	return s.AgeAt(time.Now())
}

// AgeAt returns the student's age in whole years as of now.
// An empty or unparsable date of birth yields 0.
func (s Student) AgeAt(now time.Time) int {
	if s.DateOfBirth == "" {
		return 0
	}
	birth, err := timeutil.ParseDate(s.DateOfBirth)
	if err != nil {
		return 0
	}
	return timeutil.YearsBetween(birth, now)
}

// IsPersisted reports whether the record has been assigned an identifier by the server.
func (s Student) IsPersisted() bool {
	return s.ID != ""
}

// MatchesQuery reports whether the first name, last name, email or school
// name contains lowerQuery. lowerQuery must already be lower-cased.
func (s Student) MatchesQuery(lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s.FirstName), lowerQuery) ||
		strings.Contains(strings.ToLower(s.LastName), lowerQuery) ||
		strings.Contains(strings.ToLower(s.Email), lowerQuery) ||
		strings.Contains(strings.ToLower(s.SchoolName), lowerQuery)
}
