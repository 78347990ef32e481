// Package studentapi implements the client for the student REST resource.
// This package handles all communication with the backend: it issues one
// HTTP request per operation and maps wire records into domain students.
package studentapi

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
)

// ══════════════════════════════════════════════════════════════════════════════
// LENIENT SCALAR
// ══════════════════════════════════════════════════════════════════════════════

// Text is a string that decodes from any JSON scalar.
//
// Strings decode as-is, numbers keep their literal form, booleans become
// "true"/"false" and null becomes "". Objects and arrays are rejected.
// The reference backend serves integer ids, so every field goes through Text.
type Text string

var textType = reflect.TypeOf(Text(""))

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case 't', 'f':
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return &json.UnmarshalTypeError{Value: string(data), Type: textType}
		}
		*t = Text(strconv.FormatBool(b))
		return nil
	case '{', '[':
		return &json.UnmarshalTypeError{Value: "non-scalar", Type: textType}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*t = Text(n.String())
		return nil
	}
}

// String returns the text.
func (t Text) String() string {
	return string(t)
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT DTOs
// ══════════════════════════════════════════════════════════════════════════════

// StudentDTO is a student record as it travels over the wire.
// Optional fields are omitted from outgoing bodies when empty; on the way in
// a missing field simply decodes as "".
type StudentDTO struct {
	// ID is assigned by the server; absent on create.
	ID Text `json:"id,omitempty"`

	FirstName   Text `json:"firstName"`
	LastName    Text `json:"lastName"`
	Email       Text `json:"email"`
	DateOfBirth Text `json:"dateOfBirth"`
	PhoneNumber Text `json:"phoneNumber"`

	Address Text `json:"address"`
	City    Text `json:"city"`
	State   Text `json:"state"`
	ZipCode Text `json:"zipCode"`

	Grade      Text `json:"grade"`
	SchoolName Text `json:"schoolName"`

	ParentName       Text `json:"parentName"`
	ParentPhone      Text `json:"parentPhone"`
	ParentEmail      Text `json:"parentEmail"`
	EmergencyContact Text `json:"emergencyContact"`
	EmergencyPhone   Text `json:"emergencyPhone"`

	MedicalConditions Text `json:"medicalConditions,omitempty"`
	Allergies         Text `json:"allergies,omitempty"`

	// Timestamps are server-assigned.
	CreatedAt Text `json:"createdAt,omitempty"`
	UpdatedAt Text `json:"updatedAt,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR DTOs
// ══════════════════════════════════════════════════════════════════════════════

// ErrorDTO is the error body the backend sends with non-2xx responses.
// Backends disagree on the field name, so both are accepted.
type ErrorDTO struct {
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Text returns the most specific message in the body.
func (e ErrorDTO) Text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}
