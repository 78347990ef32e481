package studentapi

import (
	"github.com/acharya/acharya/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER - DTO <-> Domain transformations
// ══════════════════════════════════════════════════════════════════════════════

// Mapper converts between wire records and domain students. Both directions
// are total: every field is copied, nothing is inferred.
type Mapper struct{}

// NewMapper creates a new Mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// StudentFromDTO converts a wire record to a domain Student.
// Missing fields are already "" after decoding.
func (m *Mapper) StudentFromDTO(dto StudentDTO) student.Student {
	return student.Student{
		ID:                dto.ID.String(),
		FirstName:         dto.FirstName.String(),
		LastName:          dto.LastName.String(),
		Email:             dto.Email.String(),
		DateOfBirth:       dto.DateOfBirth.String(),
		PhoneNumber:       dto.PhoneNumber.String(),
		Address:           dto.Address.String(),
		City:              dto.City.String(),
		State:             dto.State.String(),
		ZipCode:           dto.ZipCode.String(),
		Grade:             dto.Grade.String(),
		SchoolName:        dto.SchoolName.String(),
		ParentName:        dto.ParentName.String(),
		ParentPhone:       dto.ParentPhone.String(),
		ParentEmail:       dto.ParentEmail.String(),
		EmergencyContact:  dto.EmergencyContact.String(),
		EmergencyPhone:    dto.EmergencyPhone.String(),
		MedicalConditions: dto.MedicalConditions.String(),
		Allergies:         dto.Allergies.String(),
		CreatedAt:         dto.CreatedAt.String(),
		UpdatedAt:         dto.UpdatedAt.String(),
	}
}

// StudentsFromDTOs converts a list of wire records. A nil input yields an empty list.
func (m *Mapper) StudentsFromDTOs(dtos []StudentDTO) []student.Student {
	out := make([]student.Student, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, m.StudentFromDTO(dto))
	}
	return out
}

// StudentToDTO converts a domain Student to its wire record.
func (m *Mapper) StudentToDTO(s student.Student) StudentDTO {
	return StudentDTO{
		ID:                Text(s.ID),
		FirstName:         Text(s.FirstName),
		LastName:          Text(s.LastName),
		Email:             Text(s.Email),
		DateOfBirth:       Text(s.DateOfBirth),
		PhoneNumber:       Text(s.PhoneNumber),
		Address:           Text(s.Address),
		City:              Text(s.City),
		State:             Text(s.State),
		ZipCode:           Text(s.ZipCode),
		Grade:             Text(s.Grade),
		SchoolName:        Text(s.SchoolName),
		ParentName:        Text(s.ParentName),
		ParentPhone:       Text(s.ParentPhone),
		ParentEmail:       Text(s.ParentEmail),
		EmergencyContact:  Text(s.EmergencyContact),
		EmergencyPhone:    Text(s.EmergencyPhone),
		MedicalConditions: Text(s.MedicalConditions),
		Allergies:         Text(s.Allergies),
		CreatedAt:         Text(s.CreatedAt),
		UpdatedAt:         Text(s.UpdatedAt),
	}
}
