package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acharya/acharya/internal/application/store"
	"github.com/acharya/acharya/internal/domain/shared"
	"github.com/acharya/acharya/internal/domain/student"
	"github.com/acharya/acharya/pkg/logger"
)

func validForm() Registration {
	return Registration{
		FirstName:        "Asha",
		LastName:         "Rao",
		Email:            "asha@example.com",
		DateOfBirth:      "2016-04-02",
		PhoneNumber:      "555-0100",
		Address:          "1 Elm St",
		City:             "Springfield",
		State:            "IL",
		ZipCode:          "62701",
		Grade:            student.Grade3,
		SchoolName:       "Lincoln Elementary",
		ParentName:       "Priya Rao",
		ParentPhone:      "555-0101",
		ParentEmail:      "priya@example.com",
		EmergencyContact: "Dev Rao",
		EmergencyPhone:   "555-0102",
	}
}

func TestRegistration_Validate_OK(t *testing.T) {
	assert.NoError(t, validForm().Validate())
}

func TestRegistration_Validate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Registration)
		want   string
	}{
		{"missing first name", func(r *Registration) { r.FirstName = "" }, "firstName is required"},
		{"blank last name", func(r *Registration) { r.LastName = "   " }, "lastName is required"},
		{"bad email", func(r *Registration) { r.Email = "not-an-email" }, "email must be a valid email address"},
		{"bad parent email", func(r *Registration) { r.ParentEmail = "x@" }, "parentEmail must be a valid email address"},
		{"us date", func(r *Registration) { r.DateOfBirth = "04/02/2016" }, "dateOfBirth must be a date in YYYY-MM-DD form"},
		{"unknown grade", func(r *Registration) { r.Grade = "13th Grade" }, "grade must be one of the known grade levels"},
		{"missing emergency phone", func(r *Registration) { r.EmergencyPhone = "" }, "emergencyPhone is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			err := form.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrValidation)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRegistration_Validate_ListsEveryField(t *testing.T) {
	err := Registration{}.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "firstName is required")
	assert.Contains(t, msg, "grade is required")
	assert.Contains(t, msg, "parentEmail is required")
	assert.NotContains(t, msg, "allergies")
	assert.NotContains(t, msg, "medicalConditions")
}

func TestValidateField(t *testing.T) {
	assert.NoError(t, ValidateField("email", "a@b.co"))
	assert.EqualError(t, ValidateField("email", "nope"), "email must be a valid email address")
	assert.EqualError(t, ValidateField("city", "  "), "city is required")
	assert.NoError(t, ValidateField("allergies", ""))
	assert.NoError(t, ValidateField("unknown", ""))
	assert.NoError(t, ValidateField("grade", student.GradeKindergarten))
}

func TestRegistration_ToStudentTrims(t *testing.T) {
	form := validForm()
	form.FirstName = "  Asha "
	form.Allergies = " peanuts\n"

	s := form.ToStudent()
	assert.Equal(t, "Asha", s.FirstName)
	assert.Equal(t, "peanuts", s.Allergies)
	assert.Empty(t, s.ID)
	assert.Equal(t, student.Grade3, s.Grade)
}

func TestRegistrationFromStudent_DateReduced(t *testing.T) {
	form := RegistrationFromStudent(student.Student{
		FirstName:   "Asha",
		DateOfBirth: "2016-04-02T00:00:00Z",
	})
	assert.Equal(t, "2016-04-02", form.DateOfBirth)
	assert.Equal(t, "Asha", form.FirstName)

	form = RegistrationFromStudent(student.Student{DateOfBirth: "garbage"})
	assert.Equal(t, "garbage", form.DateOfBirth)
}

// ─────────────────────────────────────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────────────────────────────────────

type memoryAPI struct {
	mu      sync.Mutex
	records []student.Student
	err     error
	noBody  bool
}

func (m *memoryAPI) List(ctx context.Context) ([]student.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]student.Student(nil), m.records...), nil
}

func (m *memoryAPI) GetByID(ctx context.Context, id string) (*student.Student, error) {
	return nil, errors.New("not used")
}

func (m *memoryAPI) Create(ctx context.Context, s student.Student) (*student.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.noBody {
		return nil, nil
	}
	s.ID = "new-1"
	s.CreatedAt = "2026-10-17T00:00:00Z"
	m.records = append(m.records, s)
	return &s, nil
}

func (m *memoryAPI) Update(ctx context.Context, id string, s student.Student) (*student.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.noBody {
		return nil, nil
	}
	s.UpdatedAt = "2026-10-17T12:00:00Z"
	return &s, nil
}

func (m *memoryAPI) Delete(ctx context.Context, id string) error {
	return errors.New("not used")
}

func (m *memoryAPI) Search(ctx context.Context, query string) ([]student.Student, error) {
	return nil, errors.New("not used")
}

func newStore(api student.API) *store.Store {
	return store.New(api, store.WithLogger(logger.Discard()))
}

func TestRegisterStudentHandler_Success(t *testing.T) {
	s := newStore(&memoryAPI{})
	h := NewRegisterStudentHandler(s)

	res, err := h.Handle(context.Background(), RegisterStudentCommand{Form: validForm()})
	require.NoError(t, err)
	require.True(t, res.Stored)
	assert.Equal(t, "new-1", res.Student.ID)
	assert.Equal(t, "Asha Rao", res.Student.FullName())
	assert.Equal(t, 1, s.StudentsCount())
}

func TestRegisterStudentHandler_InvalidFormSkipsStore(t *testing.T) {
	api := &memoryAPI{}
	s := newStore(api)
	h := NewRegisterStudentHandler(s)

	form := validForm()
	form.Email = ""
	_, err := h.Handle(context.Background(), RegisterStudentCommand{Form: form})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Empty(t, api.records)
	assert.Empty(t, s.Error())
}

func TestRegisterStudentHandler_ServerFailure(t *testing.T) {
	s := newStore(&memoryAPI{err: errors.New("email already registered")})
	h := NewRegisterStudentHandler(s)

	_, err := h.Handle(context.Background(), RegisterStudentCommand{Form: validForm()})
	require.Error(t, err)
	assert.True(t, shared.IsExternalService(err))
	assert.Contains(t, err.Error(), "email already registered")
	assert.Equal(t, "email already registered", s.Error())
	assert.False(t, s.HasStudents())
}

func TestRegisterStudentHandler_EmptyReply(t *testing.T) {
	s := newStore(&memoryAPI{noBody: true})
	h := NewRegisterStudentHandler(s)

	res, err := h.Handle(context.Background(), RegisterStudentCommand{Form: validForm()})
	require.NoError(t, err)
	assert.False(t, res.Stored)
	assert.Equal(t, 0, s.StudentsCount())
}

func TestUpdateStudentHandler(t *testing.T) {
	original := validForm().ToStudent()
	original.ID = "7"
	original.CreatedAt = "2026-01-01T00:00:00Z"

	api := &memoryAPI{records: []student.Student{original}}
	s := newStore(api)
	s.LoadStudents(context.Background())
	require.Equal(t, 1, s.StudentsCount())

	form := RegistrationFromStudent(original)
	form.Grade = student.Grade4

	h := NewUpdateStudentHandler(s)
	res, err := h.Handle(context.Background(), UpdateStudentCommand{ID: "7", Form: form, Original: &original})
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, student.Grade4, res.Student.Grade)
	assert.Equal(t, "2026-01-01T00:00:00Z", res.Student.CreatedAt)
	assert.Equal(t, "2026-10-17T12:00:00Z", res.Student.UpdatedAt)
}

func TestUpdateStudentHandler_RequiresID(t *testing.T) {
	h := NewUpdateStudentHandler(newStore(&memoryAPI{}))

	_, err := h.Handle(context.Background(), UpdateStudentCommand{Form: validForm()})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestUpdateStudentHandler_NotLoaded(t *testing.T) {
	h := NewUpdateStudentHandler(newStore(&memoryAPI{}))

	res, err := h.Handle(context.Background(), UpdateStudentCommand{ID: "9", Form: validForm()})
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestUpdateStudentHandler_SelectedButNotLoaded(t *testing.T) {
	original := validForm().ToStudent()
	original.ID = "9"
	original.CreatedAt = "2026-01-01T00:00:00Z"

	s := newStore(&memoryAPI{})
	s.SelectStudent(&original)

	form := RegistrationFromStudent(original)
	form.City = "Shelbyville"

	h := NewUpdateStudentHandler(s)
	res, err := h.Handle(context.Background(), UpdateStudentCommand{ID: "9", Form: form, Original: &original})
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, "9", res.Student.ID)
	assert.Equal(t, "Shelbyville", res.Student.City)
	assert.Equal(t, "2026-10-17T12:00:00Z", res.Student.UpdatedAt)
	assert.Equal(t, 0, s.StudentsCount())
}

func TestUpdateStudentHandler_SelectedEmptyReply(t *testing.T) {
	original := validForm().ToStudent()
	original.ID = "9"

	s := newStore(&memoryAPI{noBody: true})
	s.SelectStudent(&original)

	h := NewUpdateStudentHandler(s)
	res, err := h.Handle(context.Background(), UpdateStudentCommand{ID: "9", Form: RegistrationFromStudent(original)})
	require.NoError(t, err)
	assert.False(t, res.Found)
}
