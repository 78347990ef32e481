package command

import (
	"context"
	"fmt"

	"github.com/acharya/acharya/internal/application/store"
	"github.com/acharya/acharya/internal/domain/shared"
	"github.com/acharya/acharya/internal/domain/student"
)

// StudentWriter is the part of the student store the command handlers need.
type StudentWriter interface {
	CreateStudent(ctx context.Context, rec student.Student)
	UpdateStudent(ctx context.Context, id string, rec student.Student)
	Snapshot() store.State
}

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER STUDENT COMMAND
// Validates a filled-in registration form and hands the record to the store,
// which sends it to the server and appends the stored result.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentCommand contains the data to register a student.
type RegisterStudentCommand struct {
	Form Registration
}

// Validate validates the command.
func (c RegisterStudentCommand) Validate() error {
	return c.Form.Validate()
}

// RegisterStudentResult contains the result of a registration.
type RegisterStudentResult struct {
	// Student is the record as stored by the server.
	Student student.Student

	// Stored is false when the server accepted the record but returned no body.
	Stored bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentHandler handles the RegisterStudentCommand.
type RegisterStudentHandler struct {
	store StudentWriter
}

// NewRegisterStudentHandler creates a new RegisterStudentHandler.
func NewRegisterStudentHandler(store StudentWriter) *RegisterStudentHandler {
	return &RegisterStudentHandler{store: store}
}

// Handle executes the register student command.
//
// The store records failures instead of returning them, so the outcome is
// read back from its snapshot. Handlers are not meant to share a store with
// concurrent creates.
func (h *RegisterStudentHandler) Handle(ctx context.Context, cmd RegisterStudentCommand) (*RegisterStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("register_student: %w", err)
	}

	before := len(h.store.Snapshot().Students)
	h.store.CreateStudent(ctx, cmd.Form.ToStudent())

	after := h.store.Snapshot()
	if after.Error != "" {
		return nil, fmt.Errorf("register_student: %w",
			shared.NewDomainError("student", "Create", shared.ErrExternalService, after.Error))
	}

	result := &RegisterStudentResult{}
	if len(after.Students) > before {
		result.Student = after.Students[len(after.Students)-1]
		result.Stored = true
	}
	return result, nil
}
