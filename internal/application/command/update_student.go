package command

import (
	"context"
	"fmt"
	"reflect"

	"github.com/acharya/acharya/internal/domain/shared"
	"github.com/acharya/acharya/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE STUDENT COMMAND
// Saves an edited registration form over an existing record.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateStudentCommand contains the data to update a student.
type UpdateStudentCommand struct {
	// ID of the record being edited.
	ID string

	Form Registration

	// Original is the record the form was filled from. Its server-assigned
	// timestamps are carried over unchanged.
	Original *student.Student
}

// Validate validates the command.
func (c UpdateStudentCommand) Validate() error {
	if c.ID == "" {
		return shared.ErrStudentIDRequired
	}
	return c.Form.Validate()
}

// UpdateStudentResult contains the result of an update.
type UpdateStudentResult struct {
	Student student.Student

	// Found is false when the store holds no server copy of the record after
	// the update: it was neither loaded nor selected, or the server replied
	// with an empty body.
	Found bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// UpdateStudentHandler handles the UpdateStudentCommand.
type UpdateStudentHandler struct {
	store StudentWriter
}

// NewUpdateStudentHandler creates a new UpdateStudentHandler.
func NewUpdateStudentHandler(store StudentWriter) *UpdateStudentHandler {
	return &UpdateStudentHandler{store: store}
}

// Handle executes the update student command.
func (h *UpdateStudentHandler) Handle(ctx context.Context, cmd UpdateStudentCommand) (*UpdateStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("update_student: %w", err)
	}

	rec := cmd.Form.ToStudent()
	rec.ID = cmd.ID
	if cmd.Original != nil {
		rec.CreatedAt = cmd.Original.CreatedAt
		rec.UpdatedAt = cmd.Original.UpdatedAt
	}

	before := h.store.Snapshot()
	h.store.UpdateStudent(ctx, cmd.ID, rec)

	after := h.store.Snapshot()
	if after.Error != "" {
		return nil, fmt.Errorf("update_student: %w",
			shared.NewDomainError("student", "Update", shared.ErrExternalService, after.Error))
	}

	result := &UpdateStudentResult{}
	for _, s := range after.Students {
		if s.ID == cmd.ID {
			result.Student = s
			result.Found = true
			return result, nil
		}
	}

	// The store refreshes a matching selection with the server's record even
	// when the collection does not contain it.
	if sel := after.Selected; sel != nil && sel.ID == cmd.ID && !reflect.DeepEqual(before.Selected, sel) {
		result.Student = *sel
		result.Found = true
	}
	return result, nil
}
