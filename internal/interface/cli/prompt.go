package cli

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/acharya/acharya/internal/application/command"
	"github.com/acharya/acharya/internal/domain/student"
	"github.com/acharya/acharya/internal/interface/studentlist"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIRMATION
// ══════════════════════════════════════════════════════════════════════════════

// HuhConfirmer asks yes/no questions with a huh confirm field.
type HuhConfirmer struct {
	In  io.Reader
	Out io.Writer

	// AssumeYes answers every question with yes without prompting.
	AssumeYes bool

	// Accessible switches huh to plain line-based prompts.
	Accessible bool
}

var _ studentlist.Confirmer = (*HuhConfirmer)(nil)

// Confirm asks prompt. Aborting the prompt (ctrl+c, esc) counts as no.
func (c *HuhConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.AssumeYes {
		return true, nil
	}

	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	).WithInput(c.In).WithOutput(c.Out).WithAccessible(c.Accessible)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRATION FORM
// ══════════════════════════════════════════════════════════════════════════════

// runRegistrationForm fills reg interactively. Existing values are shown as
// the starting input, so the same form serves register and edit.
func runRegistrationForm(ctx context.Context, reg *command.Registration, streams IO, accessible bool) error {
	input := func(f registrationField) huh.Field {
		return huh.NewInput().
			Title(f.title).
			Placeholder(f.placeholder).
			Value(f.ptr(reg)).
			Validate(func(s string) error {
				return command.ValidateField(f.wire, s)
			})
	}

	groups := make([]*huh.Group, 0, len(fieldGroups))
	for _, names := range fieldGroups {
		fields := make([]huh.Field, 0, len(names))
		for _, name := range names {
			f := fieldByFlag(name)
			if f.flag == "grade" {
				fields = append(fields, huh.NewSelect[string]().
					Title(f.title).
					Options(huh.NewOptions(student.Grades()...)...).
					Value(f.ptr(reg)))
				continue
			}
			fields = append(fields, input(f))
		}
		groups = append(groups, huh.NewGroup(fields...))
	}

	return huh.NewForm(groups...).
		WithInput(streams.In).
		WithOutput(streams.Out).
		WithAccessible(accessible).
		RunWithContext(ctx)
}
