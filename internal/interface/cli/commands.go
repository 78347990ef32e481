package cli

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/acharya/acharya/internal/application/command"
	"github.com/acharya/acharya/internal/application/store"
	"github.com/acharya/acharya/internal/domain/student"
	"github.com/acharya/acharya/internal/infrastructure/scheduler"
	"github.com/acharya/acharya/internal/interface/studentlist"
)

// ─────────────────────────────────────────────────────────────────────────────
// list
// ─────────────────────────────────────────────────────────────────────────────

func newListCommand(a *app) *cobra.Command {
	var (
		query, grade string
		watch        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered students",
		Long: `List registered students.

--query narrows the list to students whose first name, last name, email or
school contains the text (case-insensitive). --grade keeps one grade level.
Both filters apply together. --watch keeps reloading until interrupted and
reprints the list whenever it changes.`,
		Example: `  acharya list
  acharya list --query lincoln --grade "3rd Grade"
  acharya list -o json
  acharya list --watch 30s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := a.controller(nil)
			ctrl.SetSearchQuery(query)
			if err := ctrl.SetGradeFilter(grade); err != nil {
				return err
			}

			if watch > 0 {
				return a.watchList(cmd.Context(), ctrl, watch)
			}

			ctrl.Load(cmd.Context())
			if err := a.storeError("load students"); err != nil {
				return err
			}
			return a.printer.Students(ctrl.FilteredStudents())
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by name, email or school")
	cmd.Flags().StringVarP(&grade, "grade", "g", "", "Filter by grade level (see 'acharya grades')")
	cmd.Flags().DurationVarP(&watch, "watch", "w", 0, "Reload every interval and reprint when the list changes")
	_ = cmd.RegisterFlagCompletionFunc("grade", completeGrades)
	return cmd
}

// watchList reloads on every tick and prints the filtered list when it
// differs from the last one printed. Failed reloads are logged and retried on
// the next tick.
func (a *app) watchList(ctx context.Context, ctrl *studentlist.Controller, every time.Duration) error {
	var (
		last    []student.Student
		printed bool
	)

	job := scheduler.NewJob("reload_students", func(ctx context.Context) error {
		ctrl.Load(ctx)
		if err := a.storeError("load students"); err != nil {
			return err
		}

		current := ctrl.FilteredStudents()
		if printed && reflect.DeepEqual(current, last) {
			return nil
		}
		if printed {
			a.printer.Message("")
		}
		a.printer.Message("%s  %d student(s)", time.Now().Format(time.TimeOnly), len(current))
		last, printed = current, true
		return a.printer.Students(current)
	})

	runner := scheduler.NewRunner(scheduler.RunnerConfig{Logger: a.logger})
	return runner.Run(ctx, job, scheduler.NewIntervalSchedule(every))
}

// ─────────────────────────────────────────────────────────────────────────────
// show
// ─────────────────────────────────────────────────────────────────────────────

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.fetch(ctx, args[0])
			if err != nil {
				return err
			}

			a.nav.Handle(ScreenDetail, func(ctx context.Context, _ map[string]string) error {
				sel, ok := a.store.Selected()
				if !ok {
					return errors.New("no student selected")
				}
				return a.printer.Student(sel)
			})
			return a.controller(nil).ViewStudent(ctx, s)
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// register
// ─────────────────────────────────────────────────────────────────────────────

func newRegisterCommand(a *app) *cobra.Command {
	var (
		form        command.Registration
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new student",
		Long: `Register a new student.

Pass every required field as a flag, or run without field flags (or with
--interactive) to fill in a form.`,
		Example: `  acharya register
  acharya register --first-name Asha --last-name Rao --email asha@example.com \
    --dob 2016-04-02 --phone 555-0100 --address "1 Elm St" --city Springfield \
    --state IL --zip 62701 --grade "3rd Grade" --school "Lincoln Elementary" \
    --parent-name "Priya Rao" --parent-phone 555-0101 --parent-email priya@example.com \
    --emergency-contact "Dev Rao" --emergency-phone 555-0102`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ask := interactive || !anyRegistrationFlag(cmd.Flags())

			a.nav.Handle(ScreenRegister, func(ctx context.Context, _ map[string]string) error {
				if ask {
					if err := runRegistrationForm(ctx, &form, a.formIO(), accessible()); err != nil {
						return err
					}
				}

				res, err := a.register.Handle(ctx, command.RegisterStudentCommand{Form: form})
				if err != nil {
					return err
				}
				if !res.Stored {
					a.printer.Message("Student registered.")
					return nil
				}
				a.printer.Message("Registered %s (id %s).", res.Student.FullName(), res.Student.ID)
				return a.printer.Student(res.Student)
			})
			return a.controller(nil).AddNewStudent(cmd.Context())
		},
	}

	bindRegistrationFlags(cmd.Flags(), &form)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the form interactively")
	_ = cmd.RegisterFlagCompletionFunc("grade", completeGrades)
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// edit
// ─────────────────────────────────────────────────────────────────────────────

func newEditCommand(a *app) *cobra.Command {
	var (
		overrides   command.Registration
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a student",
		Long: `Edit a student.

Fields passed as flags replace the stored values; everything else is kept.
Without field flags (or with --interactive) a pre-filled form is shown.`,
		Example: `  acharya edit 7 --grade "4th Grade"
  acharya edit 7 --interactive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			ask := interactive || !anyRegistrationFlag(cmd.Flags())

			ctrl := a.controller(nil)
			ctrl.Load(ctx)
			if err := a.storeError("load students"); err != nil {
				return err
			}

			s, ok := a.store.StudentByID(id)
			if !ok {
				var err error
				if s, err = a.fetch(ctx, id); err != nil {
					return err
				}
			}

			a.nav.Handle(ScreenEdit, func(ctx context.Context, _ map[string]string) error {
				sel, ok := a.store.Selected()
				if !ok {
					return errors.New("no student selected")
				}

				form := command.RegistrationFromStudent(sel)
				applyChangedFlags(cmd.Flags(), &overrides, &form)
				if ask {
					if err := runRegistrationForm(ctx, &form, a.formIO(), accessible()); err != nil {
						return err
					}
				}

				res, err := a.update.Handle(ctx, command.UpdateStudentCommand{ID: sel.ID, Form: form, Original: &sel})
				if err != nil {
					return err
				}
				if !res.Found {
					a.printer.Message("Student %s updated.", sel.ID)
					return nil
				}
				a.printer.Message("Updated %s.", res.Student.FullName())
				return a.printer.Student(res.Student)
			})
			return ctrl.EditStudent(ctx, s)
		},
	}

	bindRegistrationFlags(cmd.Flags(), &overrides)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Edit in a pre-filled form")
	_ = cmd.RegisterFlagCompletionFunc("grade", completeGrades)
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// delete
// ─────────────────────────────────────────────────────────────────────────────

func newDeleteCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a student",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.fetch(ctx, args[0])
			if err != nil {
				return err
			}

			deleted := false
			unsubscribe, err := a.store.Subscribe(func(e store.ChangeEvent) {
				if e.Kind == store.ChangeDeleted && e.StudentID == s.ID {
					deleted = true
				}
			})
			if err != nil {
				return err
			}
			defer unsubscribe()

			confirmer := &HuhConfirmer{
				In:         a.io.In,
				Out:        a.io.Err,
				AssumeYes:  yes,
				Accessible: accessible(),
			}
			if err := a.controller(confirmer).DeleteStudent(ctx, s); err != nil {
				return err
			}
			if err := a.storeError("delete student"); err != nil {
				return err
			}

			if !deleted {
				a.printer.Message("Cancelled.")
				return nil
			}
			a.printer.Message("Deleted %s (id %s).", s.FullName(), s.ID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// search
// ─────────────────────────────────────────────────────────────────────────────

func newSearchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search students on the server",
		Long: `Search students using the server's search endpoint.

Unlike 'list --query', which filters the loaded list locally, the matching
here is whatever the server implements.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := a.api.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.printer.Students(found)
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// grades
// ─────────────────────────────────────────────────────────────────────────────

func newGradesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "grades",
		Short: "List grade levels and their badge colors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printer.Grades(a.controller(nil).GradeOptions())
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────────────────────────────────────

func completeGrades(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return student.Grades(), cobra.ShellCompDirectiveNoFileComp
}

// formIO sends interactive forms to stderr so stdout carries only results.
func (a *app) formIO() IO {
	return IO{In: a.io.In, Out: a.io.Err, Err: a.io.Err}
}

// accessible follows huh's convention of an ACCESSIBLE environment variable.
func accessible() bool {
	return os.Getenv("ACCESSIBLE") != ""
}
