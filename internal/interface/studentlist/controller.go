// Package studentlist implements the student list screen: search and grade
// filters over the store's collection, navigation to the detail, edit and
// register screens, and confirmed deletion.
package studentlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/acharya/acharya/internal/domain/student"
	"github.com/acharya/acharya/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLLABORATORS
// ══════════════════════════════════════════════════════════════════════════════

// StudentStore is the part of the student store the list screen reads and drives.
type StudentStore interface {
	Students() []student.Student
	Loading() bool
	Error() string
	StudentsCount() int
	HasStudents() bool
	SearchStudents(query string) []student.Student

	LoadStudents(ctx context.Context)
	SelectStudent(rec *student.Student)
	DeleteStudent(ctx context.Context, id string)
}

// Router moves the user to another screen.
type Router interface {
	Navigate(ctx context.Context, path string) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Screen paths.
const (
	RouteList     = "/students"
	RouteRegister = "/students/register"
)

// StudentPath returns the detail screen path for id.
func StudentPath(id string) string {
	return RouteList + "/" + url.PathEscape(id)
}

// StudentEditPath returns the edit screen path for id.
func StudentEditPath(id string) string {
	return StudentPath(id) + "/edit"
}

// ErrUnknownGrade is returned by SetGradeFilter for a grade outside the known list.
var ErrUnknownGrade = errors.New("studentlist: unknown grade")

// ══════════════════════════════════════════════════════════════════════════════
// CONTROLLER
// ══════════════════════════════════════════════════════════════════════════════

// ControllerConfig contains the controller's collaborators.
type ControllerConfig struct {
	Store     StudentStore
	Router    Router
	Confirmer Confirmer
	Logger    *slog.Logger
}

// Controller holds the two filter criteria of the list screen. Everything
// else is read from the store on demand.
type Controller struct {
	store     StudentStore
	router    Router
	confirmer Confirmer
	logger    *slog.Logger

	mu    sync.RWMutex
	query string
	grade string
}

// NewController creates a new list controller.
func NewController(config ControllerConfig) *Controller {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Controller{
		store:     config.Store,
		router:    config.Router,
		confirmer: config.Confirmer,
		logger:    config.Logger.With(logger.Component("student_list")),
	}
}

// Load fetches the collection. Failures surface through Error().
func (c *Controller) Load(ctx context.Context) {
	c.store.LoadStudents(ctx)
}

// ─────────────────────────────────────────────────────────────────────────────
// Filters
// ─────────────────────────────────────────────────────────────────────────────

// SetSearchQuery sets the free-text filter.
func (c *Controller) SetSearchQuery(query string) {
	c.mu.Lock()
	c.query = query
	c.mu.Unlock()
}

// SearchQuery returns the free-text filter.
func (c *Controller) SearchQuery() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

// SetGradeFilter sets the grade filter. An empty grade clears it.
func (c *Controller) SetGradeFilter(grade string) error {
	if grade != "" && !student.IsValidGrade(grade) {
		return fmt.Errorf("%w: %q", ErrUnknownGrade, grade)
	}
	c.mu.Lock()
	c.grade = grade
	c.mu.Unlock()
	return nil
}

// SelectedGrade returns the grade filter, "" when none.
func (c *Controller) SelectedGrade() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.grade
}

// ClearFilters resets both criteria.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	c.query = ""
	c.grade = ""
	c.mu.Unlock()
}

// FilteredStudents returns the collection narrowed by the search query and
// then by grade. A non-empty query goes through the store's search over the
// full collection; the grade filter applies to what the search returned.
func (c *Controller) FilteredStudents() []student.Student {
	c.mu.RLock()
	query, grade := c.query, c.grade
	c.mu.RUnlock()

	var list []student.Student
	if query != "" {
		list = c.store.SearchStudents(query)
	} else {
		list = c.store.Students()
	}

	if grade == "" {
		return list
	}
	out := make([]student.Student, 0, len(list))
	for _, s := range list {
		if s.Grade == grade {
			out = append(out, s)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Actions
// ─────────────────────────────────────────────────────────────────────────────

// AddNewStudent opens the register screen.
func (c *Controller) AddNewStudent(ctx context.Context) error {
	return c.navigate(ctx, RouteRegister)
}

// ViewStudent selects s and opens its detail screen.
func (c *Controller) ViewStudent(ctx context.Context, s student.Student) error {
	c.store.SelectStudent(&s)
	return c.navigate(ctx, StudentPath(s.ID))
}

// EditStudent selects s and opens its edit screen.
func (c *Controller) EditStudent(ctx context.Context, s student.Student) error {
	c.store.SelectStudent(&s)
	return c.navigate(ctx, StudentEditPath(s.ID))
}

// DeleteStudent asks for confirmation and deletes s when the user agrees.
// Declining is not an error. The outcome of the delete itself is reported
// through the store's Error().
func (c *Controller) DeleteStudent(ctx context.Context, s student.Student) error {
	prompt := DeletePrompt(s)
	ok, err := c.confirmer.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		c.logger.Debug("delete declined", logger.StudentID(s.ID))
		return nil
	}
	c.store.DeleteStudent(ctx, s.ID)
	return nil
}

// DeletePrompt is the question asked before deleting s.
func DeletePrompt(s student.Student) string {
	return fmt.Sprintf("Are you sure you want to delete %s?", s.FullName())
}

func (c *Controller) navigate(ctx context.Context, path string) error {
	if err := c.router.Navigate(ctx, path); err != nil {
		return fmt.Errorf("navigate %s: %w", path, err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// View helpers
// ─────────────────────────────────────────────────────────────────────────────

// GradeColor returns the badge color tag for grade.
func (c *Controller) GradeColor(grade string) string {
	return student.GradeColor(grade)
}

// GradeOptions returns the grade filter choices in order.
func (c *Controller) GradeOptions() []string {
	return student.Grades()
}

// HasActiveFilters reports whether either criterion is set.
func (c *Controller) HasActiveFilters() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return strings.TrimSpace(c.query) != "" || c.grade != ""
}

// Students returns the unfiltered collection.
func (c *Controller) Students() []student.Student { return c.store.Students() }

// Loading reports whether the store has a request in flight.
func (c *Controller) Loading() bool { return c.store.Loading() }

// Error returns the store's last failure message.
func (c *Controller) Error() string { return c.store.Error() }

// StudentsCount returns the size of the unfiltered collection.
func (c *Controller) StudentsCount() int { return c.store.StudentsCount() }

// HasStudents reports whether the collection is non-empty.
func (c *Controller) HasStudents() bool { return c.store.HasStudents() }
