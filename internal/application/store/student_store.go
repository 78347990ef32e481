// Package store holds the client-side state of the student collection.
//
// Store is the single authoritative holder of the collection, the request
// flags and the current selection. Every write goes through the student API
// port; the UI only ever sees server-confirmed records.
package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/acharya/acharya/internal/domain/student"
	"github.com/acharya/acharya/internal/infrastructure/messaging"
	"github.com/acharya/acharya/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATE & EVENTS
// ══════════════════════════════════════════════════════════════════════════════

// ChangeKind names what caused a state change.
type ChangeKind string

const (
	ChangeRequestStarted ChangeKind = "request_started"
	ChangeLoaded         ChangeKind = "loaded"
	ChangeCreated        ChangeKind = "created"
	ChangeUpdated        ChangeKind = "updated"
	ChangeDeleted        ChangeKind = "deleted"
	ChangeFailed         ChangeKind = "failed"
	ChangeSelected       ChangeKind = "selected"
	ChangeErrorCleared   ChangeKind = "error_cleared"
)

// State is an immutable snapshot of the store.
type State struct {
	// Version increases by one with every committed change.
	Version uint64

	Students []student.Student
	Loading  bool
	Error    string
	Selected *student.Student
}

// ChangeEvent is published after every committed change.
// Subscribers on different goroutines may observe events out of order when
// operations overlap; State.Version orders them.
type ChangeEvent struct {
	Kind      ChangeKind
	Operation string
	StudentID string
	State     State
}

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store is the observable holder of the student collection.
//
// Network operations never return errors: a failure is recorded in Error()
// and the collection is left as it was. Overlapping operations are not
// serialized against each other, the last one to complete wins.
type Store struct {
	api    student.API
	bus    *messaging.InMemoryEventBus[ChangeEvent]
	logger *slog.Logger

	mu       sync.RWMutex
	version  uint64
	students []student.Student
	inflight int
	err      string
	selected *student.Student
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEventBus sets the bus change events are published on.
func WithEventBus(bus *messaging.InMemoryEventBus[ChangeEvent]) Option {
	return func(s *Store) {
		if bus != nil {
			s.bus = bus
		}
	}
}

// New creates an empty store backed by api.
func New(api student.API, opts ...Option) *Store {
	s := &Store{
		api:      api,
		logger:   slog.Default(),
		students: []student.Student{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = messaging.NewInMemoryEventBus[ChangeEvent](messaging.InMemoryEventBusConfig{Logger: s.logger})
	}
	s.logger = s.logger.With(logger.Component("student_store"))
	return s
}

// ─────────────────────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────────────────────

// Students returns a copy of the collection in its current order.
func (s *Store) Students() []student.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStudents(s.students)
}

// Loading reports whether any API operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Error returns the message of the most recent failure, or "" when there is none.
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Selected returns the selected student.
func (s *Store) Selected() (student.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return student.Student{}, false
	}
	return *s.selected, true
}

// StudentsCount returns the size of the collection.
func (s *Store) StudentsCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.students)
}

// HasStudents reports whether the collection is non-empty.
func (s *Store) HasStudents() bool {
	return s.StudentsCount() > 0
}

// StudentByID looks a student up in the local collection.
func (s *Store) StudentByID(id string) (student.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.students {
		if st.ID == id {
			return st, true
		}
	}
	return student.Student{}, false
}

// Snapshot returns the whole state at once.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// SearchStudents filters the local collection by a case-insensitive substring
// of first name, last name, email or school name. A blank query returns the
// whole collection. The store is not modified.
func (s *Store) SearchStudents(query string) []student.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if strings.TrimSpace(query) == "" {
		return cloneStudents(s.students)
	}

	lower := strings.ToLower(query)
	result := make([]student.Student, 0, len(s.students))
	for _, st := range s.students {
		if st.MatchesQuery(lower) {
			result = append(result, st)
		}
	}
	return result
}

// Subscribe registers fn for every committed change. The returned function
// unsubscribes. fn runs on the goroutine that committed the change.
func (s *Store) Subscribe(fn func(ChangeEvent)) (func(), error) {
	return s.bus.Subscribe(func(e ChangeEvent) error {
		fn(e)
		return nil
	})
}

// Close stops event delivery.
func (s *Store) Close() error {
	return s.bus.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Network operations
// ─────────────────────────────────────────────────────────────────────────────

// LoadStudents replaces the collection with the server's list.
// On failure the previous collection stays in place.
func (s *Store) LoadStudents(ctx context.Context) {
	const op = "load"
	start := s.begin(op, "")

	students, err := s.api.List(ctx)
	if err != nil {
		s.fail(op, "", "failed to load students", err, start)
		return
	}

	s.commit(ChangeLoaded, op, "", start, func() {
		s.students = cloneStudents(students)
		if s.students == nil {
			s.students = []student.Student{}
		}
	})
}

// CreateStudent sends rec to the server and appends the stored record.
func (s *Store) CreateStudent(ctx context.Context, rec student.Student) {
	const op = "create"
	start := s.begin(op, "")

	created, err := s.api.Create(ctx, rec)
	if err != nil {
		s.fail(op, "", "failed to create student", err, start)
		return
	}

	id := ""
	if created != nil {
		id = created.ID
	}
	s.commit(ChangeCreated, op, id, start, func() {
		if created != nil {
			s.students = append(s.students, *created)
		}
	})
}

// UpdateStudent sends rec to the server and replaces the entry with id by the
// stored record. A selection pointing at id is refreshed too.
func (s *Store) UpdateStudent(ctx context.Context, id string, rec student.Student) {
	const op = "update"
	start := s.begin(op, id)

	updated, err := s.api.Update(ctx, id, rec)
	if err != nil {
		s.fail(op, id, "failed to update student", err, start)
		return
	}

	s.commit(ChangeUpdated, op, id, start, func() {
		if updated == nil {
			return
		}
		for i := range s.students {
			if s.students[i].ID == id {
				s.students[i] = *updated
			}
		}
		if s.selected != nil && s.selected.ID == id {
			sel := *updated
			s.selected = &sel
		}
	})
}

// DeleteStudent removes the student with id on the server and then locally.
// A selection pointing at id is cleared.
func (s *Store) DeleteStudent(ctx context.Context, id string) {
	const op = "delete"
	start := s.begin(op, id)

	if err := s.api.Delete(ctx, id); err != nil {
		s.fail(op, id, "failed to delete student", err, start)
		return
	}

	s.commit(ChangeDeleted, op, id, start, func() {
		kept := make([]student.Student, 0, len(s.students))
		for _, st := range s.students {
			if st.ID != id {
				kept = append(kept, st)
			}
		}
		s.students = kept
		if s.selected != nil && s.selected.ID == id {
			s.selected = nil
		}
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Local operations
// ─────────────────────────────────────────────────────────────────────────────

// SelectStudent sets the selection. nil clears it.
func (s *Store) SelectStudent(rec *student.Student) {
	s.mu.Lock()
	if rec == nil {
		s.selected = nil
	} else {
		sel := *rec
		s.selected = &sel
	}
	s.version++
	ev := ChangeEvent{Kind: ChangeSelected, StudentID: idOf(rec), State: s.snapshotLocked()}
	s.mu.Unlock()

	s.publish(ev)
}

// ClearError drops the recorded failure message.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.version++
	ev := ChangeEvent{Kind: ChangeErrorCleared, State: s.snapshotLocked()}
	s.mu.Unlock()

	s.publish(ev)
}

// ══════════════════════════════════════════════════════════════════════════════
// INTERNALS
// ══════════════════════════════════════════════════════════════════════════════

// begin marks an operation as in flight and clears the previous error.
func (s *Store) begin(op, id string) time.Time {
	s.mu.Lock()
	s.inflight++
	s.err = ""
	s.version++
	ev := ChangeEvent{Kind: ChangeRequestStarted, Operation: op, StudentID: id, State: s.snapshotLocked()}
	s.mu.Unlock()

	s.publish(ev)
	return time.Now()
}

// commit applies a successful result and ends the operation in one step.
func (s *Store) commit(kind ChangeKind, op, id string, start time.Time, apply func()) {
	s.mu.Lock()
	apply()
	s.inflight--
	s.version++
	ev := ChangeEvent{Kind: kind, Operation: op, StudentID: id, State: s.snapshotLocked()}
	s.mu.Unlock()

	s.logger.Debug("operation succeeded",
		logger.Operation(op),
		logger.StudentID(id),
		logger.Count(len(ev.State.Students)),
		logger.Latency(time.Since(start)),
	)
	s.publish(ev)
}

// fail records the failure message and ends the operation.
func (s *Store) fail(op, id, fallback string, err error, start time.Time) {
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}

	s.mu.Lock()
	s.err = msg
	s.inflight--
	s.version++
	ev := ChangeEvent{Kind: ChangeFailed, Operation: op, StudentID: id, State: s.snapshotLocked()}
	s.mu.Unlock()

	s.logger.Warn("operation failed",
		logger.Operation(op),
		logger.StudentID(id),
		logger.Latency(time.Since(start)),
		logger.Err(err),
	)
	s.publish(ev)
}

func (s *Store) publish(ev ChangeEvent) {
	if err := s.bus.Publish(ev); err != nil {
		s.logger.Debug("change event dropped", slog.String("kind", string(ev.Kind)), logger.Err(err))
	}
}

func (s *Store) snapshotLocked() State {
	st := State{
		Version:  s.version,
		Students: cloneStudents(s.students),
		Loading:  s.inflight > 0,
		Error:    s.err,
	}
	if s.selected != nil {
		sel := *s.selected
		st.Selected = &sel
	}
	return st
}

func cloneStudents(in []student.Student) []student.Student {
	if in == nil {
		return nil
	}
	out := make([]student.Student, len(in))
	copy(out, in)
	return out
}

func idOf(rec *student.Student) string {
	if rec == nil {
		return ""
	}
	return rec.ID
}
