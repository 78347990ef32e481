package student

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// API PORT
// This interface is the contract for the remote student resource.
// The implementation lives in infrastructure/external/studentapi.
// ══════════════════════════════════════════════════════════════════════════════

// API defines the operations the remote student resource exposes.
// Every returned record is already in domain shape.
type API interface {
	// List returns every student known to the server.
	List(ctx context.Context) ([]Student, error)

	// GetByID returns a single student.
	// A nil student with a nil error means the server answered with an empty body.
	GetByID(ctx context.Context, id string) (*Student, error)

	// Create registers a new student and returns the stored record,
	// with its identifier and timestamps assigned by the server.
	Create(ctx context.Context, s Student) (*Student, error)

	// Update replaces the student with the given id and returns the stored record.
	Update(ctx context.Context, id string, s Student) (*Student, error)

	// Delete removes the student with the given id.
	Delete(ctx context.Context, id string) error

	// Search runs a server-side search.
	Search(ctx context.Context, query string) ([]Student, error)
}
