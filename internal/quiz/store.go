package quiz

import "context"

// Store is the data-access contract shared by the embedded and networked
// backends. Exactly one Store is constructed per process (see ResolveStore)
// and it owns the only storage handle; nothing above it knows which backend
// is bound.
type Store interface {
	// Login returns the student with the given (name, age, class) key,
	// creating the row on first sight. Absence is not an error.
	Login(ctx context.Context, name string, age int, class string) (Student, error)

	// SaveTest persists a generated question set and returns the new test
	// id. The caller assembles the full Test record client-side.
	SaveTest(ctx context.Context, studentID int64, topic string, complexity Complexity, concepts string, questions []Question) (int64, error)

	// GetHistory returns the student's tests newest-first, each joined with
	// its result fields when a result exists.
	GetHistory(ctx context.Context, studentID int64) ([]HistoryEntry, error)

	// SaveResult persists one evaluation of a test and returns the new
	// result id.
	SaveResult(ctx context.Context, testID int64, answers map[int]string, score int, feedback string, analysis Analysis) (int64, error)

	Close() error
}
