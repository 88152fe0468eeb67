package quiz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds shared by both backends. Handlers and the remote client map
// these onto HTTP status codes, so a caller sees the same failure taxonomy
// whichever backend is bound.
var (
	ErrUnavailable  = errors.New("storage backend unavailable")
	ErrConstraint   = errors.New("storage constraint violated")
	ErrCorruptData  = errors.New("stored data is malformed")
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// constraintViolated reports whether err is a uniqueness or foreign-key
// violation. Postgres exposes SQLSTATE codes through pgconn; the sqlite
// driver only gives us the message text.
func constraintViolated(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" || pgErr.Code == "23503"
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "FOREIGN KEY constraint")
}

func wrapStoreErr(op string, err error) error {
	if constraintViolated(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrConstraint, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
