package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrNotFound reports that the requested id has no matching row.
var ErrNotFound = errors.New("not found")

// ConstraintKind distinguishes the two constraint failures the boundary
// cares about.
type ConstraintKind string

const (
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintUnique     ConstraintKind = "unique"
)

// PostgreSQL error codes, see
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// ConstraintError is a classified foreign-key or uniqueness violation.
type ConstraintError struct {
	Kind       ConstraintKind
	Constraint string
	cause      error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation (%s): %s", e.Kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() error { return e.cause }

// IsConstraint reports whether err is a constraint violation of the given
// kind.
func IsConstraint(err error, kind ConstraintKind) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Kind == kind
}

// classifyError maps driver errors to the repository taxonomy. Anything it
// does not recognize passes through as a generic failure.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgForeignKeyViolation:
			return &ConstraintError{Kind: ConstraintForeignKey, Constraint: pqErr.Constraint, cause: err}
		case pgUniqueViolation:
			return &ConstraintError{Kind: ConstraintUnique, Constraint: pqErr.Constraint, cause: err}
		}
	}
	return err
}
