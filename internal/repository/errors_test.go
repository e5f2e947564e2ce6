package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want func(error) bool
	}{
		{
			name: "nil passes through",
			in:   nil,
			want: func(err error) bool { return err == nil },
		},
		{
			name: "no rows becomes not found",
			in:   sql.ErrNoRows,
			want: func(err error) bool { return errors.Is(err, ErrNotFound) },
		},
		{
			name: "foreign key violation",
			in:   &pq.Error{Code: "23503", Constraint: "sensor_owner_id_fkey"},
			want: func(err error) bool { return IsConstraint(err, ConstraintForeignKey) },
		},
		{
			name: "unique violation",
			in:   &pq.Error{Code: "23505", Constraint: "owner_email_address_key"},
			want: func(err error) bool { return IsConstraint(err, ConstraintUnique) },
		},
		{
			name: "other pq error passes through",
			in:   &pq.Error{Code: "57014"},
			want: func(err error) bool {
				return err != nil && !IsConstraint(err, ConstraintForeignKey) && !IsConstraint(err, ConstraintUnique)
			},
		},
		{
			name: "wrapped pq error still classified",
			in:   fmt.Errorf("insert failed: %w", &pq.Error{Code: "23505"}),
			want: func(err error) bool { return IsConstraint(err, ConstraintUnique) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want(classifyError(tt.in)))
		})
	}
}

func TestConstraintError_Unwrap(t *testing.T) {
	cause := &pq.Error{Code: "23505", Constraint: "owner_email_address_key"}
	classified := classifyError(cause)

	var pqErr *pq.Error
	assert.True(t, errors.As(classified, &pqErr))
	assert.Equal(t, cause, pqErr)
}
