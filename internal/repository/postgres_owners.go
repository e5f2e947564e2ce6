package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sensorhub/internal/domain"

	"github.com/lib/pq"
)

// PostgresOwnersRepository implements OwnersRepository against the owner
// table.
type PostgresOwnersRepository struct {
	db *sql.DB
}

func NewPostgresOwnersRepository(db *sql.DB) *PostgresOwnersRepository {
	return &PostgresOwnersRepository{db: db}
}

var _ OwnersRepository = (*PostgresOwnersRepository)(nil)

func (r *PostgresOwnersRepository) Create(ctx context.Context, owner *domain.Owner) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO owner (id, first_name, last_name, email_address, dob)
		 VALUES ($1, $2, $3, $4, $5)`,
		owner.ID, owner.FirstName, owner.LastName, owner.EmailAddress, owner.DOB,
	)
	if err != nil {
		return classifyError(err)
	}
	return nil
}

func (r *PostgresOwnersRepository) GetByID(ctx context.Context, id string) (*domain.Owner, error) {
	var o domain.Owner
	err := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email_address, dob FROM owner WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.FirstName, &o.LastName, &o.EmailAddress, &o.DOB)
	if err != nil {
		return nil, classifyError(err)
	}
	return &o, nil
}

func (r *PostgresOwnersRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Owner, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email_address, dob FROM owner WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	var owners []*domain.Owner
	for rows.Next() {
		var o domain.Owner
		if err := rows.Scan(&o.ID, &o.FirstName, &o.LastName, &o.EmailAddress, &o.DOB); err != nil {
			return nil, err
		}
		owners = append(owners, &o)
	}
	return owners, rows.Err()
}

func (r *PostgresOwnersRepository) List(ctx context.Context) ([]*domain.Owner, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email_address, dob FROM owner ORDER BY id`,
	)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	var owners []*domain.Owner
	for rows.Next() {
		var o domain.Owner
		if err := rows.Scan(&o.ID, &o.FirstName, &o.LastName, &o.EmailAddress, &o.DOB); err != nil {
			return nil, err
		}
		owners = append(owners, &o)
	}
	return owners, rows.Err()
}

func (r *PostgresOwnersRepository) Update(ctx context.Context, id string, update OwnerUpdate) (*domain.Owner, error) {
	if update.Empty() {
		return r.GetByID(ctx, id)
	}

	var sets []string
	var values []interface{}
	param := 1
	addSet := func(column string, v interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, param))
		values = append(values, v)
		param++
	}
	if update.FirstName != nil {
		addSet("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		addSet("last_name", *update.LastName)
	}
	if update.EmailAddress != nil {
		addSet("email_address", *update.EmailAddress)
	}
	if update.DOB != nil {
		addSet("dob", *update.DOB)
	}

	values = append(values, id)
	query := fmt.Sprintf(
		`UPDATE owner SET %s WHERE id = $%d
		 RETURNING id, first_name, last_name, email_address, dob`,
		strings.Join(sets, ", "), param,
	)

	var o domain.Owner
	err := r.db.QueryRowContext(ctx, query, values...).
		Scan(&o.ID, &o.FirstName, &o.LastName, &o.EmailAddress, &o.DOB)
	if err != nil {
		return nil, classifyError(err)
	}
	return &o, nil
}

func (r *PostgresOwnersRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM owner WHERE id = $1`, id)
	if err != nil {
		return classifyError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
