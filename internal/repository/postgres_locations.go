package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sensorhub/internal/domain"

	"github.com/lib/pq"
)

// PostgresLocationsRepository implements LocationsRepository against the
// location table.
type PostgresLocationsRepository struct {
	db *sql.DB
}

func NewPostgresLocationsRepository(db *sql.DB) *PostgresLocationsRepository {
	return &PostgresLocationsRepository{db: db}
}

var _ LocationsRepository = (*PostgresLocationsRepository)(nil)

func (r *PostgresLocationsRepository) Create(ctx context.Context, location *domain.Location) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO location (id, longitude, latitude, country, city)
		 VALUES ($1, $2, $3, $4, $5)`,
		location.ID, location.Longitude, location.Latitude, location.Country, location.City,
	)
	if err != nil {
		return classifyError(err)
	}
	return nil
}

func (r *PostgresLocationsRepository) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	var l domain.Location
	err := r.db.QueryRowContext(ctx,
		`SELECT id, longitude, latitude, country, city FROM location WHERE id = $1`,
		id,
	).Scan(&l.ID, &l.Longitude, &l.Latitude, &l.Country, &l.City)
	if err != nil {
		return nil, classifyError(err)
	}
	return &l, nil
}

func (r *PostgresLocationsRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, longitude, latitude, country, city FROM location WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	var locations []*domain.Location
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Longitude, &l.Latitude, &l.Country, &l.City); err != nil {
			return nil, err
		}
		locations = append(locations, &l)
	}
	return locations, rows.Err()
}

func (r *PostgresLocationsRepository) List(ctx context.Context) ([]*domain.Location, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, longitude, latitude, country, city FROM location ORDER BY id`,
	)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	var locations []*domain.Location
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Longitude, &l.Latitude, &l.Country, &l.City); err != nil {
			return nil, err
		}
		locations = append(locations, &l)
	}
	return locations, rows.Err()
}

func (r *PostgresLocationsRepository) Update(ctx context.Context, id string, update LocationUpdate) (*domain.Location, error) {
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
	if update.Longitude != nil {
		addSet("longitude", *update.Longitude)
	}
	if update.Latitude != nil {
		addSet("latitude", *update.Latitude)
	}
	if update.Country != nil {
		addSet("country", *update.Country)
	}
	if update.City != nil {
		addSet("city", *update.City)
	}

	values = append(values, id)
	query := fmt.Sprintf(
		`UPDATE location SET %s WHERE id = $%d
		 RETURNING id, longitude, latitude, country, city`,
		strings.Join(sets, ", "), param,
	)

	var l domain.Location
	err := r.db.QueryRowContext(ctx, query, values...).
		Scan(&l.ID, &l.Longitude, &l.Latitude, &l.Country, &l.City)
	if err != nil {
		return nil, classifyError(err)
	}
	return &l, nil
}

func (r *PostgresLocationsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM location WHERE id = $1`, id)
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
