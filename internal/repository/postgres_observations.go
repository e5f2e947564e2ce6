package repository

import (
	"context"
	"database/sql"

	"sensorhub/internal/domain"
)

// PostgresObservationsRepository implements ObservationsRepository against
// the observation table.
type PostgresObservationsRepository struct {
	db *sql.DB
}

func NewPostgresObservationsRepository(db *sql.DB) *PostgresObservationsRepository {
	return &PostgresObservationsRepository{db: db}
}

var _ ObservationsRepository = (*PostgresObservationsRepository)(nil)

func (r *PostgresObservationsRepository) Create(ctx context.Context, observation *domain.Observation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO observation (id, sensor_id, value, timestamp)
		 VALUES ($1, $2, $3, $4)`,
		observation.ID, observation.SensorID, observation.Value, observation.Timestamp,
	)
	if err != nil {
		return classifyError(err)
	}
	return nil
}

func (r *PostgresObservationsRepository) GetByID(ctx context.Context, id string) (*domain.Observation, error) {
	var o domain.Observation
	err := r.db.QueryRowContext(ctx,
		`SELECT id, sensor_id, value, timestamp FROM observation WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.SensorID, &o.Value, &o.Timestamp)
	if err != nil {
		return nil, classifyError(err)
	}
	return &o, nil
}

func (r *PostgresObservationsRepository) List(ctx context.Context) ([]*domain.Observation, error) {
	return r.query(ctx,
		`SELECT id, sensor_id, value, timestamp FROM observation ORDER BY timestamp DESC`)
}

func (r *PostgresObservationsRepository) ListBySensor(ctx context.Context, sensorID string, limit int) ([]*domain.Observation, error) {
	if limit > 0 {
		return r.query(ctx,
			`SELECT id, sensor_id, value, timestamp FROM observation
			 WHERE sensor_id = $1 ORDER BY timestamp DESC LIMIT $2`,
			sensorID, limit)
	}
	return r.query(ctx,
		`SELECT id, sensor_id, value, timestamp FROM observation
		 WHERE sensor_id = $1 ORDER BY timestamp DESC`,
		sensorID)
}

func (r *PostgresObservationsRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Observation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	var observations []*domain.Observation
	for rows.Next() {
		var o domain.Observation
		if err := rows.Scan(&o.ID, &o.SensorID, &o.Value, &o.Timestamp); err != nil {
			return nil, err
		}
		observations = append(observations, &o)
	}
	return observations, rows.Err()
}

func (r *PostgresObservationsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM observation WHERE id = $1`, id)
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
