package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sensorhub/internal/domain"
)

// PostgresSensorsRepository implements SensorsRepository against the sensor
// table.
type PostgresSensorsRepository struct {
	db *sql.DB
}

func NewPostgresSensorsRepository(db *sql.DB) *PostgresSensorsRepository {
	return &PostgresSensorsRepository{db: db}
}

var _ SensorsRepository = (*PostgresSensorsRepository)(nil)

const sensorColumns = `id, name, sensor_type, unit, threshold, owner_id, location_id`

func scanSensor(row interface{ Scan(...interface{}) error }) (*domain.Sensor, error) {
	var s domain.Sensor
	err := row.Scan(&s.ID, &s.Name, &s.SensorType, &s.Unit, &s.Threshold, &s.OwnerID, &s.LocationID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresSensorsRepository) Create(ctx context.Context, sensor *domain.Sensor) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sensor (id, name, sensor_type, unit, threshold, owner_id, location_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sensor.ID, sensor.Name, sensor.SensorType, sensor.Unit,
		sensor.Threshold, sensor.OwnerID, sensor.LocationID,
	)
	if err != nil {
		return classifyError(err)
	}
	return nil
}

func (r *PostgresSensorsRepository) GetByID(ctx context.Context, id string) (*domain.Sensor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sensorColumns+` FROM sensor WHERE id = $1`, id)
	s, err := scanSensor(row)
	if err != nil {
		return nil, classifyError(err)
	}
	return s, nil
}

func (r *PostgresSensorsRepository) List(ctx context.Context) ([]*domain.Sensor, error) {
	return r.query(ctx, `SELECT `+sensorColumns+` FROM sensor ORDER BY id`)
}

func (r *PostgresSensorsRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Sensor, error) {
	return r.query(ctx,
		`SELECT `+sensorColumns+` FROM sensor WHERE owner_id = $1 ORDER BY name`, ownerID)
}

func (r *PostgresSensorsRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Sensor, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	var sensors []*domain.Sensor
	for rows.Next() {
		s, err := scanSensor(rows)
		if err != nil {
			return nil, err
		}
		sensors = append(sensors, s)
	}
	return sensors, rows.Err()
}

func (r *PostgresSensorsRepository) Update(ctx context.Context, id string, update SensorUpdate) (*domain.Sensor, error) {
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
	if update.Name != nil {
		addSet("name", *update.Name)
	}
	if update.SensorType != nil {
		addSet("sensor_type", *update.SensorType)
	}
	if update.Unit != nil {
		addSet("unit", *update.Unit)
	}
	if update.Threshold != nil {
		addSet("threshold", *update.Threshold)
	}
	if update.OwnerID != nil {
		addSet("owner_id", *update.OwnerID)
	}
	if update.LocationID != nil {
		addSet("location_id", *update.LocationID)
	}

	values = append(values, id)
	query := fmt.Sprintf(
		`UPDATE sensor SET %s WHERE id = $%d RETURNING `+sensorColumns,
		strings.Join(sets, ", "), param,
	)

	s, err := scanSensor(r.db.QueryRowContext(ctx, query, values...))
	if err != nil {
		return nil, classifyError(err)
	}
	return s, nil
}

func (r *PostgresSensorsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sensor WHERE id = $1`, id)
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
