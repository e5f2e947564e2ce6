package repository

import (
	"context"
	"database/sql"

	"sensorhub/internal/domain"
)

// PostgresAlarmsRepository implements AlarmsRepository against the alarm
// table.
type PostgresAlarmsRepository struct {
	db *sql.DB
}

func NewPostgresAlarmsRepository(db *sql.DB) *PostgresAlarmsRepository {
	return &PostgresAlarmsRepository{db: db}
}

var _ AlarmsRepository = (*PostgresAlarmsRepository)(nil)

func (r *PostgresAlarmsRepository) Create(ctx context.Context, alarm *domain.Alarm) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alarm (id, sensor_id, alarm_value, timestamp)
		 VALUES ($1, $2, $3, $4)`,
		alarm.ID, alarm.SensorID, alarm.AlarmValue, alarm.Timestamp,
	)
	if err != nil {
		return classifyError(err)
	}
	return nil
}

func (r *PostgresAlarmsRepository) GetByID(ctx context.Context, id string) (*domain.Alarm, error) {
	var a domain.Alarm
	err := r.db.QueryRowContext(ctx,
		`SELECT id, sensor_id, alarm_value, timestamp FROM alarm WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.SensorID, &a.AlarmValue, &a.Timestamp)
	if err != nil {
		return nil, classifyError(err)
	}
	return &a, nil
}

func (r *PostgresAlarmsRepository) List(ctx context.Context) ([]*domain.Alarm, error) {
	return r.query(ctx,
		`SELECT id, sensor_id, alarm_value, timestamp FROM alarm ORDER BY timestamp DESC`)
}

func (r *PostgresAlarmsRepository) ListBySensor(ctx context.Context, sensorID string, limit int) ([]*domain.Alarm, error) {
	if limit > 0 {
		return r.query(ctx,
			`SELECT id, sensor_id, alarm_value, timestamp FROM alarm
			 WHERE sensor_id = $1 ORDER BY timestamp DESC LIMIT $2`,
			sensorID, limit)
	}
	return r.query(ctx,
		`SELECT id, sensor_id, alarm_value, timestamp FROM alarm
		 WHERE sensor_id = $1 ORDER BY timestamp DESC`,
		sensorID)
}

func (r *PostgresAlarmsRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Alarm, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	var alarms []*domain.Alarm
	for rows.Next() {
		var a domain.Alarm
		if err := rows.Scan(&a.ID, &a.SensorID, &a.AlarmValue, &a.Timestamp); err != nil {
			return nil, err
		}
		alarms = append(alarms, &a)
	}
	return alarms, rows.Err()
}

func (r *PostgresAlarmsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM alarm WHERE id = $1`, id)
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
