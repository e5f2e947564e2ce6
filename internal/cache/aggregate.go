package cache

import (
	"context"
	"errors"
	"strconv"

	"sensorhub/internal/domain"
	"sensorhub/internal/store"

	"go.uber.org/zap"
)

// SensorStats maintains the cache-only per-sensor aggregate: the latest
// observed value inside the descriptor hash and the running max/min in
// their own keys. The durable store never holds these; losing the cache
// loses aggregate history, which is accepted.
type SensorStats struct {
	kv     store.KV
	logger *zap.Logger
}

func NewSensorStats(kv store.KV, logger *zap.Logger) *SensorStats {
	return &SensorStats{kv: kv, logger: logger}
}

// Aggregate is the cache-resident slice of a sensor's detail view. Nil
// fields mean the value was never recorded (or the cache was lost).
type Aggregate struct {
	Latest *float64
	Max    *float64
	Min    *float64
}

// SeedDescriptor writes the sensor descriptor hash after a sensor insert
// or a descriptor-changing update. latest_value is deliberately left
// alone so reseeding never erases recorded aggregates.
func (s *SensorStats) SeedDescriptor(ctx context.Context, sensor *domain.Sensor) error {
	return s.kv.HSet(ctx, descriptorKey(sensor.ID), map[string]string{
		fieldName:       sensor.Name,
		fieldSensorType: sensor.SensorType,
		fieldUnit:       sensor.Unit,
	})
}

// Record folds a new observation value into the aggregate: latest is
// overwritten unconditionally, max and min only when the value extends
// them or no prior extremum exists. The three updates are independent.
func (s *SensorStats) Record(ctx context.Context, sensorID string, value float64) error {
	formatted := strconv.FormatFloat(value, 'f', -1, 64)

	if err := s.kv.HSet(ctx, descriptorKey(sensorID), map[string]string{
		fieldLatestValue: formatted,
	}); err != nil {
		return err
	}

	max, err := s.getFloat(ctx, maxValueKey(sensorID))
	if err != nil {
		return err
	}
	if max == nil || value > *max {
		if err := s.kv.Set(ctx, maxValueKey(sensorID), formatted); err != nil {
			return err
		}
	}

	min, err := s.getFloat(ctx, minValueKey(sensorID))
	if err != nil {
		return err
	}
	if min == nil || value < *min {
		if err := s.kv.Set(ctx, minValueKey(sensorID), formatted); err != nil {
			return err
		}
	}

	return nil
}

// Get assembles the aggregate for a sensor. Absent fields come back nil,
// never as an error; an empty cache is indistinguishable from a sensor
// that has not observed anything yet.
func (s *SensorStats) Get(ctx context.Context, sensorID string) (*Aggregate, error) {
	agg := &Aggregate{}

	descriptor, err := s.kv.HGetAll(ctx, descriptorKey(sensorID))
	if err != nil {
		return nil, err
	}
	if raw, ok := descriptor[fieldLatestValue]; ok {
		agg.Latest = parseFloat(raw, s.logger)
	}

	if agg.Max, err = s.getFloat(ctx, maxValueKey(sensorID)); err != nil {
		return nil, err
	}
	if agg.Min, err = s.getFloat(ctx, minValueKey(sensorID)); err != nil {
		return nil, err
	}

	return agg, nil
}

// Drop removes every cache entry keyed to the sensor id: the descriptor
// hash and both extremum keys. Called after the sensor row is deleted.
func (s *SensorStats) Drop(ctx context.Context, sensorID string) error {
	return s.kv.Del(ctx, descriptorKey(sensorID), maxValueKey(sensorID), minValueKey(sensorID))
}

func (s *SensorStats) getFloat(ctx context.Context, key string) (*float64, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil, nil
		}
		return nil, err
	}
	return parseFloat(raw, s.logger), nil
}

func parseFloat(raw string, logger *zap.Logger) *float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// A malformed cache entry is treated like a miss.
		logger.Warn("unparseable cached value", zap.String("raw", raw), zap.Error(err))
		return nil
	}
	return &f
}
