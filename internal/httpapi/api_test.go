package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sensorhub/internal/cache"
	"sensorhub/internal/repository"
	"sensorhub/internal/service"
	"sensorhub/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestServer wires the full API against memory repositories and a
// miniredis-backed cache, mirroring cmd/sensorhub wiring.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zap.NewNop()

	mr := miniredis.RunT(t)
	kv := store.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	owners := repository.NewMemoryOwnersRepository()
	locations := repository.NewMemoryLocationsRepository()
	sensors := repository.NewMemorySensorsRepository(owners, locations)
	observations := repository.NewMemoryObservationsRepository(sensors)
	alarms := repository.NewMemoryAlarmsRepository(sensors)

	derived := cache.NewDerivedStrings(kv, owners, locations, log)
	stats := cache.NewSensorStats(kv, log)

	ownerSvc := service.NewOwnerService(owners, derived, log)
	locationSvc := service.NewLocationService(locations, derived, log)
	sensorSvc := service.NewSensorService(sensors, stats, derived, log)
	observationSvc := service.NewObservationService(observations, sensors, alarms, stats, nil, log)
	alarmSvc := service.NewAlarmService(alarms, log)

	router := NewRouter(log)
	NewOwnerHandler(ownerSvc, sensorSvc, log).Register(router)
	NewLocationHandler(locationSvc, log).Register(router)
	exporter := NewSensorExporter(sensorSvc, ownerSvc, locationSvc, log)
	NewSensorHandler(sensorSvc, observationSvc, alarmSvc, exporter, log).Register(router)
	NewObservationHandler(observationSvc, log).Register(router)
	NewAlarmHandler(alarmSvc, log).Register(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent && resp.ContentLength != 0 {
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp, decoded
}

func createOwner(t *testing.T, base, email string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/api/v1/owners", map[string]any{
		"first_name": "Ada", "last_name": "Lovelace", "email_address": email, "dob": "1815-12-10",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["id"].(string)
}

func createLocation(t *testing.T, base string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/api/v1/locations", map[string]any{
		"city": "Helsinki", "country": "Finland", "latitude": 60.17, "longitude": 24.94,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["id"].(string)
}

func createSensor(t *testing.T, base, ownerID, locationID string, threshold float64) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/api/v1/sensors", map[string]any{
		"name": "boiler", "sensor_type": "temperature", "unit": "C",
		"threshold": threshold, "owner_id": ownerID, "location_id": locationID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["id"].(string)
}

func TestOwnerLifecycleStatusCodes(t *testing.T) {
	srv := newTestServer(t)

	id := createOwner(t, srv.URL, "ada@example.com")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/owners/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ada", body["first_name"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/owners/owner_missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Same email again conflicts.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/owners", map[string]any{
		"first_name": "Imposter", "last_name": "L", "email_address": "ada@example.com", "dob": "1990-01-01",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/owners/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/owners/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSensorCreateWithUnknownOwnerIsBadRequest(t *testing.T) {
	srv := newTestServer(t)
	locationID := createLocation(t, srv.URL)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sensors", map[string]any{
		"name": "boiler", "sensor_type": "temperature", "unit": "C",
		"owner_id": "owner_nope", "location_id": locationID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestObservationIngestionAndAlarmListing(t *testing.T) {
	srv := newTestServer(t)
	ownerID := createOwner(t, srv.URL, "ada@example.com")
	locationID := createLocation(t, srv.URL)
	sensorID := createSensor(t, srv.URL, ownerID, locationID, 90)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/observations", map[string]any{
		"sensor_id": sensorID, "value": 95.5,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/observations", map[string]any{
		"value": 1.0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/sensors/"+sensorID+"/alarms", nil)
	require.NoError(t, err)
	alarmsResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer alarmsResp.Body.Close()
	require.Equal(t, http.StatusOK, alarmsResp.StatusCode)

	var alarms []map[string]any
	require.NoError(t, json.NewDecoder(alarmsResp.Body).Decode(&alarms))
	require.Len(t, alarms, 1)
	assert.Equal(t, 95.5, alarms[0]["alarm_value"])
}

func TestSensorDetailsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	ownerID := createOwner(t, srv.URL, "ada@example.com")
	locationID := createLocation(t, srv.URL)
	sensorID := createSensor(t, srv.URL, ownerID, locationID, 1000)

	_, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/observations", map[string]any{
		"sensor_id": sensorID, "value": 42.0,
	})

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/sensors/"+sensorID+"/details", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ada Lovelace", body["owner_name"])
	assert.Equal(t, "Helsinki, Finland", body["location"])
	assert.Equal(t, 42.0, body["latest_value"])
}

func TestBatchFullnamesEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createOwner(t, srv.URL, "ada@example.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/owners/fullnames", map[string]any{
		"ids": []string{id, "owner_missing"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ada Lovelace", body[id])
	_, present := body["owner_missing"]
	assert.False(t, present)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/v1/owners", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
