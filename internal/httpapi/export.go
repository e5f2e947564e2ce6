package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"sensorhub/internal/service"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// sensorExportHeader is the column layout of the inventory export.
var sensorExportHeader = []string{
	"Sensor ID",
	"Name",
	"Type",
	"Unit",
	"Threshold",
	"Owner",
	"Location",
}

// SensorExporter produces an xlsx of the sensor inventory. Owner and
// location columns are resolved through the batch derived-string path, so
// an export of N sensors costs at most two durable-store queries beyond
// the sensor listing.
type SensorExporter struct {
	sensors   *service.SensorService
	owners    *service.OwnerService
	locations *service.LocationService
	logger    *zap.Logger
}

func NewSensorExporter(
	sensors *service.SensorService,
	owners *service.OwnerService,
	locations *service.LocationService,
	logger *zap.Logger,
) *SensorExporter {
	return &SensorExporter{sensors: sensors, owners: owners, locations: locations, logger: logger}
}

func (e *SensorExporter) ServeExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sensors, err := e.sensors.List(ctx)
	if err != nil {
		writeError(w, e.logger, err, "sensor not found")
		return
	}

	ownerIDs := make([]string, 0, len(sensors))
	locationIDs := make([]string, 0, len(sensors))
	for _, s := range sensors {
		ownerIDs = append(ownerIDs, s.OwnerID)
		locationIDs = append(locationIDs, s.LocationID)
	}

	ownerNames, err := e.owners.FullnamesBatch(ctx, ownerIDs)
	if err != nil {
		writeError(w, e.logger, err, "sensor not found")
		return
	}
	locationStrings, err := e.locations.DisplayStringsBatch(ctx, locationIDs)
	if err != nil {
		writeError(w, e.logger, err, "sensor not found")
		return
	}

	f := excelize.NewFile()

	sheetName := "Sensors"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		writeError(w, e.logger, fmt.Errorf("failed to create sheet: %w", err), "")
		return
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	for col, header := range sensorExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		if headerStyle != 0 {
			_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}
	}

	for i, s := range sensors {
		row := i + 2
		values := []any{
			s.ID,
			s.Name,
			s.SensorType,
			s.Unit,
			s.Threshold,
			ownerNames[s.OwnerID],
			locationStrings[s.LocationID],
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		writeError(w, e.logger, fmt.Errorf("failed to write workbook: %w", err), "")
		return
	}
	f.Close()

	filename := fmt.Sprintf("sensors_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
