// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"io"

	"github.com/labstack/echo/v4"
	"github.com/salary-predictor/backend/internal/models"
)

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// SchemaHandler describes the input form
type SchemaHandler interface {
	HandleGetSchema(c echo.Context) error
}

// PredictHandler handles single record predictions
type PredictHandler interface {
	HandlePredict(c echo.Context) error
	HandleSummary(c echo.Context) error
}

// BatchHandler handles CSV uploads and result downloads
type BatchHandler interface {
	HandlePredictBatch(c echo.Context) error
	HandleDownloadResult(c echo.Context) error
	HandleRecentResults(c echo.Context) error
	HandleDeleteResult(c echo.Context) error
}

// RecordPredictor scores one employee record.
// This allows mocking in tests
type RecordPredictor interface {
	PredictRecord(rec models.EmployeeRecord) (*models.PredictionResult, error)
}

// BatchPredictor scores an uploaded table.
type BatchPredictor interface {
	PredictFile(r io.Reader) (*models.BatchTable, error)
}
