// handlers_schema.go - Form schema handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/salary-predictor/backend/internal/models"
)

// SchemaHandlerImpl implements the SchemaHandler interface
type SchemaHandlerImpl struct {
	response schemaResponse
}

// NewSchemaHandler creates a new schema handler. The response never changes after start-up.
func NewSchemaHandler(schema models.Schema, positiveLabel string, previewRows int) SchemaHandler {
	return &SchemaHandlerImpl{
		response: schemaResponse{
			Fields:           schema,
			Defaults:         models.DefaultEmployeeRecord(),
			PositiveLabel:    positiveLabel,
			PredictionColumn: models.PredictionColumn,
			FileName:         models.PredictionFileName,
			PreviewRows:      previewRows,
		},
	}
}

// HandleGetSchema returns the ordered form fields with their controls and defaults
func (h *SchemaHandlerImpl) HandleGetSchema(c echo.Context) error {
	return c.JSON(http.StatusOK, h.response)
}

type schemaResponse struct {
	Fields           models.Schema         `json:"fields"`
	Defaults         models.EmployeeRecord `json:"defaults"`
	PositiveLabel    string                `json:"positiveLabel"`
	PredictionColumn string                `json:"predictionColumn"`
	FileName         string                `json:"fileName"`
	PreviewRows      int                   `json:"previewRows"`
}
