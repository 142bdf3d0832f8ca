// handlers_predict.go - Single record prediction handlers
package api

import (
	"errors"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/salary-predictor/backend/internal/models"
	"github.com/salary-predictor/backend/internal/predictor"
)

// PredictHandlerImpl implements the PredictHandler interface
type PredictHandlerImpl struct {
	predictor RecordPredictor
	schema    models.Schema
}

// NewPredictHandler creates a new predict handler instance
func NewPredictHandler(p RecordPredictor, schema models.Schema) PredictHandler {
	return &PredictHandlerImpl{
		predictor: p,
		schema:    schema,
	}
}

// HandlePredict scores the submitted record. Omitted fields take the form defaults.
func (h *PredictHandlerImpl) HandlePredict(c echo.Context) error {
	rec, err := h.bindRecord(c)
	if err != nil {
		return err
	}

	result, err := h.predictor.PredictRecord(rec)
	if err != nil {
		var perr *predictor.Error
		if errors.As(err, &perr) {
			return NewPredictionError(perr)
		}
		return NewInternalError("prediction failed", err)
	}

	return c.JSON(http.StatusOK, predictResponse{
		PredictionResult: result,
		Input:            rec.Summary(h.schema),
	})
}

// HandleSummary returns the input summary table without calling the model
func (h *PredictHandlerImpl) HandleSummary(c echo.Context) error {
	rec, err := h.bindRecord(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec.Summary(h.schema))
}

func (h *PredictHandlerImpl) bindRecord(c echo.Context) (models.EmployeeRecord, error) {
	req := predictRequest{
		EmployeeRecord:    models.DefaultEmployeeRecord(),
		YearsOfExperience: unsetExperience,
	}
	if err := c.Bind(&req); err != nil {
		return models.EmployeeRecord{}, NewBadRequestError("invalid request body", err)
	}
	if req.YearsOfExperience != unsetExperience {
		req.Experience = req.YearsOfExperience
	}
	if err := c.Validate(&req); err != nil {
		return models.EmployeeRecord{}, err
	}
	return req.EmployeeRecord, nil
}

// Request/Response types

const unsetExperience = math.MinInt32

type predictRequest struct {
	models.EmployeeRecord
	// YearsOfExperience accepts the form label's spelling of the experience column.
	YearsOfExperience int `json:"years-of-experience" form:"years-of-experience"`
}

type predictResponse struct {
	*models.PredictionResult
	Input models.TablePreview `json:"input"`
}
