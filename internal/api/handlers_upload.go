// handlers_upload.go - Batch CSV upload and result download handlers
package api

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/salary-predictor/backend/internal/models"
	"github.com/salary-predictor/backend/internal/parser"
	"github.com/salary-predictor/backend/internal/predictor"
	"github.com/salary-predictor/backend/internal/storage"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const (
	mimeCSV     = "text/csv"
	mimeMsgpack = "application/msgpack"

	recentResultsLimit = 20
)

// BatchHandlerImpl implements the BatchHandler interface
type BatchHandlerImpl struct {
	predictor   BatchPredictor
	store       storage.Store
	previewRows int
	logger      *zap.Logger
}

// NewBatchHandler creates a new batch handler instance
func NewBatchHandler(p BatchPredictor, store storage.Store, previewRows int, logger *zap.Logger) BatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchHandlerImpl{
		predictor:   p,
		store:       store,
		previewRows: previewRows,
		logger:      logger,
	}
}

// HandlePredictBatch accepts a CSV upload (multipart/form-data, field "file"),
// predicts every row and keeps the augmented table for download.
func (h *BatchHandlerImpl) HandlePredictBatch(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}
	if !isCSVName(file.Filename) {
		return NewValidationError("file", "expected a .csv or .csv.gz file")
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	table, err := h.predictor.PredictFile(src)
	if err != nil {
		var perr *predictor.Error
		if errors.As(err, &perr) {
			var uploaded *models.TablePreview
			if table != nil {
				preview := table.Preview(h.previewRows)
				uploaded = &preview
			}
			return NewBatchError(perr, uploaded)
		}
		return NewInternalError("batch prediction failed", err)
	}

	data, err := parser.EncodeCSV(table)
	if err != nil {
		return NewInternalError("failed to render result", err)
	}

	if accepts(c, mimeCSV) {
		return sendCSV(c, data)
	}

	info, err := h.store.Save(file.Filename, table.Len(), data)
	if err != nil {
		return NewInternalError("failed to store result", err)
	}
	h.logger.Info("batch result stored",
		zap.String("id", info.ID),
		zap.String("source", info.SourceName),
		zap.Int("rows", info.RowCount))

	uploaded := models.BatchTable{Header: table.Header, Rows: table.Rows}
	resp := batchResponse{
		ID:              info.ID,
		FileName:        info.FileName,
		SourceName:      info.SourceName,
		RowCount:        table.Len(),
		Columns:         table.Columns(),
		UploadedPreview: uploaded.Preview(h.previewRows),
		ResultPreview:   table.Preview(h.previewRows),
		Summary:         table.LabelCounts(),
		DownloadURL:     downloadURL(info.ID),
		ExpiresAt:       info.ExpiresAt,
	}

	if accepts(c, mimeMsgpack) {
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(resp); err != nil {
			return NewInternalError("failed to encode msgpack", err)
		}
		return c.Blob(http.StatusOK, mimeMsgpack, buf.Bytes())
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleDownloadResult streams a stored result as salary_predictions.csv
func (h *BatchHandlerImpl) HandleDownloadResult(c echo.Context) error {
	id := c.Param("id")
	_, data, err := h.store.Get(id)
	if errors.Is(err, storage.ErrNotFound) {
		return NewNotFoundError("prediction result", id)
	}
	if err != nil {
		return NewInternalError("failed to load result", err)
	}
	return sendCSV(c, data)
}

// HandleRecentResults lists results that can still be downloaded
func (h *BatchHandlerImpl) HandleRecentResults(c echo.Context) error {
	results, err := h.store.List(recentResultsLimit)
	if err != nil {
		return NewInternalError("failed to list results", err)
	}
	if results == nil {
		results = []*models.ResultInfo{}
	}
	return c.JSON(http.StatusOK, results)
}

// HandleDeleteResult drops a stored result before it expires
func (h *BatchHandlerImpl) HandleDeleteResult(c echo.Context) error {
	id := c.Param("id")
	if err := h.store.Delete(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return NewNotFoundError("prediction result", id)
		}
		return NewInternalError("failed to delete result", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func sendCSV(c echo.Context, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", models.PredictionFileName))
	return c.Blob(http.StatusOK, mimeCSV, data)
}

func downloadURL(id string) string {
	return "/api/predict/batch/" + id + "/download"
}

func isCSVName(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".gz") {
		lower = strings.TrimSuffix(lower, ".gz")
	}
	return filepath.Ext(lower) == ".csv"
}

// accepts reports whether the Accept header lists mediaType explicitly.
func accepts(c echo.Context, mediaType string) bool {
	for _, part := range strings.Split(c.Request().Header.Get(echo.HeaderAccept), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == mediaType {
			return true
		}
	}
	return false
}

// Request/Response types

type batchResponse struct {
	ID              string              `json:"id"`
	FileName        string              `json:"fileName"`
	SourceName      string              `json:"sourceName"`
	RowCount        int                 `json:"rowCount"`
	Columns         []string            `json:"columns"`
	UploadedPreview models.TablePreview `json:"uploadedPreview"`
	ResultPreview   models.TablePreview `json:"resultPreview"`
	Summary         map[string]int      `json:"summary"`
	DownloadURL     string              `json:"downloadUrl"`
	ExpiresAt       time.Time           `json:"expiresAt"`
}
