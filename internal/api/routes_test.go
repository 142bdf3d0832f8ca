package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/salary-predictor/backend/internal/classifier"
	"github.com/salary-predictor/backend/internal/models"
	"github.com/salary-predictor/backend/internal/parser"
	"github.com/salary-predictor/backend/internal/predictor"
	"github.com/salary-predictor/backend/internal/storage"
	"github.com/salary-predictor/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the shipped model into a full router.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	model, err := classifier.Load(testutil.ModelPath)
	require.NoError(t, err)

	schema := models.EmployeeSchema()
	deps := &Dependencies{
		Model:         model,
		Record:        predictor.NewRecordPredictor(model, models.HighIncomeLabel, nil),
		Batch:         predictor.NewBatchPredictor(model, parser.NewCSVBatchParser(parser.DefaultOptions()), nil),
		Store:         storage.NewMemoryStore(4, time.Minute),
		Schema:        schema,
		PositiveLabel: models.HighIncomeLabel,
		PreviewRows:   5,
		Version:       "test",
	}

	e := echo.New()
	SetupMiddleware(e, MiddlewareOptions{Schema: schema, BodyLimit: "1M", EnableCompression: false})
	RegisterRoutes(e, NewHandlers(deps), true)
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_PredictExampleRecord(t *testing.T) {
	e := newTestServer(t)

	rec := serve(e, newJSONRequest(t, "/api/predict", testutil.SampleRecord()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.PredictionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.LowIncomeLabel, resp.Label)
	assert.Equal(t, models.ResultLevelInfo, resp.Level)
	assert.Equal(t, predictor.MessageLowIncome, resp.Message)
}

func TestRoutes_ValidationErrorIsJSON(t *testing.T) {
	e := newTestServer(t)

	rec := serve(e, newJSONRequest(t, "/api/predict", `{"age": 12}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "age", body.Field)
}

func TestRoutes_BatchUploadAndDownload(t *testing.T) {
	e := newTestServer(t)

	rec := serve(e, newUploadRequest(t, "employees.csv", testutil.SampleCSV(), ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp batchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.RowCount)

	rec = serve(e, httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="salary_predictions.csv"`, rec.Header().Get(echo.HeaderContentDisposition))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, testutil.SampleHeader+","+models.PredictionColumn, lines[0])
	assert.Equal(t, testutil.SampleRows[0]+",<=50K", lines[1])
	assert.Equal(t, testutil.SampleRows[1]+",>50K", lines[2])
	assert.Equal(t, testutil.SampleRows[2]+",<=50K", lines[3])
}

func TestRoutes_BatchMissingColumn(t *testing.T) {
	e := newTestServer(t)

	input := "age,workclass\n30,Private\n"
	rec := serve(e, newUploadRequest(t, "employees.csv", input, ""))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "BATCH_FAILED", body.Code)
	assert.True(t, strings.HasPrefix(body.Message, "Error processing file: missing required columns"), body.Message)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/predict/batch", nil))
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestRoutes_BatchRejectsInvalidUTF8(t *testing.T) {
	e := newTestServer(t)

	input := "note," + testutil.SampleHeader + "\r\n\xff\xfe bad," + testutil.SampleRows[0] + "\r\n"
	rec := serve(e, newUploadRequest(t, "employees.csv", input, ""))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "BATCH_FAILED", body.Code)
	assert.True(t, strings.HasPrefix(body.Message, "Error processing file: file is not valid UTF-8"), body.Message)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/predict/batch", nil))
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestRoutes_UnknownResultIs404(t *testing.T) {
	e := newTestServer(t)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/predict/batch/missing/download", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_HealthSchemaAndMetrics(t *testing.T) {
	e := newTestServer(t)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"decision_tree"`)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/schema", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var schema schemaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	assert.Equal(t, models.HighIncomeLabel, schema.PositiveLabel)
	assert.Equal(t, models.PredictionFileName, schema.FileName)

	// Trigger a prediction so the counters exist.
	serve(e, newJSONRequest(t, "/api/predict", "{}"))
	rec = serve(e, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "salary_predictions_total")
}
