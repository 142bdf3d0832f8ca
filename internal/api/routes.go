// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/salary-predictor/backend/internal/classifier"
	"github.com/salary-predictor/backend/internal/models"
	"github.com/salary-predictor/backend/internal/storage"
	"go.uber.org/zap"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Model         classifier.Classifier
	Record        RecordPredictor
	Batch         BatchPredictor
	Store         storage.Store
	Schema        models.Schema
	PositiveLabel string
	PreviewRows   int
	Version       string
	Logger        *zap.Logger
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Schema  SchemaHandler
	Predict PredictHandler
	Batch   BatchHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	schema := deps.Schema
	if len(schema) == 0 {
		schema = models.EmployeeSchema()
	}
	var info classifier.Info
	if deps.Model != nil {
		info = deps.Model.Info()
	}
	return &Handlers{
		Health:  NewHealthHandler(deps.Version, info),
		Schema:  NewSchemaHandler(schema, deps.PositiveLabel, deps.PreviewRows),
		Predict: NewPredictHandler(deps.Record, schema),
		Batch:   NewBatchHandler(deps.Batch, deps.Store, deps.PreviewRows, deps.Logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers, enableMetrics bool) {
	// Health check
	e.GET("/health", handlers.Health.HandleHealth)

	apiGroup := e.Group("/api")
	apiGroup.GET("/health", handlers.Health.HandleHealth)
	apiGroup.GET("/schema", handlers.Schema.HandleGetSchema)
	apiGroup.POST("/summary", handlers.Predict.HandleSummary)

	// Prediction routes
	apiGroup.POST("/predict", handlers.Predict.HandlePredict)

	batchGroup := apiGroup.Group("/predict/batch")
	batchGroup.POST("", handlers.Batch.HandlePredictBatch)
	batchGroup.GET("", handlers.Batch.HandleRecentResults)
	batchGroup.GET("/:id/download", handlers.Batch.HandleDownloadResult)
	batchGroup.DELETE("/:id", handlers.Batch.HandleDeleteResult)

	if enableMetrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}
}

// MiddlewareOptions configures SetupMiddleware
type MiddlewareOptions struct {
	Logger             *zap.Logger
	Schema             models.Schema
	RequestLogging     bool
	ExposeErrorDetails bool
	BodyLimit          string
	EnableCORS         bool
	AllowOrigins       []string
	EnableCompression  bool
	CompressionLevel   int
	Timeout            time.Duration
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, opts MiddlewareOptions) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	schema := opts.Schema
	if len(schema) == 0 {
		schema = models.EmployeeSchema()
	}

	// Use custom error handler and validator
	e.HTTPErrorHandler = NewErrorHandler(logger, opts.ExposeErrorDetails)
	e.Validator = NewRequestValidator(schema)

	// Request logging into zap
	if opts.RequestLogging {
		reqLogger := logger.Named("http")
		e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			Skipper: func(c echo.Context) bool {
				path := c.Request().URL.Path
				return path == "/api/health" || path == "/health" || path == "/metrics"
			},
			LogMethod:  true,
			LogURI:     true,
			LogStatus:  true,
			LogLatency: true,
			LogError:   true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				fields := []zap.Field{
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status),
					zap.Duration("latency", v.Latency),
				}
				if v.Error != nil {
					fields = append(fields, zap.Error(v.Error))
					reqLogger.Warn("request", fields...)
					return nil
				}
				reqLogger.Info("request", fields...)
				return nil
			},
		}))
	}

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         1024 * 4,
		DisablePrintStack: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered", zap.Error(err), zap.ByteString("stack", stack))
			return err
		},
	}))

	if opts.Timeout > 0 {
		e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
			Timeout:      opts.Timeout,
			ErrorMessage: "Request timeout - prediction took too long",
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, "/api/predict/batch")
			},
		}))
	}

	// Compression middleware
	if opts.EnableCompression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: opts.CompressionLevel,
		}))
	}

	// Body limit middleware
	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}

	// CORS configuration
	if opts.EnableCORS {
		origins := opts.AllowOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:  origins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
			ExposeHeaders: []string{echo.HeaderContentDisposition},
		}))
	}
}
