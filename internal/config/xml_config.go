// Package config provides XML-based configuration management for the salary predictor.
package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// FileName is the default config file, looked up next to the executable.
const FileName = "SalaryPredictor.config"

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"SalaryPredictor"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Model artifact
	Model ModelConfig `xml:"Model"`

	// Batch upload handling
	Batch BatchConfig `xml:"Batch"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// ModelConfig locates the pre-trained classifier
type ModelConfig struct {
	ArtifactPath  string `xml:"ArtifactPath"`
	PositiveLabel string `xml:"PositiveLabel"`
}

// BatchConfig contains CSV upload settings
type BatchConfig struct {
	MaxRows            int  `xml:"MaxRows"`
	PreviewRows        int  `xml:"PreviewRows"`
	RejectExtraColumns bool `xml:"RejectExtraColumns"`
	ResultTTLMinutes   int  `xml:"ResultTTLMinutes"`
	MaxStoredResults   int  `xml:"MaxStoredResults"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel"`
	LogFormat            string `xml:"LogFormat"`
	LogFile              string `xml:"LogFile"`
	LogMaxSizeMB         int    `xml:"LogMaxSizeMB"`
	LogMaxBackups        int    `xml:"LogMaxBackups"`
	LogMaxAgeDays        int    `xml:"LogMaxAgeDays"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging"`
	EnableMetrics        bool   `xml:"EnableMetrics"`
	EnableCompression    bool   `xml:"EnableCompression"`
	CompressionLevel     int    `xml:"CompressionLevel"`
	ExposeErrorDetails   bool   `xml:"ExposeErrorDetails"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		XMLName: xml.Name{Local: "SalaryPredictor"},
		Server: ServerConfig{
			Port:         8501,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 60,
			IdleTimeout:  120,
			BodyLimit:    "32M",
		},
		Model: ModelConfig{
			ArtifactPath:  "./data/models/salary_model.json",
			PositiveLabel: ">50K",
		},
		Batch: BatchConfig{
			MaxRows:            100000,
			PreviewRows:        5,
			RejectExtraColumns: false,
			ResultTTLMinutes:   15,
			MaxStoredResults:   32,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			LogFormat:            "console",
			LogFile:              "",
			LogMaxSizeMB:         50,
			LogMaxBackups:        3,
			LogMaxAgeDays:        28,
			EnableRequestLogging: true,
			EnableMetrics:        true,
			EnableCompression:    true,
			CompressionLevel:     5,
			ExposeErrorDetails:   false,
		},
	}
}

// LoadConfig loads configuration from XML file. A missing file is created with defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Unmarshal over the defaults so omitted elements keep their default value.
		if err := xml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Apply environment variable overrides
	config.applyEnvironmentOverrides()

	// Resolve relative paths
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return config, nil
}

// LoadDotEnv loads the first .env file found in the working directory or beside the
// config file. Variables already set in the environment win.
func LoadDotEnv(configPath string) (string, error) {
	candidates := []string{".env"}
	if configPath != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(configPath), ".env"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("failed to load %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- Employee Salary Predictor Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	// PORT override
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if path := os.Getenv("MODEL_PATH"); path != "" {
		c.Model.ArtifactPath = path
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.Advanced.LogFormat = format
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		c.Advanced.LogFile = file
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Model.ArtifactPath != "" && !filepath.IsAbs(c.Model.ArtifactPath) {
		c.Model.ArtifactPath = filepath.Join(configDir, c.Model.ArtifactPath)
	}
	if c.Advanced.LogFile != "" && !filepath.IsAbs(c.Advanced.LogFile) {
		c.Advanced.LogFile = filepath.Join(configDir, c.Advanced.LogFile)
	}
}

// Validate checks values that would otherwise fail later at runtime.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("Server/Port %d out of range", c.Server.Port))
	}
	if strings.TrimSpace(c.Model.ArtifactPath) == "" {
		errs = append(errs, errors.New("Model/ArtifactPath is required"))
	}
	if strings.TrimSpace(c.Model.PositiveLabel) == "" {
		errs = append(errs, errors.New("Model/PositiveLabel is required"))
	}
	if c.Batch.MaxRows < 0 {
		errs = append(errs, errors.New("Batch/MaxRows must not be negative"))
	}
	if c.Batch.PreviewRows < 0 {
		errs = append(errs, errors.New("Batch/PreviewRows must not be negative"))
	}
	if c.Batch.ResultTTLMinutes <= 0 {
		errs = append(errs, errors.New("Batch/ResultTTLMinutes must be positive"))
	}
	if c.Batch.MaxStoredResults <= 0 {
		errs = append(errs, errors.New("Batch/MaxStoredResults must be positive"))
	}
	switch strings.ToLower(c.Advanced.LogFormat) {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("Advanced/LogFormat %q must be console or json", c.Advanced.LogFormat))
	}
	return errors.Join(errs...)
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// ResultTTL returns how long batch results stay downloadable.
func (c *AppConfig) ResultTTL() time.Duration {
	return time.Duration(c.Batch.ResultTTLMinutes) * time.Minute
}

// ReadTimeout returns the server read timeout.
func (c *AppConfig) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeout) * time.Second
}

// WriteTimeout returns the server write timeout.
func (c *AppConfig) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeout) * time.Second
}

// IdleTimeout returns the server idle timeout.
func (c *AppConfig) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeout) * time.Second
}

// Origins splits AllowOrigins into a list.
func (c *AppConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.Server.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		out = []string{"*"}
	}
	return out
}
