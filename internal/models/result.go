package models

import "time"

// ResultLevel selects how a prediction message is rendered.
type ResultLevel string

const (
	ResultLevelSuccess ResultLevel = "success"
	ResultLevelInfo    ResultLevel = "info"
)

// PredictionResult is the interpreted model output for a single record.
type PredictionResult struct {
	Label      string      `json:"label"`
	HighIncome bool        `json:"highIncome"`
	Level      ResultLevel `json:"level"`
	Message    string      `json:"message"`
}

// ResultInfo describes an augmented batch table held for download.
type ResultInfo struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	SourceName string    `json:"sourceName"`
	RowCount   int       `json:"rowCount"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}
