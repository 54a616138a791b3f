// Package domain holds DTOs for the harvest http surface
package domain

import "encoding/json"

// RunInput describes a harvest run request
type RunInput struct {
	Endpoint  string   `json:"endpoint" validate:"required,min=1" example:"getSubmissionInfoFull"`
	Sites     []string `json:"sites,omitempty" validate:"omitempty,dive,site_name" example:"jfm"`
	IDs       string   `json:"ids,omitempty" validate:"omitempty,max=100000" example:"12345 67890"`
	StartDate string   `json:"start_date,omitempty" validate:"omitempty,iso_date" example:"2026-03-01"`
	EndDate   string   `json:"end_date,omitempty" validate:"omitempty,iso_date" example:"2026-03-15"`
	Policy    string   `json:"policy,omitempty" validate:"omitempty,oneof=overwrite disambiguate" example:"disambiguate"`
}

// ExportInput is a run request that also selects an output encoding
type ExportInput struct {
	RunInput
	Format string `json:"format,omitempty" validate:"omitempty,oneof=xlsx csv" example:"xlsx"`
}

// PreviewInput carries a raw payload to flatten without fetching
type PreviewInput struct {
	Payload json.RawMessage `json:"payload" validate:"required" swaggertype:"object"`
	Site    string          `json:"site,omitempty" validate:"omitempty,site_name" example:"jfm"`
	Policy  string          `json:"policy,omitempty" validate:"omitempty,oneof=overwrite disambiguate" example:"overwrite"`
}

// RunResponse summarizes a finished run
type RunResponse struct {
	ID         string   `json:"id"`
	Endpoint   string   `json:"endpoint"`
	Sites      []string `json:"sites"`
	Policy     string   `json:"policy"`
	Status     string   `json:"status"`
	RowCount   int      `json:"row_count"`
	FetchCount int      `json:"fetch_count"`
	ErrorCount int      `json:"error_count"`
	StartedAt  string   `json:"started_at"`
	FinishedAt string   `json:"finished_at,omitempty"`
	Error      string   `json:"error,omitempty"`
	Columns    []string `json:"columns,omitempty"`

	Fetches []FetchResponse `json:"fetches,omitempty"`
}

// FetchResponse is one upstream request outcome within a run
type FetchResponse struct {
	Site    string `json:"site"`
	IDCount int    `json:"id_count"`
	Rows    int    `json:"rows"`
	TookMs  int64  `json:"took_ms"`
	Error   string `json:"error,omitempty"`
}

// TableResponse is a flattened table payload
type TableResponse struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// ListRunsInput filters the run history listing
type ListRunsInput struct {
	Endpoint string `json:"endpoint,omitempty" validate:"omitempty,min=1" example:"getSubmissionInfoFull"`
	Limit    int    `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"50"`
	Offset   int    `json:"offset,omitempty" validate:"omitempty,min=0" example:"0"`
}
