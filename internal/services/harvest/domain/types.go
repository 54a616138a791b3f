// Package domain defines the harvest types and ports
package domain

import (
	"time"

	"github.com/google/uuid"

	"rowboat/internal/core/rowset"
)

// RunStatus is the lifecycle state of a harvest run
type RunStatus string

// Run statuses
const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunPartial   RunStatus = "partial"
	RunFailed    RunStatus = "failed"
)

// Run records one harvest execution
type Run struct {
	ID         uuid.UUID  `json:"id"`
	Endpoint   string     `json:"endpoint"`
	Sites      []string   `json:"sites"`
	Policy     string     `json:"policy"`
	Status     RunStatus  `json:"status"`
	RowCount   int        `json:"row_count"`
	FetchCount int        `json:"fetch_count"`
	ErrorCount int        `json:"error_count"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Fetch records the outcome of one upstream request within a run
type Fetch struct {
	RunID   uuid.UUID `json:"run_id"`
	Site    string    `json:"site"`
	IDCount int       `json:"id_count"`
	Rows    int       `json:"rows"`
	TookMs  int64     `json:"took_ms"`
	Error   string    `json:"error,omitempty"`
}

// RunSpec describes what a harvest run should fetch
type RunSpec struct {
	Endpoint string
	Sites    []string
	RawIDs   string
	From     time.Time
	To       time.Time
	Policy   string
}

// RunReport is the outcome of a run plus the assembled rows
type RunReport struct {
	Run   Run
	Table rowset.Table
}

// ListInput filters run history queries
type ListInput struct {
	Endpoint string
	Limit    int
	Offset   int
}
