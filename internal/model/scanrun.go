package model

import "time"

// ScanRun records one persisted scoring pass: where the data came from,
// how the funnel narrowed it, and when it ran. The ranked opportunities
// hang off the run by ID.
type ScanRun struct {
	ID           string       `json:"id"`
	Dataset      string       `json:"dataset"`
	ModelVersion string       `json:"model_version"`
	Counts       FunnelCounts `json:"counts"`
	CreatedAt    time.Time    `json:"created_at"`
}
