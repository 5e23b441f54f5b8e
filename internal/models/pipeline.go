package models

import "time"

// PipelineResult carries the outcome of a full processing run for one batch.
type PipelineResult struct {
	Transactions []NormalizedTransaction `json:"transactions"`
	Errors       []RecordError           `json:"errors,omitempty"`
	Detections   *DetectionSummary       `json:"detections,omitempty"`
	Accepted     int                     `json:"accepted"`
	Rejected     int                     `json:"rejected"`
	Duplicates   int                     `json:"duplicates"`
	Transfers    int                     `json:"transfers"`
	Duration     time.Duration           `json:"-"`
}
