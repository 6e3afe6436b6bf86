package service

import "github.com/google/uuid"

type ProcessResult struct {
	TrackID    int       `json:"trackId"`
	RunID      uuid.UUID `json:"runId"`
	PointCount int       `json:"pointCount"`
}

type TrackFailure struct {
	TrackID int    `json:"trackId"`
	Reason  string `json:"reason"`
}

// outcome of a batch run, reported track by track
type BatchResult struct {
	Processed []ProcessResult `json:"processed"`
	Failures  []TrackFailure  `json:"failures"`
}
