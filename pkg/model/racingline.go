package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
)

// RecordVersion is stored in every racing line record and bumped
// whenever the wire format changes incompatibly.
const RecordVersion = 1

//nolint:tagliatelle // client compatibility
type RacingLine struct {
	Points      []geom.Point `json:"points"`
	PointCount  int          `json:"point_count"`
	StartFinish *geom.Point  `json:"start_finish"`
	ProcessedAt time.Time    `json:"processed_at"`
	Version     int          `json:"version"`
}

//nolint:tagliatelle // client compatibility
type DbRacingLine struct {
	TrackID int        `json:"trackId"`
	RunID   uuid.UUID  `json:"runId"`
	Data    RacingLine `json:"data"`
}
