// Package events notifies downstream consumers about processed tracks
// so viewers can drop their cached track maps.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/model"
)

type TrackProcessedEvent struct {
	TrackID     int       `json:"trackId"`
	RunID       uuid.UUID `json:"runId"`
	PointCount  int       `json:"pointCount"`
	ProcessedAt time.Time `json:"processedAt"`
}

type Publisher interface {
	TrackProcessed(entry *model.DbRacingLine) error
	Close()
}

// NewNoopPublisher is used when no message broker is configured.
func NewNoopPublisher() Publisher { return &noopPublisher{} }

type noopPublisher struct{}

func (p *noopPublisher) TrackProcessed(entry *model.DbRacingLine) error { return nil }
func (p *noopPublisher) Close()                                         {}
