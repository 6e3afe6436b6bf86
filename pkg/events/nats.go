package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/mpapenbr/iracelog-trackmap-go/log"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/model"
)

const subjectPrefix = "trackmap.processed"

type (
	NatsOption func(*NatsPublisher)

	NatsPublisher struct {
		conn *nats.Conn
		l    *log.Logger
	}
)

func NewNatsPublisher(conn *nats.Conn, opts ...NatsOption) *NatsPublisher {
	ret := &NatsPublisher{
		conn: conn,
		l:    log.Default().Named("events"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func WithLogger(l *log.Logger) NatsOption {
	return func(p *NatsPublisher) {
		p.l = l
	}
}

func (p *NatsPublisher) TrackProcessed(entry *model.DbRacingLine) error {
	payload := TrackProcessedEvent{
		TrackID:     entry.TrackID,
		RunID:       entry.RunID,
		PointCount:  entry.Data.PointCount,
		ProcessedAt: entry.Data.ProcessedAt,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	subj := fmt.Sprintf("%s.%d", subjectPrefix, entry.TrackID)
	p.l.Debug("publishing processed event",
		log.String("subject", subj),
		log.Int("trackId", entry.TrackID))
	return p.conn.Publish(subj, data)
}

func (p *NatsPublisher) Close() {
	p.conn.Close()
}
