//nolint:whitespace //can't make both the linter and editor happy :(
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/iracelog-trackmap-go/log"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/events"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/model"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/processing"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/repository/racingline"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/repository/track"
)

var meter = otel.Meter("racingline-service")

type (
	Option func(*RacingLineService)

	RacingLineService struct {
		pool      *pgxpool.Pool
		proc      *processing.Processor
		publisher events.Publisher
		l         *log.Logger
		dryRun    bool
		recorder  metric.Float64Histogram
	}
)

func InitRacingLineService(
	pool *pgxpool.Pool,
	proc *processing.Processor,
	opts ...Option,
) *RacingLineService {
	recorder, _ := meter.Float64Histogram("track_processing",
		metric.WithDescription("processing of a single track"),
		metric.WithUnit("s"))
	ret := &RacingLineService{
		pool:      pool,
		proc:      proc,
		publisher: events.NewNoopPublisher(),
		l:         log.Default().Named("service"),
		recorder:  recorder,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func WithPublisher(pub events.Publisher) Option {
	return func(s *RacingLineService) {
		s.publisher = pub
	}
}

// WithDryRun disables persistence and notifications.
func WithDryRun(arg bool) Option {
	return func(s *RacingLineService) {
		s.dryRun = arg
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *RacingLineService) {
		s.l = l
	}
}

// ProcessTrack runs the pipeline for a single track and stores the
// result, replacing any previous run for that track.
func (s *RacingLineService) ProcessTrack(
	ctx context.Context,
	asset *model.TrackAsset,
) (*model.DbRacingLine, error) {
	start := time.Now()
	line, err := s.proc.ProcessTrack(ctx, asset)
	if err != nil {
		return nil, err
	}
	entry := &model.DbRacingLine{
		TrackID: asset.TrackID,
		RunID:   uuid.New(),
		Data:    *line,
	}
	if s.dryRun {
		s.l.Info("dry run, discarding result",
			log.Int("trackId", entry.TrackID),
			log.Int("points", entry.Data.PointCount))
		return entry, nil
	}
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		refEntry := &model.DbTrack{
			ID:   asset.TrackID,
			Data: model.TrackInfo{ID: asset.TrackID},
		}
		if refErr := track.EnsureTrack(ctx, tx, refEntry); refErr != nil {
			return refErr
		}
		return racingline.Save(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, time.Since(start).Seconds())
	if pubErr := s.publisher.TrackProcessed(entry); pubErr != nil {
		s.l.Warn("could not publish processed event",
			log.Int("trackId", entry.TrackID),
			log.ErrorField(pubErr))
	}
	s.l.Info("racing line stored",
		log.Int("trackId", entry.TrackID),
		log.Int("points", entry.Data.PointCount),
		log.String("runId", entry.RunID.String()))
	return entry, nil
}

// ProcessBatch processes the given tracks sequentially with a pause
// between them to go easy on the asset host. A failed track is
// recorded and does not abort the batch.
func (s *RacingLineService) ProcessBatch(
	ctx context.Context,
	assets []*model.TrackAsset,
	pause time.Duration,
) (*BatchResult, error) {
	ret := &BatchResult{}
	for i, asset := range assets {
		if i > 0 && pause > 0 {
			select {
			case <-ctx.Done():
				return ret, ctx.Err()
			case <-time.After(pause):
			}
		}
		entry, err := s.ProcessTrack(ctx, asset)
		if err != nil {
			s.l.Error("track processing failed",
				log.Int("trackId", asset.TrackID),
				log.ErrorField(err))
			ret.Failures = append(ret.Failures, TrackFailure{
				TrackID: asset.TrackID,
				Reason:  err.Error(),
			})
			continue
		}
		ret.Processed = append(ret.Processed, ProcessResult{
			TrackID:    entry.TrackID,
			RunID:      entry.RunID,
			PointCount: entry.Data.PointCount,
		})
	}
	return ret, nil
}
