package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/iracelog-trackmap-go/log"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/model"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/processing/align"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/processing/bridge"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/processing/sampler"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/processing/sortpoints"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/processing/topology"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/svg"
)

// ActiveLayer holds the drawable track outline. It is the only layer
// a track cannot be processed without.
const ActiveLayer = "active"

// a racing line below this size is unusable for position mapping
const minLinePoints = 100

var (
	ErrNoUsablePaths = errors.New("no usable paths in active layer")
	ErrTooFewPoints  = errors.New("too few points for a racing line")
)

// LayerFetcher is the part of the asset client the processor needs.
type LayerFetcher interface {
	FetchLayer(
		ctx context.Context, asset *model.TrackAsset, layer string,
	) ([]byte, error)
}

type (
	Option func(*Processor)

	Processor struct {
		fetcher LayerFetcher
		log     *log.Logger
		tracer  trace.Tracer
		now     func() time.Time
	}
)

func NewProcessor(opts ...Option) *Processor {
	ret := &Processor{
		log: log.Default().Named("processing"),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("itm")
	}
	return ret
}

func WithLayerFetcher(fetcher LayerFetcher) Option {
	return func(proc *Processor) {
		proc.fetcher = fetcher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(proc *Processor) {
		proc.tracer = tracer
	}
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(proc *Processor) {
		proc.now = now
	}
}

// ProcessTrack runs the pipeline for one track: fetch and sample the
// active layer, repair the topology against the bridge zones, order
// the points, align them to the start/finish marker. Processing is
// idempotent, re-invocation is the recovery path after a failure.
func (p *Processor) ProcessTrack(
	ctx context.Context, asset *model.TrackAsset,
) (*model.RacingLine, error) {
	traceCtx, mainSpan := p.tracer.Start(ctx, "process track")
	mainSpan.SetAttributes(attribute.Int("trackId", asset.TrackID))
	defer mainSpan.End()

	samples, err := p.sampleActiveLayer(traceCtx, asset)
	if err != nil {
		return nil, err
	}
	zones := p.bridgeZones(traceCtx, asset)

	_, repairSpan := p.tracer.Start(traceCtx, "repair topology")
	repaired, wasSplit := topology.Repair(samples, zones)
	if !wasSplit {
		// a split result is already sequential, re-sorting would
		// destroy the splice
		repaired = sortpoints.Sort(repaired)
	}
	repairSpan.End()
	p.log.Debug("topology repaired",
		log.Int("trackId", asset.TrackID),
		log.Int("points", len(repaired)),
		log.Bool("wasSplit", wasSplit))

	marker := p.startFinishMarker(traceCtx, asset)
	line := align.Apply(repaired, marker)
	if len(line) < minLinePoints {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(line))
	}

	return &model.RacingLine{
		Points:      line,
		PointCount:  len(line),
		StartFinish: marker.Position,
		ProcessedAt: p.now().UTC(),
		Version:     model.RecordVersion,
	}, nil
}

// sampleActiveLayer fetches the required layer and samples all of its
// paths. Individual bad paths are skipped, a layer without any usable
// path aborts the track.
func (p *Processor) sampleActiveLayer(
	ctx context.Context, asset *model.TrackAsset,
) ([]geom.Point, error) {
	ctx, span := p.tracer.Start(ctx, "sample active layer")
	defer span.End()

	body, err := p.fetcher.FetchLayer(ctx, asset, ActiveLayer)
	if err != nil {
		return nil, err
	}
	doc, err := svg.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var samples []geom.Point
	usable := 0
	for _, node := range doc.Paths() {
		path, err := svg.ParsePath(node.PathData())
		if err != nil {
			p.log.Warn("skipping unparsable path",
				log.Int("trackId", asset.TrackID),
				log.String("id", node.ID()),
				log.ErrorField(err))
			continue
		}
		points, err := sampler.Sample(path)
		if err != nil {
			p.log.Warn("skipping degenerate path",
				log.Int("trackId", asset.TrackID),
				log.String("id", node.ID()),
				log.ErrorField(err))
			continue
		}
		samples = append(samples, points...)
		usable++
	}
	if usable == 0 {
		return nil, ErrNoUsablePaths
	}
	span.SetAttributes(
		attribute.Int("paths", usable),
		attribute.Int("samples", len(samples)))
	return samples, nil
}

// bridgeZones fetches the first available decorative layer and
// extracts the detection zones. All layers are optional, failures
// degrade to an empty zone list.
func (p *Processor) bridgeZones(
	ctx context.Context, asset *model.TrackAsset,
) []geom.Rect {
	ctx, span := p.tracer.Start(ctx, "extract bridge zones")
	defer span.End()

	for _, layer := range bridge.LayerPriority {
		body, err := p.fetcher.FetchLayer(ctx, asset, layer)
		if err != nil {
			p.log.Debug("bridge layer not available",
				log.String("layer", layer), log.ErrorField(err))
			continue
		}
		doc, err := svg.Parse(bytes.NewReader(body))
		if err != nil {
			p.log.Warn("ignoring malformed bridge layer",
				log.String("layer", layer), log.ErrorField(err))
			continue
		}
		zones := bridge.ExtractZones(doc)
		p.log.Debug("bridge zones extracted",
			log.String("layer", layer), log.Int("zones", len(zones)))
		span.SetAttributes(attribute.Int("zones", len(zones)))
		return zones
	}
	return nil
}

// startFinishMarker extracts the optional alignment inputs. Missing
// or malformed layers degrade to the documented fallbacks.
func (p *Processor) startFinishMarker(
	ctx context.Context, asset *model.TrackAsset,
) align.Marker {
	ctx, span := p.tracer.Start(ctx, "extract start finish")
	defer span.End()

	body, err := p.fetcher.FetchLayer(ctx, asset, align.LayerName)
	if err != nil {
		p.log.Debug("start-finish layer not available", log.ErrorField(err))
		return align.Marker{}
	}
	doc, err := svg.Parse(bytes.NewReader(body))
	if err != nil {
		p.log.Warn("ignoring malformed start-finish layer", log.ErrorField(err))
		return align.Marker{}
	}
	return align.ExtractMarker(doc)
}
