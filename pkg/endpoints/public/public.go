package public

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-trackmap-go/log"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/endpoints/util"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/model"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/repository/racingline"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/repository/track"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/utils"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/utils/cache"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/utils/cache/loadercache"
	"github.com/mpapenbr/iracelog-trackmap-go/version"
)

type (
	Option func(*PublicManager)

	PublicManager struct {
		pool      *pgxpool.Pool
		endpoints []endpointHandler
		lines     cache.Cache[int, model.DbRacingLine]
		tracks    cache.Cache[int, []TrackSummary]
		cacheTTL  time.Duration
		l         *log.Logger
	}

	endpointHandler struct {
		pattern string
		handler http.HandlerFunc
	}
)

type TrackSummary struct {
	model.TrackInfo
	HasRacingLine bool `json:"hasRacingLine"`
}

type VersionInfo struct {
	ServerVersion          string `json:"serverVersion"`
	SupportedClientVersion string `json:"supportedClientVersion"`
	ProvidedClientVersion  string `json:"providedClientVersion,omitempty"`
	ClientCompatible       *bool  `json:"clientCompatible,omitempty"`
}

// the track list is a single cached value stored under this key
const trackListKey = 0

func WithCacheTTL(ttl time.Duration) Option {
	return func(pm *PublicManager) {
		pm.cacheTTL = ttl
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(pm *PublicManager) {
		pm.l = arg
	}
}

func InitPublicEndpoints(pool *pgxpool.Pool, opts ...Option) *PublicManager {
	ret := &PublicManager{
		pool:     pool,
		cacheTTL: 5 * time.Minute,
		l:        log.Default().Named("public"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.lines = loadercache.New(
		loadercache.WithLoader(ret.loadRacingLine),
		loadercache.WithExpiration[int, model.DbRacingLine](ret.cacheTTL))
	ret.tracks = loadercache.New(
		loadercache.WithLoader(ret.loadTrackList),
		loadercache.WithExpiration[int, []TrackSummary](ret.cacheTTL))
	ret.endpoints = []endpointHandler{
		{pattern: "GET /api/v1/tracks", handler: ret.handleTrackList},
		{pattern: "GET /api/v1/tracks/{id}/racingline", handler: ret.handleRacingLine},
		{pattern: "GET /api/v1/version", handler: ret.handleVersion},
	}
	return ret
}

func (pub *PublicManager) RegisterRoutes(mux *http.ServeMux) {
	for _, endpoint := range pub.endpoints {
		pub.l.Debug("registering endpoint", log.String("pattern", endpoint.pattern))
		mux.HandleFunc(endpoint.pattern, endpoint.handler)
	}
}

// InvalidateTrack drops cached read data for a track after reprocessing.
func (pub *PublicManager) InvalidateTrack(ctx context.Context, trackId int) {
	pub.lines.Invalidate(ctx, trackId)
	pub.tracks.Invalidate(ctx, trackListKey)
}

func (pub *PublicManager) handleTrackList(w http.ResponseWriter, r *http.Request) {
	data, err := pub.tracks.Get(r.Context(), trackListKey)
	if err != nil {
		pub.l.Error("could not load track list", log.ErrorField(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pub.writeJSON(w, data)
}

func (pub *PublicManager) handleRacingLine(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid track id", http.StatusBadRequest)
		return
	}
	entry, err := pub.lines.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "no racing line for track", http.StatusNotFound)
			return
		}
		pub.l.Error("could not load racing line",
			log.Int("trackId", id), log.ErrorField(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	// refuse records written by a newer release
	if entry.Data.Version > model.RecordVersion {
		pub.l.Error("racing line version not supported",
			log.Int("trackId", id), log.Int("version", entry.Data.Version))
		http.Error(w, "racing line version not supported",
			http.StatusInternalServerError)
		return
	}
	data, err := json.Marshal(&entry.Data)
	if err != nil {
		pub.l.Error("could not encode racing line", log.ErrorField(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	// racing lines change only on reprocessing, so a content hash
	// makes a good ETag
	etag := fmt.Sprintf("%q", utils.HashBytes(data))
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	//nolint:errcheck // client gone, nothing to do
	w.Write(data)
}

func (pub *PublicManager) handleVersion(w http.ResponseWriter, r *http.Request) {
	info := VersionInfo{
		ServerVersion:          version.Version,
		SupportedClientVersion: util.RequiredClientVersion,
	}
	if provided := r.URL.Query().Get("clientVersion"); provided != "" {
		compatible := util.CheckClientVersion(provided)
		info.ProvidedClientVersion = provided
		info.ClientCompatible = &compatible
	}
	pub.writeJSON(w, info)
}

func (pub *PublicManager) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		pub.l.Error("could not write response", log.ErrorField(err))
	}
}

//nolint:whitespace //can't make both the linter and editor happy :(
func (pub *PublicManager) loadRacingLine(
	ctx context.Context, trackId int,
) (*model.DbRacingLine, error) {
	return racingline.LoadByTrackId(ctx, pub.pool, trackId)
}

//nolint:whitespace //can't make both the linter and editor happy :(
func (pub *PublicManager) loadTrackList(
	ctx context.Context, _ int,
) (*[]TrackSummary, error) {
	tracks, err := track.LoadAll(ctx, pub.pool)
	if err != nil {
		return nil, err
	}
	processed, err := racingline.LoadTrackIds(ctx, pub.pool)
	if err != nil {
		return nil, err
	}
	ret := lo.Map(tracks, func(item *model.DbTrack, _ int) TrackSummary {
		return TrackSummary{
			TrackInfo:     item.Data,
			HasRacingLine: lo.Contains(processed, item.ID),
		}
	})
	return &ret, nil
}
