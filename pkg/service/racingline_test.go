//nolint:funlen // ok for tests
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/model"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/processing"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/repository/racingline"
	"github.com/mpapenbr/iracelog-trackmap-go/testsupport/testdb"
)

const squareTrack = `<svg><g id="active">
	<path d="M 0 0 L 100 0 L 100 100 L 0 100 Z"/>
</g></svg>`

type fakeFetcher struct {
	layers map[string]string
}

var errLayerMissing = errors.New("layer missing")

func (f *fakeFetcher) FetchLayer(
	_ context.Context, _ *model.TrackAsset, layer string,
) ([]byte, error) {
	data, ok := f.layers[layer]
	if !ok {
		return nil, errLayerMissing
	}
	return []byte(data), nil
}

func testProcessor(layers map[string]string) *processing.Processor {
	return processing.NewProcessor(
		processing.WithLayerFetcher(&fakeFetcher{layers: layers}))
}

type capturingPublisher struct {
	published []*model.DbRacingLine
}

func (p *capturingPublisher) TrackProcessed(entry *model.DbRacingLine) error {
	p.published = append(p.published, entry)
	return nil
}
func (p *capturingPublisher) Close() {}

func testAssets(ids ...int) []*model.TrackAsset {
	ret := make([]*model.TrackAsset, len(ids))
	for i, id := range ids {
		ret[i] = &model.TrackAsset{TrackID: id, BaseURL: "https://cdn/"}
	}
	return ret
}

func TestProcessTrackStoresResult(t *testing.T) {
	pool := testdb.InitTestDb()
	pub := &capturingPublisher{}
	s := InitRacingLineService(pool,
		testProcessor(map[string]string{"active": squareTrack}),
		WithPublisher(pub))
	ctx := context.Background()

	entry, err := s.ProcessTrack(ctx, &model.TrackAsset{TrackID: 18})
	require.NoError(t, err)
	assert.Equal(t, 18, entry.TrackID)
	assert.NotEqual(t, uuid.Nil, entry.RunID)

	stored, err := loadStored(ctx, pool, 18)
	require.NoError(t, err)
	assert.Equal(t, entry.RunID, stored.RunID)
	assert.Equal(t, entry.Data.PointCount, stored.Data.PointCount)
	require.Len(t, pub.published, 1)
	assert.Equal(t, entry.RunID, pub.published[0].RunID)

	// reprocessing replaces the stored run
	second, err := s.ProcessTrack(ctx, &model.TrackAsset{TrackID: 18})
	require.NoError(t, err)
	stored, err = loadStored(ctx, pool, 18)
	require.NoError(t, err)
	assert.Equal(t, second.RunID, stored.RunID)
	assert.NotEqual(t, entry.RunID, stored.RunID)
}

func TestProcessTrackDryRun(t *testing.T) {
	pool := testdb.InitTestDb()
	pub := &capturingPublisher{}
	s := InitRacingLineService(pool,
		testProcessor(map[string]string{"active": squareTrack}),
		WithPublisher(pub), WithDryRun(true))
	ctx := context.Background()

	entry, err := s.ProcessTrack(ctx, &model.TrackAsset{TrackID: 18})
	require.NoError(t, err)
	assert.NotNil(t, entry)

	_, err = loadStored(ctx, pool, 18)
	assert.Error(t, err, "dry run must not persist")
	assert.Empty(t, pub.published, "dry run must not publish")
}

func TestProcessBatch(t *testing.T) {
	pool := testdb.InitTestDb()
	s := InitRacingLineService(pool,
		testProcessor(map[string]string{"active": squareTrack}))
	ctx := context.Background()

	result, err := s.ProcessBatch(ctx, testAssets(1, 2), 0)
	require.NoError(t, err)
	assert.Len(t, result.Processed, 2)
	assert.Empty(t, result.Failures)
}

func TestProcessBatchCollectsFailures(t *testing.T) {
	pool := testdb.InitTestDb()
	// no layers at all, every track must fail without aborting the batch
	s := InitRacingLineService(pool, testProcessor(map[string]string{}))
	ctx := context.Background()

	result, err := s.ProcessBatch(ctx, testAssets(3, 4), 0)
	require.NoError(t, err)
	assert.Empty(t, result.Processed)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, 3, result.Failures[0].TrackID)
	assert.NotEmpty(t, result.Failures[0].Reason)
}

func loadStored(
	ctx context.Context, pool *pgxpool.Pool, trackId int,
) (*model.DbRacingLine, error) {
	return racingline.LoadByTrackId(ctx, pool, trackId)
}
