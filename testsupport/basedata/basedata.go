package basedata

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/model"
	trackrepos "github.com/mpapenbr/iracelog-trackmap-go/pkg/repository/track"
)

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2025-04-28T11:10:12Z")
	return t
}

func TestRunId() uuid.UUID {
	return uuid.MustParse("a81bc81b-dead-4e5d-abff-90865d1e13b1")
}

func SampleTrack() *model.DbTrack {
	return &model.DbTrack{
		ID: 1,
		Data: model.TrackInfo{
			ID:        1,
			Name:      "testtrack",
			ShortName: "tt",
			Config:    "testconfig",
			Length:    1000,
		},
	}
}

func SampleRacingLine(trackId int) *model.DbRacingLine {
	points := []geom.Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0},
	}
	return &model.DbRacingLine{
		TrackID: trackId,
		RunID:   TestRunId(),
		Data: model.RacingLine{
			Points:      points,
			PointCount:  len(points),
			StartFinish: &geom.Point{X: 0, Y: 0},
			ProcessedAt: TestTime(),
			Version:     model.RecordVersion,
		},
	}
}

func CreateSampleTrack(db *pgxpool.Pool) *model.DbTrack {
	ctx := context.Background()
	sampleTrack := SampleTrack()
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		return trackrepos.Create(ctx, tx, sampleTrack)
	})
	if err != nil {
		log.Fatalf("createSampleTrack: %v\n", err)
	}

	return sampleTrack
}
