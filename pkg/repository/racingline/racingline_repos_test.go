//nolint:dupl,funlen,errcheck //ok for this test code
package racingline

import (
	"context"
	"log"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/model"
	"github.com/mpapenbr/iracelog-trackmap-go/testsupport/basedata"
	"github.com/mpapenbr/iracelog-trackmap-go/testsupport/testdb"
)

func createSampleEntry(db *pgxpool.Pool) *model.DbRacingLine {
	ctx := context.Background()
	track := basedata.CreateSampleTrack(db)
	line := basedata.SampleRacingLine(track.ID)
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		return Save(ctx, tx, line)
	})
	if err != nil {
		log.Fatalf("createSampleEntry: %v\n", err)
	}
	return line
}

func TestSave(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := createSampleEntry(pool)
	ctx := context.Background()

	// saving again replaces the previous run
	replacement := basedata.SampleRacingLine(sample.TrackID)
	replacement.RunID = uuid.MustParse("0c68a7a9-4bd5-43c7-9b4a-100000000000")
	replacement.Data.PointCount = 3
	replacement.Data.Points = replacement.Data.Points[:3]

	if err := Save(ctx, pool, replacement); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := LoadByTrackId(ctx, pool, sample.TrackID)
	if err != nil {
		t.Fatalf("LoadByTrackId() error = %v", err)
	}
	if !reflect.DeepEqual(got, replacement) {
		t.Errorf("Save() stored %v, want %v", got, replacement)
	}
	ids, err := LoadTrackIds(ctx, pool)
	if err != nil {
		t.Fatalf("LoadTrackIds() error = %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("expected single entry per track, got %v", ids)
	}
}

func TestSaveUnknownTrack(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	line := basedata.SampleRacingLine(999)
	if err := Save(ctx, pool, line); err == nil {
		t.Errorf("Save() expected foreign key violation, got nil")
	}
}

func TestLoadByTrackId(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := createSampleEntry(pool)
	type args struct {
		trackId int
	}
	tests := []struct {
		name    string
		args    args
		want    *model.DbRacingLine
		wantErr bool
	}{
		{
			name: "existing entry",
			args: args{trackId: sample.TrackID},
			want: sample,
		},
		{
			name:    "unknown entry",
			args:    args{trackId: 2},
			wantErr: true,
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			pool.AcquireFunc(ctx, func(c *pgxpool.Conn) error {
				got, err := LoadByTrackId(ctx, c.Conn(), tt.args.trackId)
				if (err != nil) != tt.wantErr {
					t.Errorf("LoadByTrackId() error = %v, wantErr %v", err, tt.wantErr)
					return err
				}
				if !reflect.DeepEqual(got, tt.want) {
					t.Errorf("LoadByTrackId() = %v, want %v", got, tt.want)
				}
				return nil
			})
		})
	}
}

func TestLoadTrackIds(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := createSampleEntry(pool)
	ctx := context.Background()

	got, err := LoadTrackIds(ctx, pool)
	if err != nil {
		t.Fatalf("LoadTrackIds() error = %v", err)
	}
	want := []int{sample.TrackID}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadTrackIds() = %v, want %v", got, want)
	}
}

func TestDeleteByTrackId(t *testing.T) {
	db := testdb.InitTestDb()
	sample := createSampleEntry(db)

	type args struct {
		trackId int
	}
	tests := []struct {
		name string

		args    args
		want    int
		wantErr bool
	}{
		{
			name: "delete_existing",
			args: args{trackId: sample.TrackID},
			want: 1,
		},
		{
			name: "delete_non_existing",
			args: args{trackId: -1}, // doesn't exist
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db.AcquireFunc(ctx, func(c *pgxpool.Conn) error {
				got, err := DeleteByTrackId(ctx, c.Conn(), tt.args.trackId)
				if (err != nil) != tt.wantErr {
					t.Errorf("DeleteByTrackId() error = %v, wantErr %v", err, tt.wantErr)
					return nil
				}
				if got != tt.want {
					t.Errorf("DeleteByTrackId() = %v, want %v", got, tt.want)
				}
				return nil
			})
		})
	}
}
