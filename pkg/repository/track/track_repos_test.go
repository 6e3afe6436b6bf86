//nolint:dupl,funlen,errcheck //ok for this test code
package track

import (
	"context"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"gotest.tools/v3/assert"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/model"
	"github.com/mpapenbr/iracelog-trackmap-go/testsupport/basedata"
	tcpg "github.com/mpapenbr/iracelog-trackmap-go/testsupport/tcpostgres"
	"github.com/mpapenbr/iracelog-trackmap-go/testsupport/testdb"
)

func TestCreate(t *testing.T) {
	pool := testdb.InitTestDb()
	type args struct {
		track *model.DbTrack
	}
	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			name: "new entry",
			args: args{track: &model.DbTrack{ID: 2, Data: model.TrackInfo{}}},
		},
		{
			name:    "duplicate",
			args:    args{track: &model.DbTrack{ID: 1, Data: model.TrackInfo{}}},
			wantErr: true,
		},
	}
	basedata.CreateSampleTrack(pool)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			err := pool.AcquireFunc(ctx, func(c *pgxpool.Conn) error {
				return Create(ctx, c.Conn(), tt.args.track)
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Create error = %v, wantErr %v",
					err, tt.wantErr)
			}
		})
	}
}

func TestEnsureTrack(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := basedata.CreateSampleTrack(pool)
	ctx := context.Background()

	// existing id must not be touched
	modified := &model.DbTrack{ID: sample.ID, Data: model.TrackInfo{Name: "other"}}
	if err := EnsureTrack(ctx, pool, modified); err != nil {
		t.Errorf("EnsureTrack (existing) error = %v", err)
	}
	got, err := LoadById(ctx, pool, sample.ID)
	if err != nil {
		t.Fatalf("LoadById error = %v", err)
	}
	if !reflect.DeepEqual(got, sample) {
		t.Errorf("EnsureTrack overwrote existing entry: got %v, want %v", got, sample)
	}

	// unknown id gets created
	fresh := &model.DbTrack{ID: 42, Data: model.TrackInfo{Name: "fresh"}}
	if err := EnsureTrack(ctx, pool, fresh); err != nil {
		t.Errorf("EnsureTrack (new) error = %v", err)
	}
	got, err = LoadById(ctx, pool, fresh.ID)
	if err != nil {
		t.Fatalf("LoadById error = %v", err)
	}
	if !reflect.DeepEqual(got, fresh) {
		t.Errorf("EnsureTrack created %v, want %v", got, fresh)
	}
}

func TestUpdate(t *testing.T) {
	pool := testdb.InitTestDb()
	type args struct {
		track *model.DbTrack
	}
	tests := []struct {
		name       string
		args       args
		numUpdated int
		want       model.TrackInfo
	}{
		{
			name: "existing entry",
			args: args{track: &model.DbTrack{
				ID:   1,
				Data: model.TrackInfo{ID: 1, Name: "renamed"},
			}},
			numUpdated: 1,
			want:       model.TrackInfo{ID: 1, Name: "renamed"},
		},
		{
			name: "unknown entry",
			args: args{track: &model.DbTrack{
				ID:   7,
				Data: model.TrackInfo{ID: 7},
			}},
			numUpdated: 0,
			want:       basedata.SampleTrack().Data,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tcpg.ClearAllTables(pool)
			basedata.CreateSampleTrack(pool)
			ctx := context.Background()
			err := pool.AcquireFunc(ctx, func(c *pgxpool.Conn) error {
				var count int
				var err error
				if count, err = Update(ctx, c, tt.args.track); err != nil {
					t.Errorf("Could not update track = %v", err)
					return err
				}
				assert.Equal(t, count, tt.numUpdated)
				check, err := LoadById(ctx, c, 1)
				if err != nil {
					t.Errorf("Could not read track = %v", err)
				}
				if !reflect.DeepEqual(check.Data, tt.want) {
					t.Errorf("LoadById() = %v, want %v", check.Data, tt.want)
				}

				return nil
			})
			if err != nil {
				t.Errorf("Test error = %v", err)
			}
		})
	}
}

func TestLoadById(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := basedata.CreateSampleTrack(pool)
	type args struct {
		id int
	}
	tests := []struct {
		name    string
		args    args
		want    *model.DbTrack
		wantErr bool
	}{
		{
			name: "existing entry",
			args: args{id: 1},
			want: sample,
		},
		{
			name:    "unknown entry",
			args:    args{id: 2},
			wantErr: true,
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			pool.AcquireFunc(ctx, func(c *pgxpool.Conn) error {
				got, err := LoadById(ctx, c.Conn(), tt.args.id)
				if (err != nil) != tt.wantErr {
					t.Errorf("LoadById() error = %v, wantErr %v", err, tt.wantErr)
					return err
				}
				if !reflect.DeepEqual(got, tt.want) {
					t.Errorf("LoadById() = %v, want %v", got, tt.want)
				}
				return nil
			})
		})
	}
}

func TestLoadAll(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := basedata.CreateSampleTrack(pool)
	other := &model.DbTrack{ID: 5, Data: model.TrackInfo{ID: 5, Name: "other"}}
	ctx := context.Background()
	if err := Create(ctx, pool, other); err != nil {
		t.Fatalf("Create error = %v", err)
	}

	got, err := LoadAll(ctx, pool)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	want := []*model.DbTrack{sample, other}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadAll() = %v, want %v", got, want)
	}
}

func TestDeleteById(t *testing.T) {
	db := testdb.InitTestDb()
	sample := basedata.CreateSampleTrack(db)

	type args struct {
		id int
	}
	tests := []struct {
		name string

		args    args
		want    int
		wantErr bool
	}{
		{
			name: "delete_existing",
			args: args{id: sample.ID},
			want: 1,
		},
		{
			name: "delete_non_existing",
			args: args{id: -1}, // doesn't exist
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db.AcquireFunc(ctx, func(c *pgxpool.Conn) error {
				got, err := DeleteById(ctx, c.Conn(), tt.args.id)
				if (err != nil) != tt.wantErr {
					t.Errorf("DeleteById() error = %v, wantErr %v", err, tt.wantErr)
					return nil
				}
				if got != tt.want {
					t.Errorf("DeleteById() = %v, want %v", got, tt.want)
				}
				return nil
			})
		})
	}
}
