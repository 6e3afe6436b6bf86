//nolint:whitespace //can't make both the linter and editor happy :(
package racingline

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/model"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/repository"
)

// stores the racing line for a track, replacing any previous run.
func Save(
	ctx context.Context,
	conn repository.Querier,
	line *model.DbRacingLine,
) error {
	if _, err := conn.Exec(ctx,
		"delete from racing_line where track_id=$1", line.TrackID); err != nil {
		return err
	}
	_, err := conn.Exec(ctx,
		"insert into racing_line (track_id, run_id, data) values ($1,$2,$3)",
		line.TrackID, line.RunID, line.Data)
	return err
}

func LoadByTrackId(
	ctx context.Context,
	conn repository.Querier,
	trackId int,
) (*model.DbRacingLine, error) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where track_id=$1", selector), trackId)
	var item model.DbRacingLine
	if err := scan(&item, row); err != nil {
		return nil, err
	}
	return &item, nil
}

// returns the ids of all tracks with a stored racing line.
func LoadTrackIds(ctx context.Context, conn repository.Querier) ([]int, error) {
	rows, err := conn.Query(ctx,
		"select track_id from racing_line order by track_id asc")
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByTrackId(
	ctx context.Context,
	conn repository.Querier,
	trackId int,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from racing_line where track_id=$1", trackId)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// little helper
const selector = string(`select track_id,run_id,data from racing_line`)

func scan(e *model.DbRacingLine, row pgx.Row) error {
	return row.Scan(&e.TrackID, &e.RunID, &e.Data)
}
