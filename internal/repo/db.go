package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/stickynote/internal/pkg/dbutil"
)

// insertReturningID executes an insert and reports the generated primary key.
// postgres has no LastInsertId support, so it gets a RETURNING clause instead.
func insertReturningID(ctx context.Context, db *sqlx.DB, sqlStr string, args []interface{}) (int64, error) {
	if db.DriverName() == "postgres" {
		sqlStr, args = dbutil.Finalize(db.DriverName(), sqlStr+" RETURNING id", args)
		var id int64
		if err := db.QueryRowContext(ctx, sqlStr, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	sqlStr, args = dbutil.Finalize(db.DriverName(), sqlStr, args)
	result, err := db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func execAffecting(ctx context.Context, db *sqlx.DB, sqlStr string, args []interface{}) (int64, error) {
	sqlStr, args = dbutil.Finalize(db.DriverName(), sqlStr, args)
	result, err := db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
