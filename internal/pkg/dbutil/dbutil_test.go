package dbutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestFinalizePostgres(t *testing.T) {
	query, args := Finalize("postgres", "SELECT id FROM notes WHERE user_id=? ORDER BY id LIMIT ?,?", []interface{}{1, 0, 10})
	require.Equal(t, "SELECT id FROM notes WHERE user_id=$1 ORDER BY id LIMIT $2 OFFSET $3", query)
	require.Equal(t, []interface{}{1, 10, 0}, args)
}

func TestFinalizeQuestionDrivers(t *testing.T) {
	for _, driver := range []string{"mysql", "sqlite"} {
		query, args := Finalize(driver, "SELECT id FROM notes WHERE user_id=?", []interface{}{1})
		require.Equal(t, "SELECT id FROM notes WHERE user_id=?", query)
		require.Equal(t, []interface{}{1}, args)
	}
}

func TestIsConflict(t *testing.T) {
	require.True(t, IsConflict(&pq.Error{Code: "23505"}))
	require.False(t, IsConflict(&pq.Error{Code: "23503"}))
	require.True(t, IsConflict(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062})))
	require.False(t, IsConflict(&mysql.MySQLError{Number: 1451}))
	require.False(t, IsConflict(errors.New("boom")))
}
