//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTxRollsBack(t *testing.T) {
	db := Open(t)
	ctx := context.Background()

	WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, email, hashed_password, full_name, created_at)
			 VALUES ('rollback-probe', 'p@x.com', 'h', '', now())`)
		require.NoError(t, err)
	})

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = 'rollback-probe'`).Scan(&n))
	assert.Zero(t, n)
}
