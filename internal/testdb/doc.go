// Package testdb provides helpers for tests that need a real PostgreSQL
// database. Tests are skipped unless PASSGATE_TEST_DATABASE_URL is set.
//
// Each test runs inside a transaction that is rolled back when it finishes,
// so tests may run in parallel without seeing each other's rows:
//
//	db := testdb.Open(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	    s := postgres.NewPostgresUserStore(tx)
//	    ...
//	})
package testdb
