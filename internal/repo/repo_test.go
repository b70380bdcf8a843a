package repo

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var schemaStatements = []string{
	`CREATE TABLE users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    INTEGER NOT NULL
	)`,
	`CREATE TABLE confirmations (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name         TEXT NOT NULL,
		date_of_birth     TEXT NOT NULL,
		confirmation_date TEXT NOT NULL,
		church_name       TEXT NOT NULL,
		priest_name       TEXT NOT NULL,
		sponsor_name      TEXT NOT NULL DEFAULT '',
		remarks           TEXT NOT NULL DEFAULT '',
		created_at        INTEGER NOT NULL
	)`,
}

func setupDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range schemaStatements {
		_, err = db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}
