// Package sqlite implements the repository interfaces on an in-memory SQLite
// database.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so no C compiler is
// needed. The database is opened with mode=memory and never touches disk:
// it lives exactly as long as the *DB.
//
// DATABASE/SQL OVERVIEW:
//   - sql.DB:   a connection pool (NOT a single connection!)
//   - sql.Tx:   a transaction
//   - sql.Row:  a single result row
//   - sql.Rows: multiple result rows (must be closed!)
//
// Multi-step writes (id allocation + insert, product moves, sales) run inside
// one transaction via withTx.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// Counter names in the sequences table. The stored value is the next id to
// hand out.
const (
	seqUsers  = "users"
	seqStores = "stores"
	seqSales  = "sales"
)

// DB wraps a sql.DB connection pool and implements repository.Repository.
type DB struct {
	conn *sql.DB
	name string
}

// New opens a fresh in-memory database and creates the schema.
//
// IN-MEMORY DSN:
// A bare ":memory:" DSN gives every pooled connection its own empty
// database. We name the database with an xid and open it in shared-cache
// mode instead, so all connections of this *DB see the same data while two
// *DBs in the same process stay isolated.
//
// The pool is capped at one connection: SQLite serialises writers anyway,
// and a single connection keeps the PRAGMAs below in effect for every query.
func New() (*DB, error) {
	name := "marketplace-" + xid.New().String()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn, name: name}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Name returns the shared-cache name of the in-memory database.
func (db *DB) Name() string {
	return db.name
}

// Close closes the connection pool. The in-memory database is discarded
// with its last connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. Store rows carry the owner's columns
// (owner_id, owner_email, owner_name, owner_created_at) so the owner is a
// snapshot taken at creation, not a join against users.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS sequences (
			name  TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		);
		INSERT OR IGNORE INTO sequences (name, value) VALUES ('users', 1), ('stores', 0), ('sales', 1);

		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sessions (
			token      TEXT PRIMARY KEY,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating user tables: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS stores (
			id               INTEGER PRIMARY KEY,
			name             TEXT NOT NULL UNIQUE,
			owner_id         INTEGER NOT NULL,
			owner_email      TEXT NOT NULL,
			owner_name       TEXT NOT NULL,
			owner_created_at DATETIME NOT NULL,
			next_product_id  INTEGER NOT NULL DEFAULT 0,
			created_at       DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS products (
			store_id INTEGER NOT NULL REFERENCES stores(id),
			id       INTEGER NOT NULL,
			name     TEXT NOT NULL DEFAULT '',
			price    REAL NOT NULL DEFAULT 0,
			quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
			vacant   INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (store_id, id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating store tables: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS sales (
			id         INTEGER PRIMARY KEY,
			buyer_id   INTEGER NOT NULL REFERENCES users(id),
			store_id   INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			quantity   INTEGER NOT NULL,
			unit_price REAL NOT NULL,
			created_at DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating sales table: %w", err)
	}

	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on any error.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

// nextID returns the next value of the named counter and advances it.
func nextID(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	var id int64
	if err := tx.QueryRowContext(ctx,
		`SELECT value FROM sequences WHERE name = ?`, name,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("sqlite: reading sequence %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE sequences SET value = value + 1 WHERE name = ?`, name,
	); err != nil {
		return 0, fmt.Errorf("sqlite: advancing sequence %s: %w", name, err)
	}
	return id, nil
}

// exists reports whether query returns at least one row.
func exists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM (`+query+`)`, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
