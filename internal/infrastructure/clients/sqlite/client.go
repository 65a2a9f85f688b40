// Package sqlite opens a local SQLite doctor directory (modernc.org/sqlite,
// no cgo). Useful for single-node deployments and tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/zatekoja/symptomatch/backend/migrations"
)

// InMemory is the path for a private in-memory database.
const InMemory = ":memory:"

// Client represents a SQLite database client
type Client struct {
	db   *sql.DB
	path string
}

// NewClient opens the database at path and applies the embedded migrations.
func NewClient(ctx context.Context, path string) (*Client, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database, and SQLite
	// serialises writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	c := &Client{db: db, path: path}
	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Str("path", path).Msg("SQLite doctor directory ready")
	return c, nil
}

func (c *Client) runMigrations() error {
	driver, err := migratesqlite.WithInstance(c.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite migration driver: %w", err)
	}
	return migrations.Up(driver, "sqlite")
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Dialect returns the goqu dialect name for this database.
func (c *Client) Dialect() string {
	return "sqlite3"
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}
