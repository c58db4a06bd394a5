// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/logging"
)

// DB wraps the DuckDB connection and provides data access for the job
// catalog and the interaction log.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig

	// Prepared statement caching
	stmtCache   map[string]*sql.Stmt
	stmtCacheMu sync.RWMutex
}

// New creates a new database connection and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists for file-backed databases.
	// 0750 per gosec G301.
	if cfg.Path != "" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Disable auto-install/auto-load to prevent hangs in restricted
	// network environments. An unset max_memory is omitted so DuckDB keeps
	// its own default; an empty value in the DSN is rejected.
	maxMemory := ""
	if cfg.MaxMemory != "" {
		maxMemory = "&max_memory=" + cfg.MaxMemory
	}
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:      conn,
		cfg:       cfg,
		stmtCache: make(map[string]*sql.Stmt),
	}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.SeedSampleData {
		if err := db.seedSampleData(); err != nil {
			logging.Warn().Err(err).Msg("Failed to seed sample data")
		}
	}

	return db, nil
}

// configureConnectionPool sets connection pool parameters.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// initialize creates tables, indexes, and runs pending migrations.
func (db *DB) initialize() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if err := db.createTables(ctx); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	if err := db.createIndexes(ctx); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	if err := db.runMigrations(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Conn returns the underlying SQL database connection, for packages that
// need direct access.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close closes prepared statements and the connection.
func (db *DB) Close() error {
	db.stmtCacheMu.Lock()
	for _, stmt := range db.stmtCache {
		if stmt != nil {
			closeWithLog(stmt, "prepared statement")
		}
	}
	db.stmtCache = make(map[string]*sql.Stmt)
	db.stmtCacheMu.Unlock()

	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// prepared returns a cached prepared statement for the query, creating and
// caching one on first use.
func (db *DB) prepared(ctx context.Context, sqlText string) (*sql.Stmt, error) {
	db.stmtCacheMu.RLock()
	stmt, ok := db.stmtCache[sqlText]
	db.stmtCacheMu.RUnlock()
	if ok {
		return stmt, nil
	}

	db.stmtCacheMu.Lock()
	defer db.stmtCacheMu.Unlock()
	if stmt, ok = db.stmtCache[sqlText]; ok {
		return stmt, nil
	}

	stmt, err := db.conn.PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("prepare statement: %w", err)
	}
	db.stmtCache[sqlText] = stmt
	return stmt, nil
}
