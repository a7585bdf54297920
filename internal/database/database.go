package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapio"
)

// Open connects to the database named by uri. PostgreSQL URIs go through pgx,
// anything else is treated as an SQLite file path or DSN.
func Open(ctx context.Context, uri string) (db *bun.DB, err error) {
	if isPostgresURI(uri) {
		var dbConfig *pgx.ConnConfig
		if dbConfig, err = pgx.ParseConfig(uri); err != nil {
			err = fmt.Errorf("unable to parse postgres uri: %w", err)
			return
		}

		db = bun.NewDB(stdlib.OpenDB(*dbConfig), pgdialect.New())
	} else {
		var sqldb *sql.DB
		if sqldb, err = sql.Open(sqliteshim.ShimName, uri); err != nil {
			err = fmt.Errorf("unable to open sqlite database: %w", err)
			return
		}

		// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}

	if _, err = db.ExecContext(ctx, "SELECT 1"); err != nil {
		_ = db.Close()
		db = nil
		err = fmt.Errorf("failed to test database connection: %w", err)
		return
	}

	return
}

// EnableQueryLogging routes every executed query to the global zap logger at
// debug level. The returned closer flushes the writer.
func EnableQueryLogging(db *bun.DB) io.Closer {
	dbLogger := &zapio.Writer{Log: zap.L().With(zap.String("section", "bun")), Level: zapcore.DebugLevel}

	db.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.WithWriter(dbLogger),
	))

	return dbLogger
}

func isPostgresURI(uri string) bool {
	return strings.HasPrefix(uri, "postgres://") || strings.HasPrefix(uri, "postgresql://")
}
