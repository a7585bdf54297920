package database

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"go.uber.org/zap"
)

//go:embed migrations
var migrations embed.FS

func MigrateUp(db *bun.DB) (err error) {
	var dir string
	if dir, err = setupGoose(db); err != nil {
		return
	}

	if err = goose.Up(db.DB, dir); err != nil {
		err = fmt.Errorf("failed to apply migrations: %w", err)
	}
	return
}

func MigrateDown(db *bun.DB) (err error) {
	var dir string
	if dir, err = setupGoose(db); err != nil {
		return
	}

	if err = goose.Down(db.DB, dir); err != nil {
		err = fmt.Errorf("failed to roll back migration: %w", err)
	}
	return
}

func MigrationStatus(db *bun.DB) (err error) {
	var dir string
	if dir, err = setupGoose(db); err != nil {
		return
	}

	return goose.Status(db.DB, dir)
}

// SchemaVersion returns the latest applied migration version.
func SchemaVersion(db *bun.DB) (version int64, err error) {
	if _, err = setupGoose(db); err != nil {
		return
	}

	return goose.GetDBVersion(db.DB)
}

func setupGoose(db *bun.DB) (dir string, err error) {
	var gooseDialect string

	switch db.Dialect().Name() {
	case dialect.SQLite:
		gooseDialect, dir = "sqlite3", "migrations/sqlite"
	case dialect.PG:
		gooseDialect, dir = "postgres", "migrations/postgres"
	default:
		err = fmt.Errorf("unsupported dialect %s", db.Dialect().Name())
		return
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{zap.S().With("section", "goose")})
	err = goose.SetDialect(gooseDialect)
	return
}

type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l gooseLogger) Fatal(v ...interface{})                 { l.log.Fatal(v...) }
func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.log.Fatalf(format, v...) }
func (l gooseLogger) Print(v ...interface{})                 { l.log.Info(v...) }
func (l gooseLogger) Println(v ...interface{})               { l.log.Info(v...) }
func (l gooseLogger) Printf(format string, v ...interface{}) { l.log.Infof(format, v...) }
