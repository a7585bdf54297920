package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapio"

	"github.com/helpify-project/messageboard/internal/controllers"
	"github.com/helpify-project/messageboard/internal/database"
)

func main() {
	ctx := context.Background()
	ctx, _ = signal.NotifyContext(ctx, os.Interrupt)

	// Logged once the logger exists; real environment variables take precedence.
	envErr := loadDotenv()

	if err := newApp(envErr).RunContext(ctx, os.Args); err != nil {
		zap.L().Fatal("unhandled error", zap.Error(err))
	}
}

func newApp(envErr error) *cli.App {
	return &cli.App{
		Name:  "messageboard-api",
		Usage: "HTTP API for posting and editing messages",
		UsageText: "messageboard-api [global options] [command]\n\n" +
			"All options are global and go before the command; serve is the default command.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Value: false,
				EnvVars: []string{
					"MESSAGEBOARD_API_DEBUG",
				},
			},
			&cli.StringFlag{
				Name:  "database-uri",
				Value: "app.db",
				Usage: "SQLite file path, or a postgres:// URI",
				EnvVars: []string{
					"MESSAGEBOARD_API_DATABASE_URI",
				},
			},
			&cli.StringFlag{
				Name:  "http-listen-address",
				Value: "127.0.0.1:5555",
				EnvVars: []string{
					"MESSAGEBOARD_API_HTTP_LISTEN_ADDRESS",
				},
			},
			&cli.DurationFlag{
				Name:  "http-read-timeout",
				Value: 15 * time.Second,
				EnvVars: []string{
					"MESSAGEBOARD_API_HTTP_READ_TIMEOUT",
				},
			},
			&cli.DurationFlag{
				Name:  "http-write-timeout",
				Value: 15 * time.Second,
				EnvVars: []string{
					"MESSAGEBOARD_API_HTTP_WRITE_TIMEOUT",
				},
			},
			&cli.BoolFlag{
				Name:  "migrate",
				Value: true,
				Usage: "apply pending migrations before serving",
				EnvVars: []string{
					"MESSAGEBOARD_API_MIGRATE",
				},
			},
		},
		Before: func(cctx *cli.Context) (err error) {
			if err = setupLogging(cctx.Bool("debug")); err != nil {
				return
			}

			if envErr != nil {
				zap.L().Warn("ignoring malformed .env file", zap.Error(envErr))
			}
			return
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
		DefaultCommand: "serve",
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "serve the HTTP API (default)",
		Action: entrypoint,
	}
}

// loadDotenv reads .env from the working directory. A missing file is not an
// error.
func loadDotenv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

func migrateCommand() *cli.Command {
	withDB := func(fn func(db *bun.DB) error) cli.ActionFunc {
		return func(cctx *cli.Context) (err error) {
			defer func() { _ = zap.L().Sync() }()

			var db *bun.DB
			var closeDB func()
			if db, closeDB, err = openDatabase(cctx); err != nil {
				return
			}
			defer closeDB()

			return fn(db)
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "manage the database schema",
		Subcommands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "apply all pending migrations",
				Action: withDB(database.MigrateUp),
			},
			{
				Name:   "down",
				Usage:  "roll back the latest migration",
				Action: withDB(database.MigrateDown),
			},
			{
				Name:   "status",
				Usage:  "print applied and pending migrations",
				Action: withDB(database.MigrationStatus),
			},
		},
	}
}

func setupLogging(debugMode bool) error {
	var cfg zap.Config

	if debugMode {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level.SetLevel(zapcore.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.Development = false
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level.SetLevel(zapcore.InfoLevel)
	}

	cfg.OutputPaths = []string{
		"stdout",
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(logger)

	return nil
}

// openDatabase connects to --database-uri. closeDB releases the connection
// and the debug query writer.
func openDatabase(cctx *cli.Context) (db *bun.DB, closeDB func(), err error) {
	if db, err = database.Open(cctx.Context, cctx.String("database-uri")); err != nil {
		return
	}

	var dbLogger io.Closer
	if cctx.Bool("debug") {
		dbLogger = database.EnableQueryLogging(db)
	}

	closeDB = func() {
		_ = db.Close()
		if dbLogger != nil {
			_ = dbLogger.Close()
		}
	}
	return
}

func entrypoint(cctx *cli.Context) (err error) {
	defer func() { _ = zap.L().Sync() }()

	var db *bun.DB
	var closeDB func()
	if db, closeDB, err = openDatabase(cctx); err != nil {
		return
	}
	defer closeDB()

	if cctx.Bool("migrate") {
		if err = database.MigrateUp(db); err != nil {
			return
		}
	}

	var accessLog io.WriteCloser = &zapio.Writer{Log: zap.L().With(zap.String("section", "http")), Level: zapcore.InfoLevel}
	defer func() { _ = accessLog.Close() }()

	router := controllers.NewRouter(db, cctx.Bool("debug"))
	srv := &http.Server{
		Addr:         cctx.String("http-listen-address"),
		Handler:      controllers.Wrap(router, accessLog),
		ReadTimeout:  cctx.Duration("http-read-timeout"),
		WriteTimeout: cctx.Duration("http-write-timeout"),
	}

	serverDone := make(chan interface{})
	go func() {
		zap.L().Info("serving requests", zap.String("addr", "http://"+srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("failed to listen for http requests", zap.Error(err))
		}
		close(serverDone)
	}()

	select {
	case <-serverDone:
		return fmt.Errorf("http server stopped unexpectedly")
	case <-cctx.Context.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	zap.L().Info("shutting down")
	if err = srv.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed to shut down http server: %w", err)
	}

	return
}
