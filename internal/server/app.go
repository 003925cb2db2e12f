// Package server wires configuration, storage, services and the GraphQL
// HTTP endpoint together and runs them until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/staffql/internal/logging"
	"github.com/dmitrijs2005/staffql/internal/server/auth"
	"github.com/dmitrijs2005/staffql/internal/server/config"
	gql "github.com/dmitrijs2005/staffql/internal/server/graphql"
	"github.com/dmitrijs2005/staffql/internal/server/httpserver"
	"github.com/dmitrijs2005/staffql/internal/server/photos"
	"github.com/dmitrijs2005/staffql/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/staffql/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// seams for tests
var (
	openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	}
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	userService     *services.UserService
	employeeService *services.EmployeeService
	credentials     *auth.Credentials
}

// NewApp connects to the database, applies migrations and builds the
// services. The caller owns the returned App and must call Close.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, os.Stdout, slog.LevelInfo)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	creds := auth.NewCredentials(c.SecretKey, c.TokenValidityDuration, c.BcryptCost)

	storage := newPhotoStorage(c)
	if storage == nil {
		logger.Warn(ctx, "S3 credentials not set, photo uploads disabled")
	}

	return &App{
		config:          c,
		logger:          logger,
		db:              db,
		credentials:     creds,
		userService:     services.NewUserService(db, rm, creds),
		employeeService: services.NewEmployeeService(db, rm, storage),
	}, nil
}

// newPhotoStorage returns nil when no S3 credentials are configured.
func newPhotoStorage(c *config.Config) services.PhotoPresigner {
	if c.S3RootUser == "" || c.S3RootPassword == "" {
		return nil
	}
	return photos.NewStorage(photos.Options{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
		PublicURL:    c.S3PublicURL,
	})
}

func (app *App) Close() error {
	if s, ok := app.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	schema, err := gql.NewSchema(app.userService, app.employeeService, gql.Options{
		ProtectEmployees: app.config.ProtectEmployees,
	})
	if err != nil {
		app.logger.Error(ctx, "schema build failed", "error", err)
		cancelFunc()
		return
	}

	s := httpserver.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, schema, app.credentials)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or the process receives SIGINT, SIGTERM
// or SIGQUIT.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "protect_employees", app.config.ProtectEmployees)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
