// Package server wires the quiz server together: it opens the database and
// runs migrations, picks the session, event and course-material backends
// from configuration, and runs the HTTP API until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophquiz/internal/logging"
	"github.com/dmitrijs2005/gophquiz/internal/server/catalog"
	"github.com/dmitrijs2005/gophquiz/internal/server/config"
	"github.com/dmitrijs2005/gophquiz/internal/server/events"
	"github.com/dmitrijs2005/gophquiz/internal/server/httpapi"
	"github.com/dmitrijs2005/gophquiz/internal/server/materials"
	"github.com/dmitrijs2005/gophquiz/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophquiz/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophquiz/internal/server/services"
	"github.com/go-redis/redis/v8"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	publisher events.Publisher
	closers   []io.Closer
	server    *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	store, err := app.sessionStore(ctx, db, rm)
	if err != nil {
		app.close(ctx)
		return nil, err
	}

	app.publisher = app.progressPublisher(ctx)

	mats, err := app.materialStore(ctx)
	if err != nil {
		app.close(ctx)
		return nil, err
	}

	sm := services.NewSessionManager(store, c)
	us, err := services.NewUserService(db, rm, sm, c)
	if err != nil {
		app.close(ctx)
		return nil, err
	}
	ps := services.NewProgressService(db, rm, app.publisher, logger)

	app.server = httpapi.NewServer(c.HTTPAddr, logger, httpapi.Deps{
		Users:     us,
		Sessions:  sm,
		Progress:  ps,
		Catalog:   catalog.NewFileCatalog(c.CatalogPath),
		Materials: mats,
	}, httpapi.Options{
		LoginRatePerSecond: c.LoginRatePerSecond,
		LoginBurst:         c.LoginBurst,
	})

	return app, nil
}

func (app *App) sessionStore(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager) (sessions.Repository, error) {
	if app.config.RedisAddr == "" {
		return rm.Sessions(db), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     app.config.RedisAddr,
		Password: app.config.RedisPassword,
		DB:       app.config.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	app.closers = append(app.closers, rdb)

	app.logger.Info(ctx, "Sessions stored in Redis", "address", app.config.RedisAddr)
	return sessions.NewRedisRepository(rdb), nil
}

func (app *App) progressPublisher(ctx context.Context) events.Publisher {
	if len(app.config.KafkaBrokers) == 0 {
		return events.NopPublisher{}
	}
	app.logger.Info(ctx, "Publishing progress events", "brokers", app.config.KafkaBrokers, "topic", app.config.KafkaTopic)
	return events.NewKafkaPublisher(events.NewKafkaWriter(app.config.KafkaBrokers, app.config.KafkaTopic))
}

func (app *App) materialStore(ctx context.Context) (materials.Store, error) {
	if app.config.S3Bucket == "" {
		return materials.NewLocalStore(app.config.CoursesDir), nil
	}

	s, err := materials.NewS3Store(ctx, materials.S3Options{
		User:         app.config.S3RootUser,
		Password:     app.config.S3RootPassword,
		Bucket:       app.config.S3Bucket,
		Region:       app.config.S3Region,
		BaseEndpoint: app.config.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}
	return s, nil
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
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(context.Background())
	app.logger.Info(ctx, "App stopped")
}

func (app *App) close(ctx context.Context) {
	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.logger.Warn(ctx, "publisher close", "error", err)
		}
	}
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Warn(ctx, "close", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close", "error", err)
	}
}
