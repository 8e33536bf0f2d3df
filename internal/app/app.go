// Package app wires configuration, storage, upstream clients and the HTTP server
// into the running skatespots service.
package app

import (
	"context"
	"errors"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/skatespots/filestore"
	"github.com/rise-and-shine/skatespots/filestore/diskfs"
	"github.com/rise-and-shine/skatespots/filestore/miniowr"
	"github.com/rise-and-shine/skatespots/http/server"
	"github.com/rise-and-shine/skatespots/http/server/middleware"
	"github.com/rise-and-shine/skatespots/internal/api"
	"github.com/rise-and-shine/skatespots/internal/geocode"
	"github.com/rise-and-shine/skatespots/internal/spot"
	"github.com/rise-and-shine/skatespots/internal/spot/mongorepo"
	"github.com/rise-and-shine/skatespots/internal/upload"
	"github.com/rise-and-shine/skatespots/logger"
	"github.com/rise-and-shine/skatespots/meta"
	"github.com/rise-and-shine/skatespots/tracing"
)

// App is the assembled service.
type App struct {
	cfg  Config
	log  logger.Logger
	srv  *server.HTTPServer
	repo *mongorepo.Repo

	shutdownTracer func() error
}

// New builds the service from cfg. The global logger must already be set.
//
// An unreachable store does not fail New: store backed routes answer with 500
// until the process is restarted.
func New(ctx context.Context, cfg Config) (*App, error) {
	meta.SetServiceInfo(cfg.Service.Name, cfg.Service.Version)
	meta.SetLanguageMap(Messages, cfg.Service.DefaultLanguage)

	log := logger.Named("app")

	shutdownTracer, err := tracing.InitGlobalTracer(cfg.Tracing)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	store, uploadsDir, err := newFileStore(ctx, cfg.Uploads)
	if err != nil {
		_ = shutdownTracer()
		return nil, errx.Wrap(err)
	}

	repo := mongorepo.Open(ctx, cfg.Mongo)
	uploads := upload.New(store)

	srv := server.NewHTTPServer(cfg.HTTPServer, []server.Middleware{
		middleware.NewRecoveryMW(log),
		middleware.NewCORSMW(),
		middleware.NewTracingMW(),
		middleware.NewTimeoutMW(cfg.HTTPServer.HandleTimeout),
		middleware.NewMetaInjectMW(),
		middleware.NewLoggerMW(log),
		middleware.NewErrorHandlerMW(),
	})

	srv.RegisterRouter(func(r fiber.Router) {
		api.Register(r, api.Deps{
			Spots:      spot.NewService(repo, uploads),
			Geocoder:   geocode.New(cfg.Geocode),
			Uploads:    uploads,
			UploadsDir: uploadsDir,
		})
	})

	return &App{
		cfg:            cfg,
		log:            log,
		srv:            srv,
		repo:           repo,
		shutdownTracer: shutdownTracer,
	}, nil
}

// newFileStore returns the configured file store and, for the disk backend,
// its directory for static serving.
func newFileStore(ctx context.Context, cfg UploadsConfig) (filestore.FileStore, string, error) {
	switch cfg.Backend {
	case BackendMinio:
		if cfg.Minio == nil {
			return nil, "", errx.New("uploads.minio is not configured")
		}
		store, err := miniowr.New(ctx, *cfg.Minio)
		if err != nil {
			return nil, "", errx.Wrap(err)
		}
		return store, "", nil

	default:
		store, err := diskfs.New(cfg.Disk)
		if err != nil {
			return nil, "", errx.Wrap(err)
		}
		return store, store.Dir(), nil
	}
}

// Handler exposes the Fiber app, e.g. for app.Test in tests.
func (a *App) Handler() *fiber.App {
	return a.srv.App()
}

// Run serves HTTP until ctx is done, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.With("address", a.cfg.HTTPServer.Address()).Info("http server started")
		errCh <- a.srv.Start()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = errx.Wrap(err)
	}

	return errors.Join(runErr, a.shutdown())
}

func (a *App) shutdown() error {
	var errs []error

	if err := a.srv.Stop(); err != nil {
		errs = append(errs, errx.Wrap(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Mongo.ConnectTimeout)
	defer cancel()
	if err := a.repo.Close(ctx); err != nil {
		errs = append(errs, errx.Wrap(err))
	}

	if err := a.shutdownTracer(); err != nil {
		errs = append(errs, errx.Wrap(err))
	}

	a.log.Info("shutdown complete")
	_ = logger.Sync()

	return errors.Join(errs...)
}
