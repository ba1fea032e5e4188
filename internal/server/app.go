// Package server initializes and runs the travelbook API. It selects the
// storage and media backends from config, handles graceful shutdown and
// starts the HTTP server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/travelbook/internal/filex"
	"github.com/dmitrijs2005/travelbook/internal/logging"
	"github.com/dmitrijs2005/travelbook/internal/server/config"
	"github.com/dmitrijs2005/travelbook/internal/server/media"
	"github.com/dmitrijs2005/travelbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/travelbook/internal/server/rest"
	"github.com/dmitrijs2005/travelbook/internal/server/services"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	repomanager  repomanager.RepositoryManager
	store        media.Store
	assets       http.Handler
	limiter      *rest.Limiter
	userService  *services.UserService
	storyService *services.StoryService
	mediaService *services.MediaService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	rm, err := repomanager.NewRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := newMediaStore(ctx, c, logger)
	if err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("media init error: %w", err)
	}

	assetsDir, err := filex.EnsureSubdDir(c.AssetsDir)
	if err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("assets dir error: %w", err)
	}

	var limiter *rest.Limiter
	if c.RedisAddr != "" {
		limiter = rest.NewRedisLimiter(ctx, c.RedisAddr, c.RateLimitRPS, c.RateLimitBurst, logger)
	}

	ms := services.NewMediaService(store, c.BaseURL)

	return &App{
		config:       c,
		logger:       logger,
		repomanager:  rm,
		store:        store,
		assets:       http.FileServer(http.Dir(assetsDir)),
		limiter:      limiter,
		userService:  services.NewUserService(rm, c),
		storyService: services.NewStoryService(rm, ms, logger),
		mediaService: ms,
	}, nil
}

func newMediaStore(ctx context.Context, c *config.Config, logger logging.Logger) (media.Store, error) {
	switch c.MediaBackend {
	case config.MediaBackendLocal, "":
		store, err := media.NewLocalStore(c.UploadDir)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "storing uploads on local disk", "dir", store.Dir())
		return store, nil
	case config.MediaBackendS3:
		return media.NewS3Store(ctx, media.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown media backend %q", c.MediaBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) newRESTServer() *rest.Server {
	return rest.NewServer(rest.Options{
		Address:       app.config.EndpointAddrHTTP,
		SecretKey:     app.config.SecretKey,
		MaxUploadSize: app.config.MaxUploadSize,
		CORSOrigin:    app.config.CORSOrigin,
		Uploads:       app.store.Handler(),
		Assets:        app.assets,
		Limiter:       app.limiter,
		Ping:          app.repomanager.Ping,
	}, app.logger, app.userService, app.storyService, app.mediaService)
}

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.newRESTServer().Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or the server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(context.Background()); err != nil {
		app.logger.Error(ctx, "error closing storage", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
