package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/gemshub/internal/auth"
	"github.com/MrSnakeDoc/gemshub/internal/config"
	"github.com/MrSnakeDoc/gemshub/internal/httpserver"
	"github.com/MrSnakeDoc/gemshub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/gemshub/internal/logger"
	"github.com/MrSnakeDoc/gemshub/internal/mirror"
	"github.com/MrSnakeDoc/gemshub/internal/redis"
	"github.com/MrSnakeDoc/gemshub/internal/scheduler"
	"github.com/MrSnakeDoc/gemshub/internal/sources/seed"
	"github.com/MrSnakeDoc/gemshub/internal/store/file"
	redisstore "github.com/MrSnakeDoc/gemshub/internal/store/redis"
	"github.com/MrSnakeDoc/gemshub/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	syncer      *mirror.Syncer
	resync      *scheduler.MirrorResync
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Sessions: Redis when configured (shared, survives restarts), memory otherwise
	var (
		sessions    auth.SessionStore
		sessionPing deps.Pinger
		redisClient *goredis.Client
	)
	if cfg.RedisEnabled() {
		client, err := redis.Connect(context.Background(), redis.Options{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		store := redisstore.NewStore(client)
		sessions, sessionPing, redisClient = store, store, client
	} else {
		loggerClient.Info("redis not configured, admin sessions kept in memory")
		sessions = auth.NewMemorySessions(10 * time.Minute)
	}

	gate, err := auth.NewGate(cfg.AdminPassword, sessions, cfg.SessionTTL, cfg.CookieSecure, loggerClient.Named("auth"))
	if err != nil {
		return nil, err
	}
	if !cfg.CookieSecure {
		loggerClient.Warn("session cookie is not marked Secure, use only for local development")
	}

	// Remote mirror
	var remote mirror.Remote
	if cfg.MirrorEnabled() {
		gh, err := mirror.NewGitHubRemote(mirror.GitHubOptions{
			Token:   cfg.GitHubToken,
			Owner:   cfg.GitHubOwner,
			Repo:    cfg.GitHubRepo,
			Path:    cfg.GitHubPath,
			Branch:  cfg.GitHubBranch,
			BaseURL: cfg.GitHubAPIURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to configure remote mirror: %w", err)
		}
		remote = gh
	}
	syncer := mirror.NewSyncer(remote, loggerClient.Named("mirror"), cfg.SyncTimeout)

	// Record store, every durable write is handed to the mirror
	gemStore := file.NewStore(cfg.DataFile, loggerClient.Named("store"), file.WithNotifier(syncer))

	if cfg.SeedFile != "" {
		if _, err := seed.NewImporter(cfg.SeedFile, gemStore, loggerClient.Named("seed")).Import(); err != nil {
			loggerClient.Warn("seed import failed", logger.String("file", cfg.SeedFile), logger.Error(err))
		}
	}

	// Mirror resync scheduler, only when there is a mirror and an interval
	var (
		resync      *scheduler.MirrorResync
		syncTrigger chan struct{}
	)
	if syncer.Enabled() && cfg.MirrorInterval > 0 {
		syncTrigger = make(chan struct{}, 1)
		resync = scheduler.NewMirrorResync(
			gemStore,
			syncer,
			loggerClient.Named("resync"),
			cfg.MirrorInterval,
			cfg.SyncTimeout,
			syncTrigger,
		)
	}

	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		Store:        gemStore,
		Gate:         gate,
		Mirror:       syncer,
		SyncTrigger:  syncTrigger,
		Sessions:     sessionPing,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		LoginBurst:   cfg.LoginBurst,
		LoginPerMin:  cfg.LoginPerMin,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		syncer:      syncer,
		resync:      resync,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.resync != nil {
		a.resync.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	if a.resync != nil {
		a.resync.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	// Pushes already queued by the last requests still go out
	a.syncer.Close()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	if runErr == nil {
		a.logger.Info("✅ gemshub stopped cleanly")
	}
	_ = a.logger.Sync()
	return runErr
}
