package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"library-backend/internal/config"
	infraCache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/pkg/cache"
	pkgDatabase "library-backend/pkg/database"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"

	"library-backend/migrations"

	bookHandler "library-backend/internal/domains/book/handler"
	bookRepo "library-backend/internal/domains/book/repository"
	bookService "library-backend/internal/domains/book/service"

	readerHandler "library-backend/internal/domains/reader/handler"
	readerRepo "library-backend/internal/domains/reader/repository"
	readerService "library-backend/internal/domains/reader/service"

	librarianHandler "library-backend/internal/domains/librarian/handler"
	librarianRepo "library-backend/internal/domains/librarian/repository"
	librarianService "library-backend/internal/domains/librarian/service"

	loanHandler "library-backend/internal/domains/loan/handler"
	loanRepo "library-backend/internal/domains/loan/repository"
	loanService "library-backend/internal/domains/loan/service"
)

// sweepInterval is how often the in-memory revocation cache drops expired entries.
const sweepInterval = time.Minute

// Container holds the application's dependency graph.
// Build order: config -> infrastructure -> repositories -> services -> handlers.
type Container struct {
	// ========================================
	// INFRASTRUCTURE
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// ========================================
	// REPOSITORIES
	// ========================================
	BookRepo      bookRepo.RepositoryInterface
	ReaderRepo    readerRepo.RepositoryInterface
	LibrarianRepo librarianRepo.RepositoryInterface
	LoanRepo      loanRepo.RepositoryInterface

	// ========================================
	// SERVICES
	// ========================================
	BookService   bookService.ServiceInterface
	ReaderService readerService.ServiceInterface
	AuthService   librarianService.ServiceInterface
	LoanService   loanService.ServiceInterface

	// ========================================
	// HANDLERS
	// ========================================
	BookHandler   *bookHandler.Handler
	ReaderHandler *readerHandler.Handler
	AuthHandler   *librarianHandler.Handler
	LoanHandler   *loanHandler.Handler

	// stop cancels background goroutines started by the container.
	stop context.CancelFunc
}

// NewContainer loads configuration and builds every dependency.
// It fails fast when the database or the configured cache is unreachable.
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	logger.Info("Initializing DI container", map[string]interface{}{
		"env":     cfg.App.Environment,
		"version": cfg.App.Version,
	})

	bg, stop := context.WithCancel(context.Background())
	c := &Container{Config: cfg, stop: stop}

	if err := c.initInfrastructure(bg); err != nil {
		c.Cleanup()
		return nil, err
	}
	if err := c.initDomains(); err != nil {
		c.Cleanup()
		return nil, err
	}

	logger.Info("DI container ready", nil)
	return c, nil
}

func (c *Container) initInfrastructure(bg context.Context) error {
	cfg := c.Config

	// ========================================
	// DATABASE
	// ========================================
	db := database.NewPostgresDB(cfg.Database.DBConfig())

	ctx, cancel := context.WithTimeout(bg, 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	go db.MonitorPoolHealth(bg, time.Minute)

	if cfg.Database.AutoMigrate {
		applied, err := database.Migrate(ctx, db.Pool, migrations.FS())
		if err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("Database schema up to date", map[string]interface{}{
			"applied": applied,
		})
	}

	// ========================================
	// CACHE (token revocation store)
	// ========================================
	switch cfg.Auth.RevocationBackend {
	case config.RevocationRedis:
		client := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		rc := infraCache.NewRedisCache(client, cfg.Redis.Prefix)
		if err := rc.Connect(ctx); err != nil {
			_ = rc.Close()
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.Cache = rc
	default:
		mc := infraCache.NewMemoryCache()
		go mc.RunSweeper(bg, sweepInterval)
		c.Cache = mc
		logger.Warn("Using in-memory revocation store; revoked tokens are forgotten on restart", map[string]interface{}{
			"sweep_interval": sweepInterval.String(),
		})
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL())
	return nil
}

func (c *Container) initDomains() error {
	cfg := c.Config
	pool := c.DB.Pool

	iso, err := pkgDatabase.ParseIsoLevel(cfg.Database.TxIsolation)
	if err != nil {
		return fmt.Errorf("invalid DB_TX_ISOLATION: %w", err)
	}

	// Repositories
	c.BookRepo = bookRepo.NewRepository(pool)
	c.ReaderRepo = readerRepo.NewRepository(pool)
	c.LibrarianRepo = librarianRepo.NewRepository(pool)
	c.LoanRepo = loanRepo.NewRepository(pool,
		pgx.TxOptions{IsoLevel: iso},
		pkgDatabase.WithMaxAttempts(cfg.Database.TxMaxAttempts),
		pkgDatabase.WithBaseDelay(cfg.Database.TxBaseDelay),
		pkgDatabase.WithJitterFactor(cfg.Database.TxJitter),
	)

	// Services
	c.BookService = bookService.NewService(c.BookRepo)
	c.ReaderService = readerService.NewService(c.ReaderRepo, cfg.Reader.PhoneRegion)
	c.AuthService = librarianService.NewService(c.LibrarianRepo, c.JWTManager, librarianService.NewRevocationStore(c.Cache))
	c.LoanService = loanService.NewService(c.LoanRepo)

	// Handlers
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.ReaderHandler = readerHandler.NewHandler(c.ReaderService)
	c.AuthHandler = librarianHandler.NewHandler(c.AuthService)
	c.LoanHandler = loanHandler.NewHandler(c.LoanService)

	return nil
}

// Cleanup stops background work and closes connections. Safe to call on a partially built container.
func (c *Container) Cleanup() {
	logger.Info("Cleaning up resources", nil)

	if c.stop != nil {
		c.stop()
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error("Failed to close cache", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("Failed to close database", err)
		}
	}
}
