// Package wire provides dependency injection for pledge.
// It creates singleton services with lazy initialization from the
// configuration passed to Configure.
package wire

import (
	"io"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/example/pledge/internal/adapters/cache"
	cliadapter "github.com/example/pledge/internal/adapters/cli"
	"github.com/example/pledge/internal/adapters/clock"
	"github.com/example/pledge/internal/adapters/sqlite"
	"github.com/example/pledge/internal/app"
	"github.com/example/pledge/internal/config"
	"github.com/example/pledge/internal/db"
	"github.com/example/pledge/internal/logger"
	"github.com/example/pledge/internal/ports/primary"
	"github.com/example/pledge/internal/ports/secondary"
)

var (
	cfg = config.Default()

	appLogger        *zap.Logger
	appClock         secondary.Clock
	sprintService    primary.SprintService
	reconcileService primary.ReconcileService
	ledgerService    primary.LedgerService
	dailyLogService  primary.DailyLogService
	reviewService    primary.ReviewService
	redisClient      *redis.Client
	once             sync.Once
)

// Configure sets the configuration used to build the services. It must be
// called before the first accessor.
func Configure(c *config.Config) {
	cfg = c
	if c.DBPath != "" {
		db.SetPath(c.DBPath)
	}
}

// Clock returns the configured clock.
func Clock() secondary.Clock {
	once.Do(initServices)
	return appClock
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	appLogger = logger.New(cfg.Env)

	systemClock, err := clock.NewSystem(cfg.Timezone)
	if err != nil {
		log.Fatalf("failed to initialize clock: %v", err)
	}
	appClock = systemClock

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Secondary ports: sqlite repositories sharing one connection.
	sprintRepo := sqlite.NewSprintRepository(database)
	ledgerRepo := sqlite.NewLedgerRepository(database)
	dailyLogRepo := sqlite.NewDailyLogRepository(database)
	store := sqlite.NewCommitmentStore(database)
	readCache := newCache(cfg.Cache)

	// Primary ports.
	sprintService = app.NewSprintService(sprintRepo, readCache, appLogger)
	reconcileService = app.NewReconcileService(store, readCache, appClock, appLogger)
	ledgerService = app.NewLedgerService(ledgerRepo, dailyLogRepo, sprintRepo, readCache, appClock, appLogger)
	dailyLogService = app.NewDailyLogService(dailyLogRepo, readCache, appLogger)
	reviewService = app.NewReviewService(sprintService, ledgerService, dailyLogService, sprintRepo, appClock)
}

func newCache(c config.CacheConfig) secondary.Cache {
	switch c.Backend {
	case config.CacheRedis:
		redisClient = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		return cache.NewRedis(redisClient, "pledge:", c.TTL)
	case config.CacheNone:
		return cache.Noop{}
	default:
		return cache.NewMemory(c.TTL)
	}
}

// Close flushes the logger and closes the database and cache connections.
func Close() error {
	if appLogger != nil {
		_ = appLogger.Sync()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	return db.Close()
}

// SprintAdapter returns a new SprintAdapter writing to out.
// Each call creates a new adapter (adapters are stateless translators).
func SprintAdapter(out io.Writer) *cliadapter.SprintAdapter {
	once.Do(initServices)
	return cliadapter.NewSprintAdapter(sprintService, reconcileService, out)
}

// LedgerAdapter returns a new LedgerAdapter writing to out.
func LedgerAdapter(out io.Writer) *cliadapter.LedgerAdapter {
	once.Do(initServices)
	return cliadapter.NewLedgerAdapter(ledgerService, dailyLogService, out)
}

// ReviewAdapter returns a new ReviewAdapter writing to out.
func ReviewAdapter(out io.Writer) *cliadapter.ReviewAdapter {
	once.Do(initServices)
	return cliadapter.NewReviewAdapter(reviewService, out)
}
