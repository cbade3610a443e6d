package app

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/goblin-market/internal/config"
	"github.com/fsdevblog/goblin-market/internal/repository/pgrepo"
	"github.com/fsdevblog/goblin-market/internal/repository/redisrepo"
	"github.com/fsdevblog/goblin-market/internal/repository/repoargs"
	"github.com/fsdevblog/goblin-market/internal/service"
	"github.com/fsdevblog/goblin-market/internal/transport/api"
	"github.com/fsdevblog/goblin-market/internal/transport/api/middlewares"
	"github.com/fsdevblog/goblin-market/internal/transport/events"
	"github.com/fsdevblog/goblin-market/pkg/uow"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.WithFields(logrus.Fields{
		"address":    a.Config.RunAddress,
		"redis":      a.Config.RedisAddr != "",
		"kafka":      len(a.Config.KafkaBrokers) > 0,
		"migrations": a.Config.MigrationsDir,
	}).Info("starting app")

	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return errors.Wrap(connErr, "app run")
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return errors.Wrap(uowErr, "app run")
	}

	idempotencyStore, closeRedis, redisErr := a.initIdempotencyStore(notifyCtx)
	if redisErr != nil {
		return errors.Wrap(redisErr, "app run")
	}
	defer closeRedis()

	notifier, closeKafka, kafkaErr := a.initNotifier()
	if kafkaErr != nil {
		return errors.Wrap(kafkaErr, "app run")
	}
	defer closeKafka()

	services, sErr := service.Factory(unitOfWork, notifier)
	if sErr != nil {
		return errors.Wrap(sErr, "app run")
	}

	router, routerErr := api.New(api.RouterArgs{
		Logger:           a.Logger,
		LedgerService:    services.LedgerService,
		MarketService:    services.MarketService,
		Pinger:           conn,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   a.Config.IdempotencyTTL,
		ServiceTimeout:   a.Config.ServiceTimeout,
	})
	if routerErr != nil {
		return errors.Wrap(routerErr, "app run")
	}

	srv := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd
	}

	g, gCtx := errgroup.WithContext(notifyCtx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "http server shutdown")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err //nolint:wrapcheck
	}
	return notifyCtx.Err() //nolint:wrapcheck
}

// initIdempotencyStore подключает redis для ключей идемпотентности. Без адреса возвращает nil хранилище.
func (a *App) initIdempotencyStore(ctx context.Context) (middlewares.IdempotencyStore, func(), error) {
	if a.Config.RedisAddr == "" {
		a.Logger.Warn("redis address is not set, idempotency keys are disabled")
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: a.Config.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, errors.Wrapf(err, "ping redis %s", a.Config.RedisAddr)
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			a.Logger.WithError(err).Error("failed to close redis client")
		}
	}
	return redisrepo.NewIdempotencyRepository(client), closeFn, nil
}

// initNotifier поднимает kafka producer для событий маркета. Без брокеров события не публикуются.
func (a *App) initNotifier() (service.MarketNotifier, func(), error) {
	if len(a.Config.KafkaBrokers) == 0 {
		a.Logger.Warn("kafka brokers are not set, market events are disabled")
		return nil, func() {}, nil
	}

	producer, err := events.NewProducer(a.Config.KafkaBrokers)
	if err != nil {
		return nil, nil, errors.Wrap(err, "init kafka producer")
	}

	publisher := events.NewPublisher(producer, a.Config.KafkaTopic, a.Logger)
	closeFn := func() {
		if closeErr := publisher.Close(); closeErr != nil {
			a.Logger.WithError(closeErr).Error("failed to close kafka producer")
		}
	}
	return publisher, closeFn, nil
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.PlayerRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewPlayerRepository(dbtx)
		},
		repoargs.ListingRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewListingRepository(dbtx)
		},
		repoargs.AuditRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewAuditRepository(dbtx)
		},
	}
	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, errors.Wrapf(regErr, "init UOW: register %s", name)
		}
	}

	return unitOfWork, nil
}
