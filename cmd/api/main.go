package main

import (
	"context"
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/application/account"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/application/dealer"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/audit"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/config"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/infrastructure/cache"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/infrastructure/encoding/avro"
	ginserver "github.com/Mkilord/java-intensive-y-lab-sub000/internal/infrastructure/http/gin"
	kafkainfra "github.com/Mkilord/java-intensive-y-lab-sub000/internal/infrastructure/messaging/kafka"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/infrastructure/persistence/memory"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/infrastructure/persistence/postgres"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/interfaces/http/handler"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/interfaces/http/router"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/metrics"
	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

type repos struct {
	cars   repository.CarRepository
	users  repository.UserRepository
	orders repository.OrderRepository
	audits repository.AuditRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	zlog, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, cleanup, err := buildRepos(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("storage init failed", logger.Error(err))
	}
	defer cleanup()

	sink := buildAuditSink(cfg, r.audits, zlog)
	defer func() { _ = sink.Close(context.Background()) }()

	dealerSvc := dealer.NewService(r.cars, r.users, r.orders, zlog)
	accountSvc := account.NewService(r.users, zlog)
	m := metrics.New(prometheus.DefaultRegisterer)

	if err := handler.RegisterValidators(); err != nil {
		zlog.Fatal("register validators failed", logger.Error(err))
	}

	engine := ginserver.NewEngine(cfg.App.Env)
	router.RegisterRoutes(engine, cfg.Auth.Secret, router.Handlers{
		Cars:   handler.NewCarHandler(dealerSvc, sink, m, zlog),
		Orders: handler.NewOrderHandler(dealerSvc, sink, m, zlog),
		Users:  handler.NewUserHandler(accountSvc, sink, zlog),
		Audit:  handler.NewAuditHandler(r.audits),
	})

	server := ginserver.NewServer(cfg.Server, engine)
	zlog.Info("starting api",
		logger.String("env", cfg.App.Env),
		logger.String("addr", cfg.Server.Address()),
	)
	if err := server.Run(); err != nil {
		zlog.Fatal("server run failed", logger.Error(err))
	}
}

// buildRepos selects the backing store: postgres plus redis caching normally,
// the in-memory store in the local env so the api runs without infrastructure.
func buildRepos(ctx context.Context, cfg *config.Config, zlog logger.Logger) (repos, func(), error) {
	if cfg.App.Env == "local" {
		store := memory.NewStore()
		return repos{
			cars:   store.Cars(),
			users:  store.Users(),
			orders: store.Orders(),
			audits: store.Audit(),
		}, func() {}, nil
	}

	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		return repos{}, nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return repos{}, nil, err
	}

	cars := repository.CarRepository(postgres.NewCarRepository(pool))
	orders := repository.OrderRepository(postgres.NewOrderRepository(pool))

	rdb, err := cache.ConnectRedis(cfg.Redis)
	if err != nil {
		zlog.Warn("redis unavailable, running without car cache", logger.Error(err))
	} else {
		cached := cache.NewCachedCarRepository(cars, rdb, cfg.Redis.CarTTL, zlog)
		cars = cached
		orders = cache.NewInvalidatingOrderRepository(orders, cached)
	}

	return repos{
		cars:   cars,
		users:  postgres.NewUserRepository(pool),
		orders: orders,
		audits: postgres.NewAuditRepository(pool),
	}, pool.Close, nil
}

// buildAuditSink publishes to kafka behind an async dispatcher, falling back
// to plain logging in the local env.
func buildAuditSink(cfg *config.Config, audits repository.AuditRepository, zlog logger.Logger) audit.Sink {
	if cfg.App.Env == "local" {
		return audit.NewLogSink(zlog)
	}

	codec, err := avro.NewCodec()
	if err != nil {
		zlog.Fatal("build avro codec failed", logger.Error(err))
	}

	producer, err := kafkainfra.NewAuditProducer(cfg.Kafka, codec, zlog)
	if err != nil {
		zlog.Fatal("kafka producer init failed", logger.Error(err))
	}

	consumer := kafkainfra.NewAuditConsumer(cfg.Kafka, codec, audits, zlog)
	go func() {
		if err := consumer.Start(context.Background()); err != nil {
			zlog.Error("kafka consumer stopped", logger.Error(err))
		}
	}()

	return audit.NewDispatcher(producer, zlog, 2, 512)
}
