package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"interviewai-backend/internal/ai"
	"interviewai-backend/internal/app"
	"interviewai-backend/internal/cache"
	"interviewai-backend/internal/config"
	"interviewai-backend/internal/index"
	"interviewai-backend/internal/model"
	mysqlClient "interviewai-backend/internal/platform/mysql"
	rabbitmqClient "interviewai-backend/internal/platform/rabbitmq"
	redisClient "interviewai-backend/internal/platform/redis"
	"interviewai-backend/internal/repository"
	"interviewai-backend/internal/worker"
)

type App struct {
	Config      *config.Config
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	Gateway     index.Gateway
	AuditWorker *worker.AuditPersistWorker
	Sweeper     *worker.RetentionSweeper

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.User{},
		&model.Document{},
		&model.Session{},
		&model.Segment{},
		&model.Suggestion{},
		&model.AuditEvent{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	gateway := newIndexGateway(cfg)

	auditRepo := repository.NewAuditEventRepository(mysqlDB)
	auditWorker := worker.NewAuditPersistWorker(mqConn, auditRepo, cfg.RabbitMQ.AuditPersistQueue)
	if err := auditWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start audit worker failed: %w", err)
	}

	userRepo := repository.NewUserRepository(mysqlDB)
	summaryCache := cache.NewSummaryCache(redisCli, time.Duration(cfg.Redis.SummaryTTLSeconds)*time.Second)
	privacyService := app.NewPrivacyService(mysqlDB, userRepo, gateway, summaryCache, cfg.Privacy.MaxRetentionHours)
	sweepService := app.NewSweepService(userRepo, privacyService)

	sweeper := worker.NewRetentionSweeper(sweepService, time.Duration(cfg.Privacy.SweepIntervalMinutes)*time.Minute)
	sweeper.Start(ctx)

	return &App{
		Config:      cfg,
		MySQL:       mysqlDB,
		Redis:       redisCli,
		MQConn:      mqConn,
		Gateway:     gateway,
		AuditWorker: auditWorker,
		Sweeper:     sweeper,
		StartedAt:   time.Now(),
	}, nil
}

// newIndexGateway falls back to the no-op gateway when the embedding
// backend is not configured, so the rest of the system keeps working
// without a vector index.
func newIndexGateway(cfg *config.Config) index.Gateway {
	if cfg.Index.EmbeddingAPIKey == "" {
		log.Printf("index: embedding backend not configured, vector index disabled")
		return index.Noop{}
	}
	gateway, err := index.NewChromemGateway(
		cfg.Index.PersistPath,
		cfg.Index.Collection,
		ai.NewEmbeddingClient(),
		ai.EmbeddingConfig{
			BaseURL: cfg.Index.EmbeddingBaseURL,
			APIKey:  cfg.Index.EmbeddingAPIKey,
			Model:   cfg.Index.EmbeddingModel,
		},
	)
	if err != nil {
		log.Printf("index: open vector store failed, vector index disabled: %v", err)
		return index.Noop{}
	}
	return gateway
}

func (a *App) Close() error {
	var closeErr error
	if a.Sweeper != nil {
		a.Sweeper.Close()
	}
	if a.AuditWorker != nil {
		a.AuditWorker.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
