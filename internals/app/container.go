package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"uptime-monitor/config"
	middle "uptime-monitor/internals/middleware"
	"uptime-monitor/internals/modules/executor"
	"uptime-monitor/internals/modules/result"
	"uptime-monitor/internals/modules/schedule"
	"uptime-monitor/internals/modules/scheduler"
	"uptime-monitor/internals/modules/site"
	"uptime-monitor/internals/modules/user"
	"uptime-monitor/internals/security"
	"uptime-monitor/pkg/httpclient"
	"uptime-monitor/pkg/rabbitmq"
	"uptime-monitor/pkg/redisstore"
	"uptime-monitor/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// probeTimeoutMargin is added to the longest site timeout to bound one probe
// message: request, body read and result publish.
const probeTimeoutMargin = 15 * time.Second

const recordTimeout = 30 * time.Second

type Container struct {
	Cfg         *config.Config
	DB          *pgxpool.Pool
	RedisClient *redisstore.Client
	AMQP        *amqp091.Connection
	Logger      *zerolog.Logger

	UserSvc     *user.Service
	SiteSvc     *site.Service
	ScheduleSvc *schedule.Service

	Scheduler      *scheduler.Scheduler
	Executor       *executor.Executor
	Recorder       *result.Recorder
	ProbeConsumer  *rabbitmq.Consumer
	ResultConsumer *rabbitmq.Consumer

	probePub  *rabbitmq.Publisher
	resultPub *rabbitmq.Publisher

	userHandler     *user.Handler
	siteHandler     *site.Handler
	scheduleHandler *schedule.Handler
	historyHandler  *result.Handler
	authMW          *middle.AuthMiddleware
}

// NewContainer wires every module. With fabric set it also connects to
// RabbitMQ and builds the publishers, the prober, the recorder and their
// consumers; without it the scheduler only records triggers and is never
// started (migrate and seed).
func NewContainer(ctx context.Context, db *pgxpool.Pool, cfg *config.Config, logger *zerolog.Logger, fabric bool) (*Container, error) {
	redisClient, err := redisstore.New(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	c := &Container{
		Cfg:         cfg,
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,
	}

	var probes scheduler.Publisher = nopPublisher{}
	if fabric {
		if err := c.connectFabric(); err != nil {
			_ = c.Shutdown(ctx)
			return nil, err
		}
		probes = c.probePub
	}

	sch, err := scheduler.NewScheduler(scheduler.NewTriggerStore(db, logger), scheduler.NewQueueDispatcher(probes), &cfg.Scheduler, logger)
	if err != nil {
		_ = c.Shutdown(ctx)
		return nil, err
	}
	c.Scheduler = sch

	validator := utils.NewValidator()
	tokenSvc := security.NewTokenService(&cfg.Auth, cfg.ServiceName)
	history := result.NewRepository(db, logger)

	c.UserSvc = user.NewService(user.NewRepository(db, logger), tokenSvc)
	c.SiteSvc = site.NewService(site.NewRepository(db, logger), redisClient, sch, logger)
	c.ScheduleSvc = schedule.NewService(schedule.NewRepository(db, logger), c.SiteSvc, sch, logger)

	c.userHandler = user.NewHandler(c.UserSvc, validator)
	c.siteHandler = site.NewHandler(c.SiteSvc, validator)
	c.scheduleHandler = schedule.NewHandler(c.ScheduleSvc, validator)
	c.historyHandler = result.NewHandler(history)
	c.authMW = middle.NewAuthMiddleware(tokenSvc)

	if fabric {
		c.Executor = executor.NewExecutor(c.SiteSvc, c.resultPub, httpclient.NewHttpClient(httpclient.Options{
			UserAgent:           cfg.ServiceName,
			MaxIdleConnsPerHost: 4,
		}), cfg.Executor.MaxBodyBytes, logger)
		c.Recorder = result.NewRecorder(history, redisClient, logger)
	}

	return c, nil
}

func (c *Container) connectFabric() error {
	rmq := &c.Cfg.RabbitMQ

	conn, err := rabbitmq.NewConnection(rmq, c.Logger)
	if err != nil {
		return err
	}
	c.AMQP = conn

	if err := rabbitmq.SetupTopology(conn, rmq); err != nil {
		return fmt.Errorf("amqp topology: %w", err)
	}

	if c.probePub, err = rabbitmq.NewPublisher(conn, rmq.ExchangeName, rmq.ProbeRoutingKey, rmq.PublishAttempts); err != nil {
		return fmt.Errorf("probe publisher: %w", err)
	}
	if c.resultPub, err = rabbitmq.NewPublisher(conn, rmq.ExchangeName, rmq.ResultRoutingKey, rmq.PublishAttempts); err != nil {
		return fmt.Errorf("result publisher: %w", err)
	}

	if c.ProbeConsumer, err = rabbitmq.NewConsumer(conn, rmq.ProbeQueue, c.Cfg.Executor.WorkerCount, site.MaxTimeout+probeTimeoutMargin, c.Logger); err != nil {
		return fmt.Errorf("probe consumer: %w", err)
	}
	if c.ResultConsumer, err = rabbitmq.NewConsumer(conn, rmq.ResultQueue, c.Cfg.Recorder.WorkerCount, recordTimeout, c.Logger); err != nil {
		return fmt.Errorf("result consumer: %w", err)
	}
	return nil
}

// Shutdown releases everything in reverse order of dependency: consumers
// drain, the scheduler stops firing, then publishers and connections close.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	for _, cons := range []*rabbitmq.Consumer{c.ProbeConsumer, c.ResultConsumer} {
		if cons != nil {
			if err := cons.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("consumer: %w", err))
			}
		}
	}
	if c.Scheduler != nil {
		if err := c.Scheduler.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("scheduler: %w", err))
		}
	}
	for _, pub := range []*rabbitmq.Publisher{c.probePub, c.resultPub} {
		if pub != nil {
			if err := pub.Close(); err != nil {
				errs = append(errs, fmt.Errorf("publisher: %w", err))
			}
		}
	}
	if c.AMQP != nil && !c.AMQP.IsClosed() {
		if err := c.AMQP.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}

	return errors.Join(errs...)
}

// nopPublisher stands in for the probe publisher when there is no fabric.
type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, []byte) (string, error) {
	return "", errors.New("fabric not connected")
}
