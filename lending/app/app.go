package app

import (
	"context"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/lending-service/lending/config"
	"github.com/Astemirdum/lending-service/lending/internal/handler"
	"github.com/Astemirdum/lending-service/lending/internal/notify"
	"github.com/Astemirdum/lending-service/lending/internal/repository"
	"github.com/Astemirdum/lending-service/lending/internal/scheduler"
	"github.com/Astemirdum/lending-service/lending/internal/server"
	"github.com/Astemirdum/lending-service/lending/internal/service"
	"github.com/Astemirdum/lending-service/lending/migrations"
	"github.com/Astemirdum/lending-service/pkg/amqp"
	"github.com/Astemirdum/lending-service/pkg/circuit_breaker"
	"github.com/Astemirdum/lending-service/pkg/kafka"
	"github.com/Astemirdum/lending-service/pkg/logger"
	"github.com/Astemirdum/lending-service/pkg/postgres"
	"github.com/Astemirdum/lending-service/pkg/tracing"
)

const (
	serviceName = "lending"
	version     = "1.0.0"

	driverPostgres = "postgres"
	driverMemory   = "memory"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, serviceName)
	ctx := context.Background()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, serviceName, version)
	if err != nil {
		log.Fatal("tracing.Setup", zap.Error(err))
	}

	store, closeStore, err := newStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("store init", zap.Error(err))
	}

	notifier, closeNotifier, err := newNotifier(cfg, log)
	if err != nil {
		log.Fatal("notifier init", zap.Error(err))
	}
	notifier = notify.WithBreaker(notifier, circuit_breaker.NewWithConfig(cfg.Notify.Breaker))

	svc := service.NewService(store, notifier, cfg.Lending, log)

	sched := scheduler.New(log)
	if err = sched.Add("expire", cfg.Sweep.ExpireSpec, func(ctx context.Context) error {
		_, err := svc.ExpireOverdue(ctx)
		return err
	}); err != nil {
		log.Fatal("scheduler", zap.Error(err))
	}
	if err = sched.Add("remind", cfg.Sweep.RemindSpec, func(ctx context.Context) error {
		_, err := svc.SendReminders(ctx)
		return err
	}); err != nil {
		log.Fatal("scheduler", zap.Error(err))
	}
	sched.Start(cfg.Sweep.RunOnStart)

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case termSig := <-sig:
		log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	case <-gctx.Done():
		log.Error("server stopped, shutting down")
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if err = g.Wait(); err != nil {
		log.Error("server run", zap.Error(err))
	}
	if err = sched.Stop(closeCtx); err != nil {
		log.Error("sched.Stop", zap.Error(err))
	}
	if err = closeNotifier.Close(); err != nil {
		log.Error("notifier close", zap.Error(err))
	}
	closeStore()
	if err = shutdownTracing(closeCtx); err != nil {
		log.Error("tracing shutdown", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}

func newStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, func(), error) {
	switch cfg.Database.Driver {
	case driverMemory:
		log.Warn("in-memory storage, state is lost on restart")
		return repository.NewMemory(log), func() {}, nil
	case driverPostgres:
		db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgres(db, log), db.Close, nil
	default:
		return nil, nil, errors.Errorf("unknown db driver %q", cfg.Database.Driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newNotifier(cfg *config.Config, log *zap.Logger) (notify.Notifier, io.Closer, error) {
	switch cfg.Notify.Transport {
	case notify.TransportKafka:
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return nil, nil, errors.Wrap(err, "kafka.NewProducer")
		}
		return notify.NewKafka(producer, cfg.Kafka.Topic, log), producer, nil
	case notify.TransportAMQP:
		broker, err := amqp.NewBroker(cfg.AMQP, log)
		if err != nil {
			return nil, nil, errors.Wrap(err, "amqp.NewBroker")
		}
		if err = broker.DeclareAndBindQueue(cfg.AMQP.Queue, "notification.#"); err != nil {
			_ = broker.Close()
			return nil, nil, errors.Wrap(err, "amqp bind")
		}
		return notify.NewAMQP(broker), broker, nil
	case notify.TransportLog:
		return notify.NewLog(log), nopCloser{}, nil
	default:
		return nil, nil, errors.Errorf("unknown notify transport %q", cfg.Notify.Transport)
	}
}
