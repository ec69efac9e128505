package scheduler

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Config struct {
	ExpireSpec string `yaml:"expireSpec" envconfig:"SWEEP_EXPIRE_SPEC" default:"*/15 * * * *"`
	RemindSpec string `yaml:"remindSpec" envconfig:"SWEEP_REMIND_SPEC" default:"0 9 * * *"`
	RunOnStart bool   `yaml:"runOnStart" envconfig:"SWEEP_RUN_ON_START" default:"true"`
}

// Job is one sweep. The returned error is only logged; the next tick runs regardless.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
	stop context.CancelFunc
	jobs []namedJob
	wg   sync.WaitGroup
	log  *zap.Logger
}

type namedJob struct {
	name string
	job  Job
}

func New(log *zap.Logger) *Scheduler {
	l := log.Named("scheduler")
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger{log: l}),
			cron.WithChain(cron.Recover(cronLogger{log: l}), cron.SkipIfStillRunning(cronLogger{log: l})),
		),
		ctx:  ctx,
		stop: cancel,
		log:  l,
	}
}

func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return errors.Wrapf(err, "schedule %s %q", name, spec)
	}
	s.jobs = append(s.jobs, namedJob{name: name, job: job})
	s.log.Info("scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	s.wg.Add(1)
	defer s.wg.Done()
	if s.ctx.Err() != nil {
		return
	}
	if err := job(s.ctx); err != nil {
		s.log.Error("job failed", zap.String("job", name), zap.Error(err))
	}
}

// Start begins ticking. With runNow every job also runs once immediately, in the background.
func (s *Scheduler) Start(runNow bool) {
	if runNow {
		for _, j := range s.jobs {
			j := j
			go s.run(j.name, j.job)
		}
	}
	s.cron.Start()
}

// Stop stops ticking, cancels running jobs and waits for them until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	cronCtx := s.cron.Stop()
	s.stop()

	done := make(chan struct{})
	go func() {
		<-cronCtx.Done()
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, zap.Any("kv", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, zap.Error(err), zap.Any("kv", keysAndValues))
}
