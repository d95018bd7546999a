package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidSchedule возвращается для некорректного cron-выражения
var ErrInvalidSchedule = errors.New("scheduler: invalid schedule")

// defaultRunTimeout ограничение одного прогона без распределенной блокировки
const defaultRunTimeout = 4 * time.Minute

// Scheduler запускает рассылку напоминаний по расписанию
// Пока предыдущий прогон не завершился, следующий пропускается
type Scheduler struct {
	cron   *cron.Cron
	job    ReminderJob
	locker Locker
	logger Logger

	runTimeout time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
}

// New создает планировщик; locker может быть nil, если экземпляр сервиса один
func New(spec string, location *time.Location, job ReminderJob, locker Locker, logger Logger) (*Scheduler, error) {
	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLocation(location),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:       c,
		job:        job,
		locker:     locker,
		logger:     logger,
		runTimeout: defaultRunTimeout,
		ctx:        ctx,
		cancel:     cancel,
	}
	// Прогон не должен пережить блокировку, иначе второй экземпляр начнет параллельную рассылку
	if locker != nil && locker.TTL() > 0 {
		s.runTimeout = locker.TTL()
	}

	if _, err := c.AddFunc(spec, func() { s.RunOnce(s.ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, spec, err)
	}

	return s, nil
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler: started, next run at %s", s.nextRun())
}

// Stop останавливает планировщик и ждет завершения текущего прогона
// Если ctx истек раньше, текущий прогон отменяется
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler: stop timeout, cancelling current run")
		s.cancel()
		<-done.Done()
	}
	s.cancel()
	s.logger.Info("Scheduler: stopped")
}

// RunOnce выполняет один прогон под блокировкой
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	if s.locker != nil {
		release, acquired, err := s.locker.TryLock(ctx)
		if err != nil {
			s.logger.Error("Scheduler: %v", err)
			return
		}
		if !acquired {
			s.logger.Info("Scheduler: reminder run is held by another instance, skipping")
			return
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("Scheduler: %v", err)
			}
		}()
	}

	start := time.Now()
	result, err := s.job.Execute(ctx)
	if err != nil {
		s.logger.Error("Scheduler: reminder run failed after %s: %v", time.Since(start), err)
		return
	}

	s.logger.Info("Scheduler: reminder run finished in %s: candidates=%d, due=%d, sent=%d, failed=%d, skipped=%d",
		time.Since(start), result.Candidates, result.Due, result.Sent, result.Failed, result.Skipped)
}

func (s *Scheduler) nextRun() string {
	entries := s.cron.Entries()
	if len(entries) == 0 || entries[0].Next.IsZero() {
		return "unknown"
	}
	return entries[0].Next.Format(time.RFC3339)
}

// cronLogger передает сообщения cron в логгер сервиса
type cronLogger struct {
	logger Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	// Из информационных сообщений cron логируется только пропуск запуска
	if msg == "skip" {
		l.logger.Warn("Scheduler: previous run still in progress, skipping %v", keysAndValues)
	}
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("Scheduler: %s: %v %v", msg, err, keysAndValues)
}
