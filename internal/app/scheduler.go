package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Auditor проверяет расписание на пересечения
type Auditor interface {
	AuditTimetable(ctx context.Context) ([]model.Overlap, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	auditor Auditor
	cron    *cron.Cron
	logger  *zap.Logger
}

// NewScheduler создаёт новый планировщик. spec - расписание в формате cron ("@daily", "0 3 * * *")
func NewScheduler(auditor Auditor, spec string, logger *zap.Logger) (*Scheduler, error) {
	cronLogger := cronLogger{logger: logger.Sugar()}

	s := &Scheduler{
		auditor: auditor,
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		)),
		logger: logger,
	}

	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse audit schedule %q: %w", spec, err)
	}

	return s, s.schedule(spec)
}

func (s *Scheduler) schedule(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.runAudit(context.Background())
	})
	if err != nil {
		return fmt.Errorf("add audit job: %w", err)
	}
	return nil
}

// Start запускает фоновые задачи и останавливает их при отмене ctx
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	// Первый запуск сразу при старте
	go s.runAudit(ctx)

	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop останавливает фоновые задачи и ждёт завершения текущей
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

// runAudit выполняет аудит и пишет найденные пересечения в лог
func (s *Scheduler) runAudit(ctx context.Context) {
	overlaps, err := s.auditor.AuditTimetable(ctx)
	if err != nil {
		s.logger.Error("Timetable audit failed", zap.Error(err))
		return
	}

	for _, o := range overlaps {
		s.logger.Warn("Timetable overlap detected",
			zap.String("dimension", string(o.Dimension)),
			zap.String("resource_id", o.ResourceID),
			zap.Int("weekday", int(o.Weekday)),
			zap.String("first_id", o.First.ReservationID.String()),
			zap.String("first_window", o.First.Start.Short()+"-"+o.First.End.Short()),
			zap.String("second_id", o.Second.ReservationID.String()),
			zap.String("second_window", o.Second.Start.Short()+"-"+o.Second.End.Short()),
		)
	}

	if len(overlaps) == 0 {
		s.logger.Info("Timetable audit clean")
	}
}

// cronLogger адаптирует zap к cron.Logger
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
