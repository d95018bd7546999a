package send_reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
	settingsRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SalonBookingService/internal/reminders"
)

// Options параметры рассылки
type Options struct {
	DefaultLeadHours int            // если активных настроек нет
	ClaimBeforeSend  bool           // сначала пометить отправленным, затем отправлять
	Location         *time.Location // часовой пояс салона
}

// UseCase use case рассылки напоминаний о визитах
type UseCase struct {
	bookingRepo  BookingRepository
	settingsRepo SettingsRepository
	sender       Sender
	metrics      MetricsRecorder
	timeProvider TimeProvider
	opts         Options
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	settingsRepo SettingsRepository,
	sender Sender,
	metrics MetricsRecorder,
	timeProvider TimeProvider,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.DefaultLeadHours <= 0 {
		opts.DefaultLeadHours = domain.DefaultReminderLeadHours
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		settingsRepo: settingsRepo,
		sender:       sender,
		metrics:      metrics,
		timeProvider: timeProvider,
		opts:         opts,
		logger:       logger,
	}
}

// Execute выполняет один прогон рассылки
// Ошибка отправки одного напоминания не прерывает прогон: напоминание остается
// ожидающим и будет повторено следующим прогоном
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	started := time.Now()
	result, err := uc.run(ctx)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case result.Failed > 0:
		outcome = "partial"
	}
	uc.metrics.ObserveReminderRun(outcome, time.Since(started))

	return result, err
}

func (uc *UseCase) run(ctx context.Context) (*Result, error) {
	result := &Result{}

	// 1. Получаем настройки напоминаний
	settings, err := uc.reminderSettings(ctx)
	if err != nil {
		return result, err
	}

	// 2. Получаем кандидатов
	candidates, err := uc.bookingRepo.ListReminderCandidates(ctx)
	if err != nil {
		uc.logger.Error("SendReminders: failed to list candidates: %v", err)
		return result, fmt.Errorf("%w: failed to list candidates: %v", ErrInternal, err)
	}
	result.Candidates = len(candidates)

	// 3. Отбираем те, для которых наступило время напоминания
	now := uc.timeProvider.Now()
	due := reminders.SelectDue(candidates, settings, now, uc.opts.Location)
	result.Due = len(due)

	if len(due) == 0 {
		uc.logger.Info("SendReminders: nothing due (candidates=%d, lead=%dh)", result.Candidates, settings.LeadHours)
		return result, nil
	}

	uc.logger.Info("SendReminders: %d of %d candidates due (lead=%dh), ids=%v",
		result.Due, result.Candidates, settings.LeadHours, reminders.IDs(due))

	// 4. Отправляем по одному
	for _, b := range due {
		if ctx.Err() != nil {
			uc.logger.Warn("SendReminders: run interrupted: %v", ctx.Err())
			break
		}

		channel := string(b.NotificationMethod)
		var outcome outcome
		if uc.opts.ClaimBeforeSend {
			outcome = uc.claimAndSend(ctx, b)
		} else {
			outcome = uc.sendAndMark(ctx, b)
		}

		switch outcome {
		case outcomeSent:
			result.Sent++
			uc.metrics.ReminderSent(channel)
		case outcomeSkipped:
			result.Skipped++
			uc.metrics.ReminderSkipped(channel)
		case outcomeFailed:
			result.Failed++
			uc.metrics.ReminderFailed(channel)
		}
	}

	uc.logger.Info("SendReminders: done, sent=%d, failed=%d, skipped=%d", result.Sent, result.Failed, result.Skipped)

	return result, nil
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeSkipped
	outcomeFailed
)

// claimAndSend помечает напоминание отправленным и только затем отправляет;
// при неудаче отметка снимается
func (uc *UseCase) claimAndSend(ctx context.Context, b *domain.Booking) outcome {
	sentAt := uc.timeProvider.Now()

	claimed, err := uc.bookingRepo.MarkReminderSent(ctx, b.ID, sentAt)
	if err != nil {
		uc.logger.Error("SendReminders: failed to claim booking id=%d: %v", b.ID, err)
		return outcomeFailed
	}
	if !claimed {
		uc.logger.Info("SendReminders: booking id=%d already claimed or resolved, skipping", b.ID)
		return outcomeSkipped
	}

	if err := uc.sender.SendReminder(ctx, b); err != nil {
		uc.logger.Warn("SendReminders: failed to send reminder for booking id=%d via %s: %v",
			b.ID, b.NotificationMethod, err)

		// Откат выполняется даже при отмененном контексте прогона
		reverted, rerr := uc.bookingRepo.RevertReminderSent(context.WithoutCancel(ctx), b.ID, sentAt)
		if rerr != nil {
			uc.logger.Error("SendReminders: failed to revert claim for booking id=%d: %v", b.ID, rerr)
		} else if !reverted {
			uc.logger.Warn("SendReminders: claim for booking id=%d changed before revert", b.ID)
		}
		return outcomeFailed
	}

	b.MarkReminderSent(sentAt)
	uc.logger.Info("SendReminders: reminder sent for booking id=%d via %s", b.ID, b.NotificationMethod)
	return outcomeSent
}

// sendAndMark отправляет напоминание и помечает его отправленным после успеха
func (uc *UseCase) sendAndMark(ctx context.Context, b *domain.Booking) outcome {
	if err := uc.sender.SendReminder(ctx, b); err != nil {
		uc.logger.Warn("SendReminders: failed to send reminder for booking id=%d via %s: %v",
			b.ID, b.NotificationMethod, err)
		return outcomeFailed
	}

	sentAt := uc.timeProvider.Now()
	marked, err := uc.bookingRepo.MarkReminderSent(ctx, b.ID, sentAt)
	if err != nil {
		// Сообщение уже доставлено; следующий прогон отправит его повторно
		uc.logger.Error("SendReminders: reminder sent but failed to mark booking id=%d: %v", b.ID, err)
		return outcomeFailed
	}
	if !marked {
		uc.logger.Warn("SendReminders: booking id=%d was marked concurrently", b.ID)
	}

	b.MarkReminderSent(sentAt)
	uc.logger.Info("SendReminders: reminder sent for booking id=%d via %s", b.ID, b.NotificationMethod)
	return outcomeSent
}

// reminderSettings активные настройки или значение по умолчанию из конфигурации
func (uc *UseCase) reminderSettings(ctx context.Context) (*domain.ReminderSettings, error) {
	settings, err := uc.settingsRepo.GetActiveReminderSettings(ctx)
	if err != nil && !errors.Is(err, settingsRepo.ErrReminderSettingsNotFound) {
		uc.logger.Error("SendReminders: failed to get reminder settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get reminder settings: %v", ErrInternal, err)
	}

	if settings == nil || settings.LeadHours <= 0 {
		return &domain.ReminderSettings{
			LeadHours: uc.opts.DefaultLeadHours,
			IsActive:  true,
			IsDefault: true,
		}, nil
	}
	return settings, nil
}

type nopMetrics struct{}

func (nopMetrics) ReminderSent(string)                     {}
func (nopMetrics) ReminderFailed(string)                   {}
func (nopMetrics) ReminderSkipped(string)                  {}
func (nopMetrics) ObserveReminderRun(string, time.Duration) {}
