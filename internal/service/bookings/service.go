package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SalonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SalonBookingService/internal/notifications"
	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	adminChatID  int64
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
// adminChatID чат администратора, которому разрешены действия по любой записи (0 если нет)
func NewService(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	notifier Notifier,
	txManager TransactionManager,
	timeProvider TimeProvider,
	adminChatID int64,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: timeProvider,
		adminChatID:  adminChatID,
		logger:       logger,
	}
}

// GetByUID получает бронирование по публичному идентификатору
func (s *Service) GetByUID(ctx context.Context, uid uuid.UUID) (*models.BookingResponse, error) {
	s.logger.Info("GetByUID: fetching booking uid=%s", uid)

	booking, err := s.bookingRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByUID: booking uid=%s not found", uid)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByUID: repository error for booking uid=%s: %v", uid, err)
		return nil, fmt.Errorf("%w: GetByUID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// ListByMasterAndDate получает бронирования мастера, опционально на дату
func (s *Service) ListByMasterAndDate(ctx context.Context, req *models.GetMasterBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("ListByMasterAndDate: fetching bookings for master=%d", req.MasterID)
	if req.Date != nil {
		logMsg += fmt.Sprintf(", date=%s", req.Date.Format(domain.DateFormat))
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if req.MasterID <= 0 {
		return nil, fmt.Errorf("%w: masterID must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByMasterAndDate: invalid filter for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByMasterWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByMasterAndDate: repository error for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: ListByMasterAndDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByMasterAndDate: successfully fetched %d bookings for master=%d", len(bookings), req.MasterID)
	return models.FromDomainBookingList(bookings), nil
}

// ListByClientPhone получает историю бронирований клиента по телефону
func (s *Service) ListByClientPhone(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	phone, err := domain.NormalizePhone(req.Phone)
	if err != nil {
		s.logger.Warn("ListByClientPhone: invalid phone %q", req.Phone)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var status *domain.BookingStatus
	if req.Status != nil {
		st, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListByClientPhone: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &st
	}

	bookings, err := s.bookingRepo.GetByClientPhone(ctx, phone, status)
	if err != nil {
		s.logger.Error("ListByClientPhone: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByClientPhone - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByClientPhone: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// ConfirmByMaster подтверждение записи мастером или администратором
// Подтвержденная запись ждет напоминания; уже отправленное напоминание не сбрасывается
func (s *Service) ConfirmByMaster(ctx context.Context, uid uuid.UUID, chatID int64) (*models.BookingResponse, error) {
	s.logger.Info("ConfirmByMaster: booking uid=%s by chat=%d", uid, chatID)

	booking, err := s.transition(ctx, "ConfirmByMaster", uid, func(txCtx context.Context, b *domain.Booking, now time.Time) (bool, error) {
		if err := s.authorize(txCtx, b, chatID); err != nil {
			return false, err
		}
		if !b.CanBeConfirmed() {
			return false, ErrCannotConfirm
		}
		b.Status = domain.StatusConfirmed
		b.ConfirmedAt = &now
		b.ScheduleReminder()
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "ConfirmByMaster", booking, notifications.KindConfirmed)
	return models.FromDomainBooking(booking), nil
}

// CancelByMaster отмена записи мастером или администратором
func (s *Service) CancelByMaster(ctx context.Context, uid uuid.UUID, chatID int64) (*models.BookingResponse, error) {
	s.logger.Info("CancelByMaster: booking uid=%s by chat=%d", uid, chatID)

	booking, err := s.transition(ctx, "CancelByMaster", uid, func(txCtx context.Context, b *domain.Booking, now time.Time) (bool, error) {
		if err := s.authorize(txCtx, b, chatID); err != nil {
			return false, err
		}
		if !b.CanBeCancelled() {
			return false, ErrCannotCancel
		}
		b.Status = domain.StatusCancelled
		b.CancelledAt = &now
		b.NeedsConfirmation = false
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "CancelByMaster", booking, notifications.KindCancelled)
	return models.FromDomainBooking(booking), nil
}

// ConfirmFromReminder подтверждение визита клиентом по кнопке напоминания
// Повторное подтверждение ничего не меняет
func (s *Service) ConfirmFromReminder(ctx context.Context, uid uuid.UUID) (*models.BookingResponse, error) {
	s.logger.Info("ConfirmFromReminder: booking uid=%s", uid)

	changed := false
	booking, err := s.transition(ctx, "ConfirmFromReminder", uid, func(_ context.Context, b *domain.Booking, now time.Time) (bool, error) {
		if !b.IsReminderEligible() {
			return false, ErrCannotConfirm
		}
		if b.Status == domain.StatusConfirmed && !b.NeedsConfirmation {
			return false, nil
		}
		b.ConfirmByClient(now)
		changed = true
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.notify(ctx, "ConfirmFromReminder", booking, notifications.KindConfirmed)
	}
	return models.FromDomainBooking(booking), nil
}

// CancelFromReminder отмена визита клиентом по кнопке напоминания
func (s *Service) CancelFromReminder(ctx context.Context, uid uuid.UUID) (*models.BookingResponse, error) {
	s.logger.Info("CancelFromReminder: booking uid=%s", uid)

	booking, err := s.transition(ctx, "CancelFromReminder", uid, func(_ context.Context, b *domain.Booking, now time.Time) (bool, error) {
		if !b.CanBeCancelled() {
			return false, ErrCannotCancel
		}
		b.CancelByClient(now)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "CancelFromReminder", booking, notifications.KindCancelled)
	return models.FromDomainBooking(booking), nil
}

// MarkSent помечает напоминание отправленным
// Возвращает ErrReminderAlreadySent, если напоминание уже отправлено или не ожидается
func (s *Service) MarkSent(ctx context.Context, id int64) error {
	marked, err := s.bookingRepo.MarkReminderSent(ctx, id, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("MarkSent: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: MarkSent - repository error: %v", ErrInternal, err)
	}
	if marked {
		s.logger.Info("MarkSent: booking id=%d marked as reminded", id)
		return nil
	}

	// Различаем отсутствующую запись и уже отправленное напоминание
	if _, err := s.bookingRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("%w: MarkSent - repository error: %v", ErrInternal, err)
	}

	s.logger.Warn("MarkSent: booking id=%d reminder already sent or not scheduled", id)
	return ErrReminderAlreadySent
}

// transition загружает запись с блокировкой, применяет изменение и сохраняет его в одной транзакции
// apply возвращает false, если сохранять нечего
func (s *Service) transition(
	ctx context.Context,
	op string,
	uid uuid.UUID,
	apply func(ctx context.Context, b *domain.Booking, now time.Time) (bool, error),
) (*domain.Booking, error) {
	var result *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByUIDForUpdate(txCtx, uid)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("%s: booking uid=%s not found", op, uid)
				return ErrBookingNotFound
			}
			s.logger.Error("%s: repository error for booking uid=%s: %v", op, uid, err)
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}

		changed, err := apply(txCtx, booking, s.timeProvider.Now())
		if err != nil {
			s.logger.Warn("%s: booking uid=%s (status=%s) rejected: %v", op, uid, booking.Status, err)
			return err
		}

		if changed {
			if err := s.bookingRepo.UpdateState(txCtx, booking); err != nil {
				s.logger.Error("%s: failed to update booking uid=%s: %v", op, uid, err)
				return fmt.Errorf("%w: %s - update error: %v", ErrInternal, op, err)
			}
		}

		result = booking
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrAccessDenied) ||
			errors.Is(err, ErrCannotCancel) || errors.Is(err, ErrCannotConfirm) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("%s: transaction failed for booking uid=%s: %v", op, uid, err)
		return nil, fmt.Errorf("%w: %s - transaction error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: booking uid=%s is now %s (reminder=%s)", op, uid, result.Status, result.ReminderState())
	return result, nil
}

// authorize проверяет, что чат принадлежит мастеру записи или администратору
func (s *Service) authorize(ctx context.Context, b *domain.Booking, chatID int64) error {
	if chatID == 0 {
		return ErrAccessDenied
	}
	if s.adminChatID != 0 && chatID == s.adminChatID {
		return nil
	}

	master, err := s.catalogRepo.GetMaster(ctx, b.MasterID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrMasterNotFound) {
			return ErrAccessDenied
		}
		return fmt.Errorf("%w: authorize - failed to get master: %v", ErrInternal, err)
	}

	if master.TelegramChatID != nil && *master.TelegramChatID == chatID {
		return nil
	}

	s.logger.Warn("authorize: chat=%d is not master=%d or admin", chatID, b.MasterID)
	return ErrAccessDenied
}

// notify уведомляет клиента после фиксации; ошибка только логируется
func (s *Service) notify(ctx context.Context, op string, b *domain.Booking, kind notifications.Kind) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyClient(ctx, b, kind); err != nil {
		s.logger.Warn("%s: failed to notify client about booking id=%d: %v", op, b.ID, err)
	}
}
