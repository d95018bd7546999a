package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SalonBookingService/internal/availability"
	"github.com/m04kA/SalonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SalonBookingService/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	settingsRepo SettingsRepository
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	maxDaysAhead int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// maxDaysAhead горизонт записи в днях, 0 без ограничения
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	settingsRepo SettingsRepository,
	notifier Notifier,
	txManager TransactionManager,
	timeProvider TimeProvider,
	maxDaysAhead int,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		settingsRepo: settingsRepo,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: timeProvider,
		maxDaysAhead: maxDaysAhead,
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка свободного времени и вставка выполняются в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: master=%d, procedure=%d, date=%s, time=%s",
		req.MasterID, req.ProcedureID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время салона
	now := uc.timeProvider.Now()

	// 3. Проверяем дату
	if err := validateDate(req.Date, now, uc.maxDaysAhead); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем мастера
	master, err := uc.catalogRepo.GetMaster(ctx, req.MasterID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrMasterNotFound) {
			uc.logger.Warn("CreateBooking: master id=%d not found", req.MasterID)
			return nil, ErrMasterNotFound
		}
		uc.logger.Error("CreateBooking: failed to get master id=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}
	if !master.IsActive {
		uc.logger.Warn("CreateBooking: master id=%d is inactive", req.MasterID)
		return nil, ErrMasterNotFound
	}

	// 5. Получаем процедуру
	procedure, err := uc.catalogRepo.GetProcedure(ctx, req.ProcedureID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProcedureNotFound) {
			uc.logger.Warn("CreateBooking: procedure id=%d not found", req.ProcedureID)
			return nil, ErrProcedureNotFound
		}
		uc.logger.Error("CreateBooking: failed to get procedure id=%d: %v", req.ProcedureID, err)
		return nil, fmt.Errorf("%w: failed to get procedure: %v", ErrInternal, err)
	}
	if !procedure.IsAvailable {
		uc.logger.Warn("CreateBooking: procedure id=%d is not available", req.ProcedureID)
		return nil, ErrProcedureNotFound
	}

	// 6. Проверяем, что мастер выполняет процедуру
	if !master.OffersProcedure(req.ProcedureID) {
		uc.logger.Warn("CreateBooking: master id=%d does not offer procedure id=%d", req.MasterID, req.ProcedureID)
		return nil, ErrProcedureNotOffered
	}

	duration := procedure.EffectiveDuration()

	var result *domain.Booking

	// 7. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Получаем рабочее время
		workingHours, err := uc.settingsRepo.GetActiveWorkingHours(txCtx)
		if err != nil && !errors.Is(err, settingsRepo.ErrWorkingHoursNotFound) {
			uc.logger.Error("CreateBooking: failed to get working hours: %v", err)
			return internalError("failed to get working hours", err)
		}

		// 7.2. Получаем блокирующие бронирования мастера на дату с блокировкой (FOR UPDATE)
		filter := domain.MasterBookingsFilter{
			MasterID:        req.MasterID,
			StartDate:       &req.Date,
			EndDate:         &req.Date,
			IncludeInactive: false,
			ForUpdate:       true,
		}
		bookings, err := uc.bookingRepo.GetByMasterWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return internalError("failed to get bookings", err)
		}

		// 7.3. Повторно проверяем время по актуальным данным
		err = availability.CheckStart(req.Date, req.StartTime, availability.BusyIntervals(bookings), workingHours, duration, now)
		if err != nil {
			if errors.Is(err, availability.ErrOverlap) {
				uc.logger.Warn("CreateBooking: slot %s is taken (bookings=%d)", req.StartTime, len(bookings))
				return ErrSlotNotAvailable
			}
			uc.logger.Warn("CreateBooking: time %s rejected: %v", req.StartTime, err)
			return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
		}

		// 7.4. Создаем бронирование с денормализацией данных
		booking := &domain.Booking{
			MasterID:           req.MasterID,
			ProcedureID:        req.ProcedureID,
			BookingDate:        req.Date,
			StartTime:          req.StartTime,
			DurationMinutes:    duration,
			Status:             domain.StatusPending,
			ClientName:         req.ClientName,
			ClientPhone:        req.ClientPhone,
			ClientEmail:        req.ClientEmail,
			NotificationMethod: domain.NotificationMethod(req.NotificationMethod),
			Notes:              req.Notes,
			MasterName:         master.Name,
			ProcedureTitle:     procedure.Title,
		}
		booking.ScheduleReminder()

		// 7.5. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: slot %s taken concurrently", req.StartTime)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return internalError("failed to create booking", err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateBooking: serialization conflict for master=%d, time=%s", req.MasterID, req.StartTime)
			return nil, ErrSlotNotAvailable
		}
		if errors.Is(err, txmanager.ErrBeginTx) || errors.Is(err, txmanager.ErrCommitTx) {
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, uid=%s", result.ID, result.UID)

	// 8. Уведомляем администратора после фиксации; ошибка не влияет на результат
	if uc.notifier != nil {
		if err := uc.notifier.NotifyAdminNewBooking(ctx, result); err != nil {
			uc.logger.Warn("CreateBooking: failed to notify admin about booking id=%d: %v", result.ID, err)
		}
	}

	return toResponse(result), nil
}

// internalError оборачивает ошибку в ErrInternal
// Конфликт сериализации возвращается как есть, чтобы транзакция повторилась
func internalError(what string, err error) error {
	if txmanager.IsSerializationFailure(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, what, err)
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                 b.ID,
		UID:                b.UID,
		MasterID:           b.MasterID,
		ProcedureID:        b.ProcedureID,
		BookingDate:        b.BookingDate,
		StartTime:          b.StartTime,
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		ClientName:         b.ClientName,
		ClientPhone:        b.ClientPhone,
		ClientEmail:        b.ClientEmail,
		NotificationMethod: string(b.NotificationMethod),
		Notes:              b.Notes,
		MasterName:         b.MasterName,
		ProcedureTitle:     b.ProcedureTitle,
		CreatedAt:          b.CreatedAt,
	}
}
