package get_available_times

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SalonBookingService/internal/availability"
	"github.com/m04kA/SalonBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/settings"
)

// UseCase use case для получения свободного времени мастера на день
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	settingsRepo SettingsRepository
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	settingsRepo SettingsRepository,
	metrics MetricsRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		settingsRepo: settingsRepo,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case получения свободного времени
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableTimes: master=%d, procedure=%v, date=%s",
		req.MasterID, procedureLabel(req.ProcedureID), req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableTimes: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время салона
	now := uc.timeProvider.Now()

	// 3. Получаем мастера
	master, err := uc.catalogRepo.GetMaster(ctx, req.MasterID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrMasterNotFound) {
			uc.logger.Warn("GetAvailableTimes: master id=%d not found", req.MasterID)
			return nil, ErrMasterNotFound
		}
		uc.logger.Error("GetAvailableTimes: failed to get master id=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}
	if !master.IsActive {
		uc.logger.Warn("GetAvailableTimes: master id=%d is inactive", req.MasterID)
		return nil, ErrMasterNotFound
	}

	// 4. Получаем процедуру (если указана) для длительности
	var procedure *domain.Procedure
	if req.ProcedureID != nil {
		procedure, err = uc.catalogRepo.GetProcedure(ctx, *req.ProcedureID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrProcedureNotFound) {
				uc.logger.Warn("GetAvailableTimes: procedure id=%d not found", *req.ProcedureID)
				return nil, ErrProcedureNotFound
			}
			uc.logger.Error("GetAvailableTimes: failed to get procedure id=%d: %v", *req.ProcedureID, err)
			return nil, fmt.Errorf("%w: failed to get procedure: %v", ErrInternal, err)
		}
	}
	duration := procedure.EffectiveDuration()

	// 5. Получаем рабочее время салона
	workingHours, err := uc.settingsRepo.GetActiveWorkingHours(ctx)
	if err != nil && !errors.Is(err, settingsRepo.ErrWorkingHoursNotFound) {
		uc.logger.Error("GetAvailableTimes: failed to get working hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}
	if workingHours == nil {
		uc.logger.Info("GetAvailableTimes: using default working hours")
	}

	// 6. Получаем блокирующие бронирования мастера на дату
	filter := domain.MasterBookingsFilter{
		MasterID:        req.MasterID,
		StartDate:       &req.Date,
		EndDate:         &req.Date,
		IncludeInactive: false,
	}
	bookings, err := uc.bookingRepo.GetByMasterWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableTimes: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Вычисляем свободное время
	times := availability.ComputeAvailableStarts(
		req.Date,
		availability.BusyIntervals(bookings),
		workingHours,
		duration,
		now,
	)

	if uc.metrics != nil {
		uc.metrics.ObserveAvailableTimes(req.MasterID, len(times))
	}

	uc.logger.Info("GetAvailableTimes: %d free times for master=%d, date=%s (duration=%d, bookings=%d)",
		len(times), req.MasterID, req.Date.Format(domain.DateFormat), duration, len(bookings))

	return &Response{
		Date:     req.Date,
		MasterID: req.MasterID,
		Times:    times,
	}, nil
}

func procedureLabel(id *int64) string {
	if id == nil {
		return "default"
	}
	return fmt.Sprintf("%d", *id)
}
