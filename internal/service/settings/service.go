package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SalonBookingService/internal/domain"
	settingsRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SalonBookingService/internal/service/settings/models"
	"github.com/m04kA/SalonBookingService/pkg/txmanager"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// Service сервис настроек салона
// В каждой таблице настроек активна не более одной записи; замена выполняется атомарно
type Service struct {
	settingsRepo     SettingsRepository
	txManager        TransactionManager
	defaultLeadHours int
	logger           Logger
}

// NewService создает новый экземпляр сервиса настроек
// defaultLeadHours используется, пока настройки напоминаний не сохранены
func NewService(settingsRepo SettingsRepository, txManager TransactionManager, defaultLeadHours int, logger Logger) *Service {
	if defaultLeadHours <= 0 {
		defaultLeadHours = domain.DefaultReminderLeadHours
	}
	return &Service{
		settingsRepo:     settingsRepo,
		txManager:        txManager,
		defaultLeadHours: defaultLeadHours,
		logger:           logger,
	}
}

// GetWorkingHours активное рабочее время или значения по умолчанию
func (s *Service) GetWorkingHours(ctx context.Context) (*models.WorkingHoursResponse, error) {
	wh, err := s.settingsRepo.GetActiveWorkingHours(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrWorkingHoursNotFound) {
			s.logger.Info("GetWorkingHours: no active row, using defaults")
			return models.FromDomainWorkingHours(domain.DefaultWorkingHours()), nil
		}
		s.logger.Error("GetWorkingHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetWorkingHours - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWorkingHours(wh.Normalize()), nil
}

// ReplaceWorkingHours заменяет активное рабочее время
func (s *Service) ReplaceWorkingHours(ctx context.Context, req *models.WorkingHoursRequest) (*models.WorkingHoursResponse, error) {
	s.logger.Info("ReplaceWorkingHours: start=%s, end=%s, interval=%d", req.StartTime, req.EndTime, req.SlotIntervalMinutes)

	wh, err := validateWorkingHours(req)
	if err != nil {
		s.logger.Warn("ReplaceWorkingHours: validation failed: %v", err)
		return nil, err
	}

	var saved *domain.WorkingHours
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		saved, err = s.settingsRepo.ReplaceWorkingHours(txCtx, wh)
		return err
	})
	if err != nil {
		return nil, s.replaceError("ReplaceWorkingHours", err)
	}

	s.logger.Info("ReplaceWorkingHours: active working hours id=%d", saved.ID)
	return models.FromDomainWorkingHours(saved), nil
}

// GetReminderSettings активные настройки напоминаний или значение по умолчанию
func (s *Service) GetReminderSettings(ctx context.Context) (*models.ReminderSettingsResponse, error) {
	rs, err := s.settingsRepo.GetActiveReminderSettings(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrReminderSettingsNotFound) {
			s.logger.Info("GetReminderSettings: no active row, using default lead %dh", s.defaultLeadHours)
			return models.FromDomainReminderSettings(&domain.ReminderSettings{
				LeadHours: s.defaultLeadHours,
				IsActive:  true,
				IsDefault: true,
			}), nil
		}
		s.logger.Error("GetReminderSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetReminderSettings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReminderSettings(rs), nil
}

// ReplaceReminderSettings заменяет активные настройки напоминаний
func (s *Service) ReplaceReminderSettings(ctx context.Context, req *models.ReminderSettingsRequest) (*models.ReminderSettingsResponse, error) {
	s.logger.Info("ReplaceReminderSettings: leadHours=%d", req.LeadHours)

	if req.LeadHours <= 0 || req.LeadHours > domain.MaxReminderLeadHours {
		s.logger.Warn("ReplaceReminderSettings: leadHours=%d out of range", req.LeadHours)
		return nil, fmt.Errorf("%w: leadHours must be in 1..%d", ErrInvalidInput, domain.MaxReminderLeadHours)
	}

	var saved *domain.ReminderSettings
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.settingsRepo.ReplaceReminderSettings(txCtx, &domain.ReminderSettings{LeadHours: req.LeadHours})
		return err
	})
	if err != nil {
		return nil, s.replaceError("ReplaceReminderSettings", err)
	}

	s.logger.Info("ReplaceReminderSettings: active reminder settings id=%d", saved.ID)
	return models.FromDomainReminderSettings(saved), nil
}

func (s *Service) replaceError(op string, err error) error {
	if errors.Is(err, txmanager.ErrSerializationFailure) {
		s.logger.Warn("%s: concurrent update: %v", op, err)
		return ErrConcurrentUpdate
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// validateWorkingHours проверяет границы и шаг рабочего дня
func validateWorkingHours(req *models.WorkingHoursRequest) (*domain.WorkingHours, error) {
	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}
	if !start.IsBefore(end) {
		return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	if req.SlotIntervalMinutes <= 0 || req.SlotIntervalMinutes > domain.MaxSlotIntervalMinutes {
		return nil, fmt.Errorf("%w: slotIntervalMinutes must be in 1..%d", ErrInvalidInput, domain.MaxSlotIntervalMinutes)
	}

	return &domain.WorkingHours{
		Start:        start,
		End:          end,
		SlotInterval: req.SlotIntervalMinutes,
	}, nil
}
