package slots

import (
	"fmt"
	"time"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	"github.com/smartwash/CW-SlotBookingService/internal/service/slots/models"
	"github.com/smartwash/CW-SlotBookingService/pkg/types"
)

// validateTimeWindow валидирует пару времен начала/конца и вместимость.
// Все проверки выполняются до любой записи в хранилище.
func validateTimeWindow(startTime, endTime string, maxCapacity int) (types.TimeString, types.TimeString, error) {
	start, err := types.NewTimeStringFromString(startTime)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid start time format, expected HH:MM", ErrInvalidInput)
	}

	end, err := types.NewTimeStringFromString(endTime)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid end time format, expected HH:MM", ErrInvalidInput)
	}

	if !end.IsAfter(start) {
		return "", "", fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	}

	if maxCapacity < domain.MinSlotCapacity || maxCapacity > domain.MaxSlotCapacity {
		return "", "", fmt.Errorf("%w: max capacity must be between %d and %d",
			ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity)
	}

	return start, end, nil
}

func validateCreateRequest(req *models.CreateSlotRequest) (types.TimeString, types.TimeString, error) {
	if req.ServiceID <= 0 {
		return "", "", fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return "", "", fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return validateTimeWindow(req.StartTime, req.EndTime, req.MaxCapacity)
}

func validateUpdateRequest(req *models.UpdateSlotRequest) (types.TimeString, types.TimeString, error) {
	if req.SlotID <= 0 {
		return "", "", fmt.Errorf("%w: slot id must be positive", ErrInvalidInput)
	}
	return validateTimeWindow(req.StartTime, req.EndTime, req.MaxCapacity)
}

func validateGenerateRequest(req *models.GenerateSlotsRequest) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: start date and end date are required", ErrInvalidInput)
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: end date must not be before start date", ErrInvalidInput)
	}
	if req.EndDate.Sub(req.StartDate) > maxGenerationRange {
		return fmt.Errorf("%w: date range must not exceed %d days", ErrInvalidInput, maxGenerationRangeDays)
	}
	return nil
}

const (
	maxGenerationRangeDays = 92
	maxGenerationRange     = maxGenerationRangeDays * 24 * time.Hour
)
