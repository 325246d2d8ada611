package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"voyage-planner-service/internal/domain"
	"voyage-planner-service/internal/ports"
)

// ErrInvalidFeedback is returned when submitted actuals cannot describe the voyage.
var ErrInvalidFeedback = errors.New("invalid voyage feedback")

type FeedbackRequest struct {
	VoyageID        string
	ActualFuelKg    float64
	ActualArrivalAt time.Time
	Notes           string
}

// SubmitFeedback records what actually happened on a voyage and derives a
// fuel log from it, so the next training run can learn from the outcome.
// The observed burn rate is total fuel over hours between departure and arrival,
// at the speed the plan scheduled.
func SubmitFeedback(
	ctx context.Context,
	req FeedbackRequest,
	repo ports.VoyageRepository,
	now func() time.Time,
) (*domain.Voyage, error) {
	if req.ActualFuelKg <= 0 {
		return nil, fmt.Errorf("submit feedback: actual fuel must be positive: %w", ErrInvalidFeedback)
	}

	existing, err := repo.GetVoyage(ctx, req.VoyageID)
	if err != nil {
		return nil, fmt.Errorf("submit feedback: get voyage: %w", err)
	}

	hours := req.ActualArrivalAt.Sub(existing.DepartureTime).Hours()
	if hours <= 0 {
		return nil, fmt.Errorf("submit feedback: arrival %s is not after departure %s: %w",
			req.ActualArrivalAt.Format(time.RFC3339), existing.DepartureTime.Format(time.RFC3339), ErrInvalidFeedback)
	}

	v, err := repo.RecordActuals(ctx, req.VoyageID, domain.VoyageActuals{
		ETA:    req.ActualArrivalAt,
		FuelKg: req.ActualFuelKg,
		Notes:  req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("submit feedback: record actuals: %w", err)
	}

	log := domain.FuelLog{
		VoyageID:     v.ID,
		Timestamp:    now(),
		SpeedKph:     v.Plan.SpeedScheduleKph,
		FuelBurnRate: req.ActualFuelKg / hours,
	}
	if err := repo.CreateFuelLog(ctx, log); err != nil {
		return nil, fmt.Errorf("submit feedback: create fuel log: %w", err)
	}

	return v, nil
}
