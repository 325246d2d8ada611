package services

import (
	"context"
	"fmt"
	"math"
	"time"
	"voyage-planner-service/internal/domain"
	"voyage-planner-service/internal/regression"
)

const (
	// Assumed total serviceable engine hours.
	EngineLifespanHours = 5000.0
	// Hours since last service beyond which an engine is flagged without
	// consulting the model.
	CriticalThresholdHours = 3000.0
	// Predicted remaining hours below which maintenance should be scheduled.
	WarningThresholdHours = 500.0
)

// Largest magnitude of remaining hours that fits in a time.Duration.
const maxRemainingHours = float64(math.MaxInt64 / int64(time.Hour))

var (
	criticalReason = fmt.Sprintf("Engine has run for over %d hours since last service. Immediate inspection required.", int(CriticalThresholdHours))
	warningReason  = fmt.Sprintf("Predicted remaining engine life is less than %d hours. Schedule maintenance soon.", int(WarningThresholdHours))
	okReason       = "Engine operating within normal parameters."
)

// MaintenanceModel predicts remaining engine hours from accumulated engine hours.
type MaintenanceModel struct {
	predictor regression.Predictor
}

func NewMaintenanceModel(p regression.Predictor) *MaintenanceModel {
	return &MaintenanceModel{predictor: p}
}

// MaintenanceTrainingSet maps each record to ([totalEngineHours], lifespan - totalEngineHours).
func MaintenanceTrainingSet(records []domain.MaintenanceRecord) regression.TrainingSet {
	set := make(regression.TrainingSet, 0, len(records))
	for _, r := range records {
		set = append(set, regression.Example{
			Features: []float64{r.TotalEngineHours},
			Target:   EngineLifespanHours - r.TotalEngineHours,
		})
	}
	return set
}

func TrainMaintenanceModel(ctx context.Context, records []domain.MaintenanceRecord, cfg regression.Config) (*MaintenanceModel, *regression.Model, error) {
	m, err := regression.Fit(ctx, MaintenanceTrainingSet(records), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("train maintenance model: %w", err)
	}
	return NewMaintenanceModel(m), m, nil
}

// RemainingHours predicts how many engine hours are left before service.
func (m *MaintenanceModel) RemainingHours(totalEngineHours float64) (float64, error) {
	v, err := m.predictor.Predict([]float64{totalEngineHours})
	if err != nil {
		return 0, fmt.Errorf("predict remaining hours: %w", err)
	}
	return v, nil
}

// EvaluateMaintenance classifies an engine as OK, WARNING or CRITICAL.
//
// An engine more than CriticalThresholdHours past its last service is
// CRITICAL without consulting the model, so model may be nil on that path.
// Otherwise a nil model yields ErrModelUnready.
func EvaluateMaintenance(model *MaintenanceModel, totalEngineHours float64, lastService, now time.Time) (domain.MaintenanceAlert, error) {
	sinceService := now.Sub(lastService).Hours()
	if sinceService > CriticalThresholdHours {
		return domain.MaintenanceAlert{
			Level:  domain.AlertCritical,
			Reason: criticalReason,
		}, nil
	}

	if model == nil {
		return domain.MaintenanceAlert{}, fmt.Errorf("evaluate maintenance: %w", ErrModelUnready)
	}

	remaining, err := model.RemainingHours(totalEngineHours)
	if err != nil {
		return domain.MaintenanceAlert{}, fmt.Errorf("evaluate maintenance: %w", err)
	}

	if math.IsNaN(remaining) || math.Abs(remaining) > maxRemainingHours {
		return domain.MaintenanceAlert{}, fmt.Errorf("evaluate maintenance: predicted remaining hours %v out of range", remaining)
	}

	next := now.Add(time.Duration(remaining * float64(time.Hour)))
	if remaining < WarningThresholdHours {
		return domain.MaintenanceAlert{
			Level:                    domain.AlertWarning,
			PredictedNextServiceDate: &next,
			Reason:                   warningReason,
		}, nil
	}

	return domain.MaintenanceAlert{
		Level:                    domain.AlertOK,
		PredictedNextServiceDate: &next,
		Reason:                   okReason,
	}, nil
}
