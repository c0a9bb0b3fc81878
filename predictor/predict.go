package predictor

import (
	"fmt"
	"math"

	"analytics-dashboard/models"
)

// Predict runs one request through the model and rounds the estimate to
// cents. The feature vector is passed as-is; whatever encoding the
// categoricals need is the model's business.
func Predict(m Model, req models.PredictionRequest) (float64, error) {
	out, err := m.Predict([][]any{req.Features()})
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("predict: model returned %d outputs for 1 row", len(out))
	}
	return Round2(out[0]), nil
}

// Round2 rounds to 2 decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
