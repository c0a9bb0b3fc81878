package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"analytics-dashboard/apperrors"
	"analytics-dashboard/models"
	"analytics-dashboard/utils"
)

// MetricsService computes the metric cards and chart breakdowns of a selection.
// Currency columns are summed as decimals so long selections do not drift.
type MetricsService struct {
	logger *utils.Logger
}

func NewMetricsService(logger *utils.Logger) *MetricsService {
	return &MetricsService{logger: logger}
}

// Summarize returns the distinct user count and the three column totals.
// An empty selection yields all zeros.
func (s *MetricsService) Summarize(selection models.Dataset) models.Metrics {
	var m models.Metrics
	if len(selection) == 0 {
		return m
	}

	users := make(map[string]struct{})
	valid := decimal.Zero
	net := decimal.Zero

	for _, r := range selection {
		users[r.Name] = struct{}{}
		m.OrderNumberTotal += r.OrderNumber
		valid = valid.Add(decimal.NewFromFloat(r.ValidOrderAmount))
		net = net.Add(decimal.NewFromFloat(r.NetAmount))
	}

	m.ActiveUsers = len(users)
	m.ValidOrderAmountTotal = valid.InexactFloat64()
	m.NetAmountTotal = net.InexactFloat64()
	return m
}

// BreakdownByType groups selection by groupColumn and sums valueColumn within
// each group. Only categories present in the selection appear; their order
// is first-seen and carries no meaning.
func (s *MetricsService) BreakdownByType(selection models.Dataset, valueColumn, groupColumn string) ([]models.Breakdown, error) {
	var probe models.Record
	if _, ok := probe.Numeric(valueColumn); !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%q is not a numeric column", valueColumn))
	}
	if _, ok := probe.Category(groupColumn); !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%q is not a categorical column", groupColumn))
	}

	result := make([]models.Breakdown, 0)
	if len(selection) == 0 {
		return result, nil
	}

	totals := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	for _, r := range selection {
		key, _ := r.Category(groupColumn)
		val, _ := r.Numeric(valueColumn)
		sum, exists := totals[key]
		if !exists {
			order = append(order, key)
		}
		totals[key] = sum.Add(decimal.NewFromFloat(val))
	}

	for _, key := range order {
		result = append(result, models.Breakdown{Category: key, Value: totals[key].InexactFloat64()})
	}
	return result, nil
}

// Generate builds the home view summary: metric cards, the order-number pie
// and the valid-amount bar, all grouped by order type.
func (s *MetricsService) Generate(selection models.Dataset) (*models.Summary, error) {
	pie, err := s.BreakdownByType(selection, models.ColOrderNumber, models.ColOrderType)
	if err != nil {
		return nil, err
	}
	bar, err := s.BreakdownByType(selection, models.ColValidOrderAmount, models.ColOrderType)
	if err != nil {
		return nil, err
	}

	summary := &models.Summary{
		Metrics:           s.Summarize(selection),
		OrderNumberByType: pie,
		ValidAmountByType: bar,
		Rows:              len(selection),
	}
	s.logger.Debug("[metrics] %d rows, %d active users, %d order types",
		summary.Rows, summary.Metrics.ActiveUsers, len(pie))
	return summary, nil
}
