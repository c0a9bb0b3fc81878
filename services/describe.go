package services

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"analytics-dashboard/models"
)

// Describe summarises every numeric column of the selection: count, mean,
// sample standard deviation, min, quartiles and max. It returns nil for an
// empty selection. The standard deviation of a single row is NaN.
func Describe(selection models.Dataset) []models.ColumnStats {
	if len(selection) == 0 {
		return nil
	}

	result := make([]models.ColumnStats, 0, len(models.NumericColumns))
	for _, col := range models.NumericColumns {
		values := make([]float64, len(selection))
		for i, r := range selection {
			values[i], _ = r.Numeric(col)
		}
		sort.Float64s(values)

		result = append(result, models.ColumnStats{
			Column: col,
			Count:  len(values),
			Mean:   stat.Mean(values, nil),
			Std:    stat.StdDev(values, nil),
			Min:    values[0],
			Q25:    stat.Quantile(0.25, stat.LinInterp, values, nil),
			Median: stat.Quantile(0.5, stat.LinInterp, values, nil),
			Q75:    stat.Quantile(0.75, stat.LinInterp, values, nil),
			Max:    values[len(values)-1],
		})
	}
	return result
}
