package services

import (
	"analytics-dashboard/models"
	"analytics-dashboard/utils"
)

// Predicate reports whether a record belongs to a selection.
type Predicate func(models.Record) bool

// FilterEngine narrows a dataset to the sidebar selection.
type FilterEngine struct {
	logger *utils.Logger
}

// NewFilterEngine creates a FilterEngine with the given logger.
func NewFilterEngine(logger *utils.Logger) *FilterEngine {
	return &FilterEngine{logger: logger}
}

// Apply returns the rows whose order_type is in orderTypes AND whose api_name
// is in apiNames. An empty set matches nothing. The input is never modified
// and relative row order is kept.
func (f *FilterEngine) Apply(dataset models.Dataset, orderTypes, apiNames []string) models.Dataset {
	return Where(dataset, And(
		In(models.ColOrderType, orderTypes),
		In(models.ColAPIName, apiNames),
	))
}

// ApplySelection is Apply for a FilterSelection.
func (f *FilterEngine) ApplySelection(dataset models.Dataset, sel models.FilterSelection) models.Dataset {
	result := f.Apply(dataset, sel.OrderTypes, sel.APINames)
	f.logger.Debug("[filter] %d of %d rows match %d order types / %d api names",
		len(result), len(dataset), len(sel.OrderTypes), len(sel.APINames))
	return result
}

// DefaultSelection selects every distinct value of both filter columns.
func (f *FilterEngine) DefaultSelection(dataset models.Dataset) models.FilterSelection {
	return models.FilterSelection{
		OrderTypes: DistinctValues(dataset, models.ColOrderType),
		APINames:   DistinctValues(dataset, models.ColAPIName),
	}
}

// Resolve turns a stored selection into one valid for the current dataset.
// A nil selection means the default; otherwise values no longer present in
// the dataset are dropped so the selection stays a subset of the options.
func (f *FilterEngine) Resolve(dataset models.Dataset, stored *models.FilterSelection) models.FilterSelection {
	if stored == nil {
		return f.DefaultSelection(dataset)
	}
	return models.FilterSelection{
		OrderTypes: intersect(stored.OrderTypes, DistinctValues(dataset, models.ColOrderType)),
		APINames:   intersect(stored.APINames, DistinctValues(dataset, models.ColAPIName)),
	}
}

// Where returns the records satisfying pred, in order, as a new slice.
func Where(dataset models.Dataset, pred Predicate) models.Dataset {
	result := make(models.Dataset, 0, len(dataset))
	for _, r := range dataset {
		if pred(r) {
			result = append(result, r)
		}
	}
	return result
}

// In matches records whose categorical column holds one of values.
// An unknown column never matches.
func In(column string, values []string) Predicate {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(r models.Record) bool {
		val, ok := r.Category(column)
		if !ok {
			return false
		}
		_, hit := set[val]
		return hit
	}
}

// And combines predicates; all of them must hold.
func And(preds ...Predicate) Predicate {
	return func(r models.Record) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// DistinctValues returns the deduplicated values of a categorical column in
// first-seen order. The order carries no meaning.
func DistinctValues(dataset models.Dataset, column string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, r := range dataset {
		val, ok := r.Category(column)
		if !ok {
			return result
		}
		if _, dup := seen[val]; dup {
			continue
		}
		seen[val] = struct{}{}
		result = append(result, val)
	}
	return result
}

// intersect keeps the values of chosen that also appear in options,
// deduplicated, in chosen's order.
func intersect(chosen, options []string) []string {
	allowed := make(map[string]struct{}, len(options))
	for _, o := range options {
		allowed[o] = struct{}{}
	}
	seen := make(map[string]struct{}, len(chosen))
	result := make([]string, 0, len(chosen))
	for _, c := range chosen {
		if _, ok := allowed[c]; !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, c)
	}
	return result
}
