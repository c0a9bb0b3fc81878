package models

import "time"

// Column names of the testing_data table.
const (
	ColBetDay           = "bet_day"
	ColAPIName          = "api_name"
	ColOrderType        = "order_type"
	ColName             = "name"
	ColOrderNumber      = "order_number"
	ColOrderAmount      = "order_amount"
	ColNetAmount        = "net_amount"
	ColValidOrderAmount = "valid_order_amount"
)

// Columns lists every column of a Record in display order.
var Columns = []string{
	ColBetDay, ColAPIName, ColOrderType, ColName,
	ColOrderNumber, ColOrderAmount, ColNetAmount, ColValidOrderAmount,
}

// NumericColumns lists the columns that can be summed.
var NumericColumns = []string{
	ColOrderNumber, ColOrderAmount, ColNetAmount, ColValidOrderAmount,
}

// CategoricalColumns lists the columns that can be grouped on.
var CategoricalColumns = []string{ColAPIName, ColOrderType, ColName}

// Record is one row of the betting dataset. Records are never modified after
// they leave the data source.
type Record struct {
	BetDay           time.Time
	APIName          string
	OrderType        string
	Name             string
	OrderNumber      int64
	OrderAmount      float64
	NetAmount        float64
	ValidOrderAmount float64
}

// Dataset is an ordered sequence of records sharing the same schema.
type Dataset []Record

// Numeric returns the value of a numeric column and whether the column exists.
func (r Record) Numeric(column string) (float64, bool) {
	switch column {
	case ColOrderNumber:
		return float64(r.OrderNumber), true
	case ColOrderAmount:
		return r.OrderAmount, true
	case ColNetAmount:
		return r.NetAmount, true
	case ColValidOrderAmount:
		return r.ValidOrderAmount, true
	}
	return 0, false
}

// Category returns the value of a categorical column and whether the column exists.
func (r Record) Category(column string) (string, bool) {
	switch column {
	case ColAPIName:
		return r.APIName, true
	case ColOrderType:
		return r.OrderType, true
	case ColName:
		return r.Name, true
	}
	return "", false
}

// FilterSelection holds the sidebar choices. Both sets default to every
// distinct value observed in the dataset.
type FilterSelection struct {
	OrderTypes []string `json:"order_types"`
	APINames   []string `json:"api_names"`
}

// Metrics holds the metric cards shown on the home view.
type Metrics struct {
	ActiveUsers           int     `json:"active_users"`
	OrderNumberTotal      int64   `json:"order_number_total"`
	ValidOrderAmountTotal float64 `json:"valid_order_amount_total"`
	NetAmountTotal        float64 `json:"net_amount_total"`
}

// Breakdown is one category of a grouped aggregate.
type Breakdown struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// ColumnStats is a describe()-style summary of one numeric column.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// TableView is a projection of a dataset onto a set of columns, rendered as strings.
type TableView struct {
	Columns []string
	Rows    [][]string
}

// Summary bundles everything the home view shows for one selection.
type Summary struct {
	Metrics           Metrics     `json:"metrics"`
	OrderNumberByType []Breakdown `json:"order_number_by_type"`
	ValidAmountByType []Breakdown `json:"valid_order_amount_by_type"`
	Rows              int         `json:"rows"`
}
