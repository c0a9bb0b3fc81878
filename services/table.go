package services

import (
	"fmt"
	"strconv"

	"github.com/go-gota/gota/dataframe"

	"analytics-dashboard/models"
	"analytics-dashboard/utils"
)

// tableRow is the display form of a Record. Every cell is pre-formatted so
// the frame never reinterprets values (e.g. a user literally named "NA").
type tableRow struct {
	BetDay           string `dataframe:"bet_day,string"`
	APIName          string `dataframe:"api_name,string"`
	OrderType        string `dataframe:"order_type,string"`
	Name             string `dataframe:"name,string"`
	OrderNumber      string `dataframe:"order_number,string"`
	OrderAmount      string `dataframe:"order_amount,string"`
	NetAmount        string `dataframe:"net_amount,string"`
	ValidOrderAmount string `dataframe:"valid_order_amount,string"`
}

// TableService projects a selection onto the columns picked in the table view.
type TableService struct {
	logger *utils.Logger
}

func NewTableService(logger *utils.Logger) *TableService {
	return &TableService{logger: logger}
}

// SanitizeColumns keeps the known columns of requested, deduplicated, in the
// order they were requested.
func SanitizeColumns(requested []string) []string {
	known := make(map[string]struct{}, len(models.Columns))
	for _, c := range models.Columns {
		known[c] = struct{}{}
	}
	seen := make(map[string]struct{}, len(requested))
	result := make([]string, 0, len(requested))
	for _, c := range requested {
		if _, ok := known[c]; !ok {
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

// Project renders the selection restricted to columns. Unknown columns are
// ignored; no columns yields a view with no cells.
func (s *TableService) Project(selection models.Dataset, columns []string) (*models.TableView, error) {
	columns = SanitizeColumns(columns)
	view := &models.TableView{Columns: columns, Rows: [][]string{}}
	if len(columns) == 0 || len(selection) == 0 {
		return view, nil
	}

	rows := make([]tableRow, len(selection))
	for i, r := range selection {
		rows[i] = toTableRow(r)
	}

	df := dataframe.LoadStructs(rows, dataframe.NaNValues(nil))
	if df.Err != nil {
		return nil, fmt.Errorf("table: load frame: %w", df.Err)
	}
	df = df.Select(columns)
	if df.Err != nil {
		return nil, fmt.Errorf("table: select %v: %w", columns, df.Err)
	}

	records := df.Records()
	view.Rows = records[1:]
	s.logger.Debug("[table] projected %d rows onto %d columns", len(view.Rows), len(columns))
	return view, nil
}

func toTableRow(r models.Record) tableRow {
	betDay := ""
	if !r.BetDay.IsZero() {
		betDay = r.BetDay.Format("2006-01-02")
	}
	return tableRow{
		BetDay:           betDay,
		APIName:          r.APIName,
		OrderType:        r.OrderType,
		Name:             r.Name,
		OrderNumber:      strconv.FormatInt(r.OrderNumber, 10),
		OrderAmount:      formatAmount(r.OrderAmount),
		NetAmount:        formatAmount(r.NetAmount),
		ValidOrderAmount: formatAmount(r.ValidOrderAmount),
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
