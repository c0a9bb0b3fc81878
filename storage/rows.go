package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"analytics-dashboard/apperrors"
	"analytics-dashboard/models"
)

// numberNoise matches thousands separators and whitespace in amounts sent as
// text, e.g. "1,200.50".
var numberNoise = regexp.MustCompile(`[,\s]`)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07",
}

// rawRow is one row exactly as the REST API returned it.
type rawRow map[string]json.RawMessage

// decodeRows validates the schema of every row and converts it to a Record.
// A row missing any of the expected columns is a schema error.
func decodeRows(raw []rawRow) (models.Dataset, error) {
	dataset := make(models.Dataset, 0, len(raw))
	for i, row := range raw {
		if missing := missingColumns(row); len(missing) > 0 {
			return nil, apperrors.NewSchemaError(fmt.Sprintf(
				"row %d is missing columns: %s", i, strings.Join(missing, ", ")))
		}

		rec, err := decodeRow(row)
		if err != nil {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("row %d: %v", i, err))
		}
		dataset = append(dataset, rec)
	}
	return dataset, nil
}

func missingColumns(row rawRow) []string {
	var missing []string
	for _, col := range models.Columns {
		if _, ok := row[col]; !ok {
			missing = append(missing, col)
		}
	}
	sort.Strings(missing)
	return missing
}

func decodeRow(row rawRow) (models.Record, error) {
	var rec models.Record
	var err error

	if rec.BetDay, err = parseDate(row[models.ColBetDay]); err != nil {
		return rec, fmt.Errorf("%s: %w", models.ColBetDay, err)
	}
	if rec.APIName, err = parseText(row[models.ColAPIName]); err != nil {
		return rec, fmt.Errorf("%s: %w", models.ColAPIName, err)
	}
	if rec.OrderType, err = parseText(row[models.ColOrderType]); err != nil {
		return rec, fmt.Errorf("%s: %w", models.ColOrderType, err)
	}
	if rec.Name, err = parseText(row[models.ColName]); err != nil {
		return rec, fmt.Errorf("%s: %w", models.ColName, err)
	}

	orderNumber, err := parseNumber(row[models.ColOrderNumber])
	if err != nil {
		return rec, fmt.Errorf("%s: %w", models.ColOrderNumber, err)
	}
	rec.OrderNumber = int64(orderNumber)

	if rec.OrderAmount, err = parseNumber(row[models.ColOrderAmount]); err != nil {
		return rec, fmt.Errorf("%s: %w", models.ColOrderAmount, err)
	}
	if rec.NetAmount, err = parseNumber(row[models.ColNetAmount]); err != nil {
		return rec, fmt.Errorf("%s: %w", models.ColNetAmount, err)
	}
	if rec.ValidOrderAmount, err = parseNumber(row[models.ColValidOrderAmount]); err != nil {
		return rec, fmt.Errorf("%s: %w", models.ColValidOrderAmount, err)
	}
	return rec, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// parseText accepts strings and, for loosely typed tables, bare numbers.
func parseText(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return normaliseText(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("expected text, got %s", string(raw))
}

// parseNumber accepts JSON numbers and numeric strings ("1,200.50"). Postgres
// numeric columns come back as strings from PostgREST.
func parseNumber(raw json.RawMessage) (float64, error) {
	if isNull(raw) {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("expected number, got %s", string(raw))
	}
	cleaned := numberNoise.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("expected number, got %q", s)
	}
	return v, nil
}

func parseDate(raw json.RawMessage) (time.Time, error) {
	if isNull(raw) {
		return time.Time{}, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("expected date, got %s", string(raw))
	}
	return parseDateString(s)
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
