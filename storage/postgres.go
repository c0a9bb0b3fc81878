package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"analytics-dashboard/apperrors"
	"analytics-dashboard/models"
	"analytics-dashboard/utils"
)

// Postgres error codes that mean the table does not look like testing_data.
const (
	pqUndefinedColumn = "42703"
	pqUndefinedTable  = "42P01"
)

// PostgresSource reads testing_data straight from the Postgres database
// behind the hosted store.
type PostgresSource struct {
	db     *sql.DB
	table  string
	logger *utils.Logger
}

// NewPostgresSource opens a connection, waits for the database to answer and
// returns a ready-to-use PostgresSource. The schema is owned elsewhere; no
// migrations run here.
func NewPostgresSource(ctx context.Context, dsn, table string, retry *utils.RetryConfig, logger *utils.Logger) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	err = retry.Do(ctx, "postgres ping", func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		_ = db.Close()
		return nil, apperrors.NewConnectivityError("postgres: ping", err)
	}

	return NewPostgresSourceFromDB(db, table, logger), nil
}

// NewPostgresSourceFromDB wraps an already opened handle.
func NewPostgresSourceFromDB(db *sql.DB, table string, logger *utils.Logger) *PostgresSource {
	return &PostgresSource{db: db, table: table, logger: logger}
}

func (ps *PostgresSource) selectQuery() (string, []interface{}, error) {
	cols := make([]interface{}, len(models.Columns))
	for i, c := range models.Columns {
		cols[i] = c
	}
	return goqu.Dialect("postgres").From(ps.table).Select(cols...).ToSQL()
}

// FetchAll retrieves every row of the table, unordered and unfiltered.
func (ps *PostgresSource) FetchAll(ctx context.Context) (models.Dataset, error) {
	start := time.Now()

	query, args, err := ps.selectQuery()
	if err != nil {
		return nil, fmt.Errorf("postgres: build select: %w", err)
	}

	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(ps.table, err)
	}
	defer rows.Close()

	dataset := make(models.Dataset, 0)
	for rows.Next() {
		var (
			betDay                              sql.NullString
			apiName, orderType, name            sql.NullString
			orderNumber                         sql.NullFloat64
			orderAmount, netAmount, validAmount sql.NullFloat64
		)
		if err := rows.Scan(
			&betDay, &apiName, &orderType, &name,
			&orderNumber, &orderAmount, &netAmount, &validAmount,
		); err != nil {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("postgres: scan %s row: %v", ps.table, err))
		}

		day, err := parseDateString(betDay.String)
		if err != nil {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("postgres: %s: %v", models.ColBetDay, err))
		}

		dataset = append(dataset, models.Record{
			BetDay:           day,
			APIName:          normaliseText(apiName.String),
			OrderType:        normaliseText(orderType.String),
			Name:             normaliseText(name.String),
			OrderNumber:      int64(orderNumber.Float64),
			OrderAmount:      orderAmount.Float64,
			NetAmount:        netAmount.Float64,
			ValidOrderAmount: validAmount.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, classify(ps.table, err)
	}

	ps.logger.Info("[gateway] fetched %d rows from postgres %s in %v", len(dataset), ps.table, time.Since(start))
	return dataset, nil
}

// classify maps driver errors onto the dashboard's error kinds.
func classify(table string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUndefinedColumn, pqUndefinedTable:
			return apperrors.NewSchemaError(fmt.Sprintf("postgres: %s: %s", table, pqErr.Message))
		}
	}
	return apperrors.NewConnectivityError("postgres: query "+table, err)
}

func (ps *PostgresSource) Close() error {
	return ps.db.Close()
}
