package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-dashboard/apperrors"
	"analytics-dashboard/models"
	"analytics-dashboard/utils"
)

const selectPattern = `SELECT "bet_day", "api_name", "order_type", "name", "order_number", "order_amount", "net_amount", "valid_order_amount" FROM "testing_data"`

func setupMockSource(t *testing.T) (*PostgresSource, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresSourceFromDB(db, "testing_data", utils.NewLogger()), mock
}

func TestPostgresFetchAll(t *testing.T) {
	src, mock := setupMockSource(t)

	rows := sqlmock.NewRows(models.Columns).
		AddRow("2024-03-01", "pg", "A", "u1", int64(2), 110.0, 90.0, 100.0).
		AddRow(nil, "ag", "B", "u2", "3", "55.5", nil, 50.0)
	mock.ExpectQuery(selectPattern).WillReturnRows(rows)

	got, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "u1", got[0].Name)
	assert.Equal(t, int64(2), got[0].OrderNumber)
	assert.Equal(t, 90.0, got[0].NetAmount)
	assert.True(t, got[1].BetDay.IsZero())
	assert.Equal(t, int64(3), got[1].OrderNumber)
	assert.Equal(t, 55.5, got[1].OrderAmount)
	assert.Zero(t, got[1].NetAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMissingColumnIsSchemaError(t *testing.T) {
	src, mock := setupMockSource(t)
	mock.ExpectQuery(selectPattern).
		WillReturnError(&pq.Error{Code: "42703", Message: `column "net_amount" does not exist`})

	_, err := src.FetchAll(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSchema))
	assert.Contains(t, err.Error(), "net_amount")
}

func TestPostgresOtherFailureIsConnectivity(t *testing.T) {
	src, mock := setupMockSource(t)
	mock.ExpectQuery(selectPattern).WillReturnError(errors.New("connection reset by peer"))

	_, err := src.FetchAll(context.Background())
	assert.True(t, apperrors.IsKind(err, apperrors.KindConnectivity))
}

func TestPostgresEmptyTable(t *testing.T) {
	src, mock := setupMockSource(t)
	mock.ExpectQuery(selectPattern).WillReturnRows(sqlmock.NewRows(models.Columns))

	got, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
