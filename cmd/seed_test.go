package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmehdipour/custdir/internal/logger"
	"github.com/jmehdipour/custdir/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return sqlx.NewDb(raw, "mysql"), mock
}

func TestSeedCustomers(t *testing.T) {
	dbx, mock := newMockDB(t)

	mock.ExpectBegin()
	for _, c := range demoCustomers {
		mock.ExpectExec("INSERT INTO customers").
			WithArgs(c.Company, c.LastName, c.FirstName, c.EmailAddress, c.JobTitle, c.BusinessPhone, c.City, c.CountryRegion).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	core, logs := observer.New(zap.DebugLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	n, err := seedCustomers(context.Background(), dbx, demoCustomers)
	require.NoError(t, err)
	assert.Equal(t, len(demoCustomers), n)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, len(demoCustomers), logs.FilterMessage("customer upserted").Len())
	seeded := logs.FilterMessage("customers seeded").All()
	require.Len(t, seeded, 1)
	assert.Equal(t, int64(len(demoCustomers)), seeded[0].ContextMap()["count"])
}

func TestSeedCustomersRollsBackOnError(t *testing.T) {
	dbx, mock := newMockDB(t)
	rows := []model.SeedCustomer{{Company: "Company A"}, {Company: "Company B"}}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO customers").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO customers").WillReturnError(errors.New("duplicate entry"))
	mock.ExpectRollback()

	_, err := seedCustomers(context.Background(), dbx, rows)
	assert.ErrorContains(t, err, `insert customer "Company B"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
