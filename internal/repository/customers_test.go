package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*CustomersRepositoryImpl, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return NewCustomersRepository(sqlx.NewDb(raw, "mysql")), mock
}

func TestListCustomers(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(listCustomersQuery)).
		WithArgs(2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company"}).
			AddRow(int64(2), "Company B").
			AddRow(int64(3), nil))

	rows, err := repo.ListCustomers(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(2), rows[0].ID)
	require.NotNil(t, rows[0].Company)
	assert.Equal(t, "Company B", *rows[0].Company)
	assert.Equal(t, int64(3), rows[1].ID)
	assert.Nil(t, rows[1].Company)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCustomersEmpty(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(listCustomersQuery)).
		WithArgs(10, 500).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company"}))

	rows, err := repo.ListCustomers(context.Background(), 10, 500)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestListCustomersError(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(listCustomersQuery)).
		WillReturnError(errors.New("Table 'northwind.customers' doesn't exist"))

	rows, err := repo.ListCustomers(context.Background(), 10, 0)
	assert.Nil(t, rows)
	assert.ErrorContains(t, err, "list customers")
	assert.ErrorContains(t, err, "doesn't exist")
}

func TestGetCustomerByID(t *testing.T) {
	repo, mock := newRepo(t)
	cols := []*sqlmock.Column{
		mock.NewColumn("id").OfType("INT", int64(0)),
		mock.NewColumn("company").OfType("VARCHAR", ""),
		mock.NewColumn("credit_limit").OfType("DECIMAL", ""),
		mock.NewColumn("job_title").OfType("VARCHAR", "").Nullable(true),
	}
	mock.ExpectQuery(regexp.QuoteMeta(getCustomerQuery)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(cols...).
			AddRow([]byte("1"), []byte("Acme"), []byte("1500.50"), nil))

	rec, err := repo.GetCustomerByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, rec)

	id, ok := rec.ID()
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "Acme", rec.Company())
	assert.Equal(t, 1500.5, rec["credit_limit"])
	assert.Contains(t, rec, "job_title")
	assert.Nil(t, rec["job_title"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomerByIDNotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(getCustomerQuery)).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company"}))

	rec, err := repo.GetCustomerByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGetCustomerByIDError(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(getCustomerQuery)).
		WithArgs(5).
		WillReturnError(errors.New("bad connection"))

	rec, err := repo.GetCustomerByID(context.Background(), 5)
	assert.Nil(t, rec)
	assert.ErrorContains(t, err, "get customer 5")
}

func TestConvertValue(t *testing.T) {
	assert.Equal(t, int64(42), convertValue("UNSIGNED BIGINT", []byte("42")))
	assert.Equal(t, "POINT(1 2)", convertValue("POINT", []byte("POINT(1 2)")))
	assert.Equal(t, "n/a", convertValue("INT", []byte("n/a")))
	assert.Equal(t, 2.5, convertValue("DOUBLE", "2.5"))
	assert.Equal(t, int64(7), convertValue("", int64(7)))
	assert.Nil(t, convertValue("VARCHAR", nil))
}
