package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmehdipour/custdir/internal/metrics"
	"github.com/jmehdipour/custdir/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	listCustomersQuery = `SELECT id, company FROM customers LIMIT ? OFFSET ?`
	getCustomerQuery   = `SELECT * FROM customers WHERE id = ?`
)

type CustomersRepository interface {
	ListCustomers(ctx context.Context, limit, offset int) ([]model.CustomerSummary, error)
	GetCustomerByID(ctx context.Context, id int64) (model.Record, error)
}

// CustomersRepositoryImpl runs every call on its own pooled connection, released on return.
type CustomersRepositoryImpl struct {
	db *sqlx.DB
}

func NewCustomersRepository(db *sqlx.DB) *CustomersRepositoryImpl {
	return &CustomersRepositoryImpl{db: db}
}

var _ CustomersRepository = (*CustomersRepositoryImpl)(nil)

func (r *CustomersRepositoryImpl) withConn(ctx context.Context, query string, fn func(*sqlx.Conn) error) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery(query, start, err) }()

	conn, err := r.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

// ListCustomers returns at most limit rows after skipping offset, in store order.
func (r *CustomersRepositoryImpl) ListCustomers(ctx context.Context, limit, offset int) ([]model.CustomerSummary, error) {
	rows := []model.CustomerSummary{}
	err := r.withConn(ctx, "list_customers", func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &rows, listCustomersQuery, limit, offset)
	})
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return rows, nil
}

// GetCustomerByID returns the full row, or (nil, nil) when no customer has that id.
func (r *CustomersRepositoryImpl) GetCustomerByID(ctx context.Context, id int64) (model.Record, error) {
	var rec model.Record
	err := r.withConn(ctx, "get_customer", func(conn *sqlx.Conn) error {
		rows, err := conn.QueryxContext(ctx, getCustomerQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		if !rows.Next() {
			return rows.Err()
		}
		rec, err = scanRecord(rows)
		if err != nil {
			return err
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return rec, nil
}

func scanRecord(rows *sqlx.Rows) (model.Record, error) {
	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	rec := make(model.Record, len(cols))
	for i, ct := range cols {
		rec[ct.Name()] = convertValue(ct.DatabaseTypeName(), vals[i])
	}
	return rec, nil
}

// convertValue turns driver values into JSON-friendly ones. The MySQL driver hands most
// columns back as []byte; the column type decides how they are read.
func convertValue(dbType string, v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return convertText(dbType, string(x))
	case string:
		return convertText(dbType, x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return x
	}
}

func convertText(dbType, s string) any {
	switch strings.TrimPrefix(strings.ToUpper(dbType), "UNSIGNED ") {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT", "YEAR":
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case "DECIMAL", "FLOAT", "DOUBLE":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
