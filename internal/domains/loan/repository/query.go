package repository

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"

	"library-backend/internal/domains/loan/model"
)

const (
	dialectPostgres = "postgres"
	tableLoans      = "loans"
)

var loanColumns = []interface{}{
	"id", "book_id", "reader_id", "loan_date", "return_date", "created_at", "updated_at",
}

func filterExpressions(filter model.LoanFilter) []exp.Expression {
	var where []exp.Expression

	if filter.ReaderID != nil {
		where = append(where, goqu.I("reader_id").Eq(filter.ReaderID.String()))
	}
	if filter.BookID != nil {
		where = append(where, goqu.I("book_id").Eq(filter.BookID.String()))
	}
	switch filter.Status {
	case model.StatusActive:
		where = append(where, goqu.I("return_date").IsNull())
	case model.StatusClosed:
		where = append(where, goqu.I("return_date").IsNotNull())
	}
	return where
}

func buildListQuery(filter model.LoanFilter) (string, []interface{}, error) {
	ds := goqu.Dialect(dialectPostgres).
		From(tableLoans).
		Prepared(true).
		Select(loanColumns...).
		Where(filterExpressions(filter)...).
		Order(goqu.I("loan_date").Desc(), goqu.I("id").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	q, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build list loans query: %w", err)
	}
	return q, args, nil
}

func buildCountQuery(filter model.LoanFilter) (string, []interface{}, error) {
	q, args, err := goqu.Dialect(dialectPostgres).
		From(tableLoans).
		Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(filterExpressions(filter)...).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build count loans query: %w", err)
	}
	return q, args, nil
}
