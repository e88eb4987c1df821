package repository

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"library-backend/internal/domains/reader/model"
)

const (
	dialectPostgres = "postgres"
	tableReaders    = "readers"
)

var readerColumns = []interface{}{"id", "name", "email", "phone", "created_at", "updated_at"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func filterExpressions(filter model.ReaderFilter) []exp.Expression {
	if filter.Query == "" {
		return nil
	}
	p := "%" + likeEscaper.Replace(filter.Query) + "%"
	return []exp.Expression{goqu.Or(
		goqu.I("name").ILike(p),
		goqu.I("email").ILike(p),
	)}
}

func buildListQuery(filter model.ReaderFilter) (string, []interface{}, error) {
	ds := goqu.Dialect(dialectPostgres).
		From(tableReaders).
		Prepared(true).
		Select(readerColumns...).
		Where(filterExpressions(filter)...).
		Order(goqu.I("name").Asc(), goqu.I("id").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	q, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build list readers query: %w", err)
	}
	return q, args, nil
}

func buildCountQuery(filter model.ReaderFilter) (string, []interface{}, error) {
	q, args, err := goqu.Dialect(dialectPostgres).
		From(tableReaders).
		Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(filterExpressions(filter)...).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build count readers query: %w", err)
	}
	return q, args, nil
}

func buildUpdateQuery(id uuid.UUID, patch model.ReaderPatch) (string, []interface{}, error) {
	rec := goqu.Record{"updated_at": goqu.L("NOW()")}

	if patch.Name != nil {
		rec["name"] = *patch.Name
	}
	if patch.Email != nil {
		rec["email"] = *patch.Email
	}
	if patch.Phone != nil {
		if *patch.Phone == "" {
			rec["phone"] = nil
		} else {
			rec["phone"] = *patch.Phone
		}
	}

	q, args, err := goqu.Dialect(dialectPostgres).
		Update(tableReaders).
		Prepared(true).
		Set(rec).
		Where(goqu.I("id").Eq(id.String())).
		Returning(readerColumns...).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build update reader query: %w", err)
	}
	return q, args, nil
}
