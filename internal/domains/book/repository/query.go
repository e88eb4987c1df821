package repository

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
)

const (
	dialectPostgres = "postgres"
	tableBooks      = "books"
)

var bookColumns = []interface{}{
	"id", "title", "author", "published_year", "isbn", "copies", "description", "created_at", "updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func filterExpressions(filter model.BookFilter) []exp.Expression {
	var where []exp.Expression

	if filter.Query != "" {
		p := containsPattern(filter.Query)
		where = append(where, goqu.Or(
			goqu.I("title").ILike(p),
			goqu.I("author").ILike(p),
		))
	}
	if filter.ISBN != "" {
		where = append(where, goqu.I("isbn").Eq(filter.ISBN))
	}
	if filter.AvailableOnly {
		where = append(where, goqu.I("copies").Gt(0))
	}
	return where
}

func buildListQuery(filter model.BookFilter) (string, []interface{}, error) {
	ds := goqu.Dialect(dialectPostgres).
		From(tableBooks).
		Prepared(true).
		Select(bookColumns...).
		Where(filterExpressions(filter)...).
		Order(goqu.I("title").Asc(), goqu.I("id").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	q, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build list books query: %w", err)
	}
	return q, args, nil
}

func buildCountQuery(filter model.BookFilter) (string, []interface{}, error) {
	q, args, err := goqu.Dialect(dialectPostgres).
		From(tableBooks).
		Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(filterExpressions(filter)...).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build count books query: %w", err)
	}
	return q, args, nil
}

// buildUpdateQuery sets only the patched columns and returns the updated row.
func buildUpdateQuery(id uuid.UUID, patch model.BookPatch) (string, []interface{}, error) {
	rec := goqu.Record{"updated_at": goqu.L("NOW()")}

	if patch.Title != nil {
		rec["title"] = *patch.Title
	}
	if patch.Author != nil {
		rec["author"] = *patch.Author
	}
	if patch.PublishedYear != nil {
		rec["published_year"] = *patch.PublishedYear
	}
	if patch.ISBN != nil {
		if *patch.ISBN == "" {
			rec["isbn"] = nil
		} else {
			rec["isbn"] = *patch.ISBN
		}
	}
	if patch.Copies != nil {
		rec["copies"] = *patch.Copies
	}
	if patch.Description != nil {
		rec["description"] = *patch.Description
	}

	q, args, err := goqu.Dialect(dialectPostgres).
		Update(tableBooks).
		Prepared(true).
		Set(rec).
		Where(goqu.I("id").Eq(id.String())).
		Returning(bookColumns...).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build update book query: %w", err)
	}
	return q, args, nil
}
