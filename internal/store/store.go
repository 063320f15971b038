package store

import (
	sq "github.com/Masterminds/squirrel"
)

// psql is the shared statement builder; every query in this package goes
// through it so placeholders stay in postgres dollar format.
func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}
