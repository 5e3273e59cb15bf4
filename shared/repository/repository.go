package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"umrahcrm/infras/otel"
	"umrahcrm/shared/constant"
	"umrahcrm/shared/dto"
	"umrahcrm/shared/logger"

	"github.com/jmoiron/sqlx"
)

var ErrRequiredFilter = errors.New("required filter")

// Connection holds the read and write pools a Repository works against.
// Single-file databases use the same pool for both.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func (c *Connection) Close() error {
	var err error

	if c.Write != nil {
		err = c.Write.Close()
	}

	if c.Read != nil && c.Read != c.Write {
		err = errors.Join(err, c.Read.Close())
	}

	return err
}

// Repository maps the db-tagged fields of T, embedded structs included, onto one table.
type Repository[T any] struct {
	db      *Connection
	otel    otel.Otel
	table   string
	entity  string
	columns []string
}

func NewRepository[T any](entity, table string, conn *Connection, otel otel.Otel) Repository[T] {
	var zero T

	return Repository[T]{
		db:      conn,
		otel:    otel,
		table:   table,
		entity:  entity,
		columns: columnsOf(reflect.TypeOf(zero)),
	}
}

func (repo *Repository[T]) Insert(ctx context.Context, row T) (err error) {
	ctx, scope := repo.scope(ctx, "Insert")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s)", repo.table, strings.Join(repo.columns, ", "), strings.Join(repo.columns, ", :"))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = repo.db.Write.NamedExecContext(ctx, query, row); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to insert %s: %w", repo.entity, err)
	}

	return nil
}

// Find returns the first row matching filter and whether one existed.
func (repo *Repository[T]) Find(ctx context.Context, filter dto.FilterGroup) (row T, found bool, err error) {
	ctx, scope := repo.scope(ctx, "Find")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	where, args := filter.GetWhereClause()
	if where == "" {
		return row, false, ErrRequiredFilter
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1", strings.Join(repo.columns, ", "), repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return row, false, fmt.Errorf("failed to prepare %s lookup: %w", repo.entity, err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &row, args)
	if errors.Is(err, sql.ErrNoRows) {
		return row, false, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return row, false, fmt.Errorf("failed to get %s: %w", repo.entity, err)
	}

	return row, true, nil
}

// Update applies mod to the rows matching filter and reports how many rows changed.
// A filter argument and a column of the same name would collide, so give filters an ArgName.
func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) (affected int64, err error) {
	ctx, scope := repo.scope(ctx, "Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	where, args := filter.GetWhereClause()
	if where == "" {
		return 0, ErrRequiredFilter
	}

	sets := make([]string, 0, len(mod))
	for _, col := range slices.Sorted(maps.Keys(mod)) {
		sets = append(sets, col+" = :"+col)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", repo.table, strings.Join(sets, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	maps.Copy(args, mod)

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to update %s: %w", repo.entity, err)
	}

	affected, err = result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows of %s: %w", repo.entity, err)
	}

	return affected, nil
}

func (repo *Repository[T]) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+repo.entity+"."+op)
}

func columnsOf(typ reflect.Type) []string {
	var columns []string

	for i := range typ.NumField() {
		field := typ.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, columnsOf(field.Type)...)

			continue
		}

		if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
			columns = append(columns, tag)
		}
	}

	return columns
}
