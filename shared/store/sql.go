package store

import (
	"context"
	"errors"
	"fmt"

	"umrahcrm/infras/otel"
	"umrahcrm/shared"
	"umrahcrm/shared/constant"
	"umrahcrm/shared/dto"
	"umrahcrm/shared/model"
	"umrahcrm/shared/repository"
	"umrahcrm/shared/timezone"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	tableName          = "collections"
	entityName         = "collection"
	fieldKey           = "collection_key"
	fieldVersion       = "version"
	argExpectedVersion = "expected_version"
)

type collectionRow struct {
	Key     string `db:"collection_key"`
	Payload string `db:"payload"`
	Version int64  `db:"version"`
	model.Metadata
}

type collectionUpdate struct {
	Payload string `db:"payload"`
	Version int64  `db:"version"`
}

type sqlStore struct {
	repo repository.Repository[collectionRow]
	otel otel.Otel
}

// NewSQL stores collections as rows of the collections table. It serves both postgres and sqlite.
func NewSQL(conn *repository.Connection, otel otel.Otel) Store {
	return &sqlStore{
		repo: repository.NewRepository[collectionRow](entityName, tableName, conn, otel),
		otel: otel,
	}
}

func (s *sqlStore) Load(ctx context.Context, key string) (snap Snapshot, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".sql.Load")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	row, found, err := s.repo.Find(ctx, shared.FilterByID(key, fieldKey, tableName))
	if err != nil {
		return snap, fmt.Errorf("failed to load collection %q: %w", key, err)
	}

	if !found {
		return snap, ErrNotFound
	}

	return Snapshot{Data: []byte(row.Payload), Version: row.Version}, nil
}

func (s *sqlStore) Save(ctx context.Context, key string, data []byte, expectedVersion int64) (version int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".sql.Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	if expectedVersion == 0 {
		row := collectionRow{Key: key, Payload: string(data), Version: 1}
		row.Stamp(now, actor)

		if err = s.repo.Insert(ctx, row); err != nil {
			if isUniqueViolation(err) {
				return 0, ErrVersionConflict
			}

			return 0, fmt.Errorf("failed to create collection %q: %w", key, err)
		}

		return 1, nil
	}

	mod := shared.TransformFields(collectionUpdate{Payload: string(data), Version: expectedVersion + 1}, actor)

	filter := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: fieldKey, Value: key, Operator: dto.FilterOperatorEq, Table: tableName},
			dto.Filter{Field: fieldVersion, ArgName: argExpectedVersion, Value: expectedVersion, Operator: dto.FilterOperatorEq, Table: tableName},
		},
	}

	affected, err := s.repo.Update(ctx, mod, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to save collection %q: %w", key, err)
	}

	if affected == 0 {
		return 0, ErrVersionConflict
	}

	return expectedVersion + 1, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint
	}

	return false
}
