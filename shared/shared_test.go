package shared_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"umrahcrm/shared"
	"umrahcrm/shared/cache/mocks"
	"umrahcrm/shared/constant"
	"umrahcrm/shared/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{name: "empty", total: 0, limit: 10, want: 1},
		{name: "unlimited", total: 42, limit: 0, want: 1},
		{name: "exact", total: 20, limit: 10, want: 2},
		{name: "remainder", total: 21, limit: 10, want: 3},
		{name: "single item", total: 1, limit: 10, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type update struct {
		Payload string `db:"payload"`
		Version int64  `db:"version"`
		Skipped string
		Empty   string `db:"empty"`
	}

	fields := shared.TransformFields(update{Payload: "[]", Version: 4, Skipped: "x"}, "u-9")

	assert.Equal(t, "[]", fields["payload"])
	assert.Equal(t, int64(4), fields["version"])
	assert.Equal(t, "u-9", fields[constant.FieldModifiedBy])
	assert.Contains(t, fields, constant.FieldModifiedAt)
	assert.NotContains(t, fields, "empty")
	assert.Len(t, fields, 4)
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("leads", "collection_key", "collections")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(collections.collection_key = :collection_key)", where)
	assert.Equal(t, map[string]any{"collection_key": "leads"}, args)
}

type record struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Tags   []string `json:"tags"`
	Amount int      `json:"amount"`
}

func TestShallowMerge(t *testing.T) {
	base := record{ID: "l-1", Name: "Ahmad", Tags: []string{"vip", "family"}, Amount: 10}

	tests := []struct {
		name  string
		patch any
		want  record
	}{
		{
			name:  "partial map",
			patch: map[string]any{"name": "Fatimah"},
			want:  record{ID: "l-1", Name: "Fatimah", Tags: []string{"vip", "family"}, Amount: 10},
		},
		{
			name:  "lists are replaced wholesale",
			patch: map[string]any{"tags": []string{"group"}},
			want:  record{ID: "l-1", Name: "Ahmad", Tags: []string{"group"}, Amount: 10},
		},
		{
			name: "omitempty struct keeps unset fields",
			patch: struct {
				Amount *int `json:"amount,omitempty"`
			}{},
			want: base,
		},
		{
			name:  "unknown keys are ignored",
			patch: map[string]any{"colour": "green"},
			want:  base,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shared.ShallowMerge(base, tt.patch)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShallowMerge_InvalidPatch(t *testing.T) {
	_, err := shared.ShallowMerge(record{}, []string{"not", "an", "object"})

	assert.Error(t, err)
}

func TestRandomDigits(t *testing.T) {
	for range 100 {
		n, err := strconv.ParseInt(shared.RandomDigits(1000, 9999), 10, 64)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1000))
		assert.LessOrEqual(t, n, int64(9999))
	}
}

func TestRandomString(t *testing.T) {
	value := shared.RandomString(12)

	assert.Len(t, value, 12)
	assert.Regexp(t, "^[a-z0-9]+$", value)
	assert.Empty(t, shared.RandomString(0))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 2, Limit: 10}

	first := shared.BuildCacheKeyWithQuery("lead:get_all", params, map[string]string{"status": "new", "owner": "u-1"})
	second := shared.BuildCacheKeyWithQuery("lead:get_all", params, map[string]string{"owner": "u-1", "status": "new"})

	assert.Equal(t, "lead:get_all:2:10:owner=u-1:status=new", first)
	assert.Equal(t, first, second)
	assert.Equal(t, "user:get:u-1", shared.BuildCacheKey("user:get", "u-1"))
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := mocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Clear(gomock.Any(), "ticket:get_all"+constant.Asterix).Return(nil)
	redisCache.EXPECT().Clear(gomock.Any(), "ticket:get"+constant.Asterix).Return(errors.New("redis down"))

	shared.InvalidateCaches(context.Background(), redisCache, "ticket:get_all")
	shared.InvalidateCaches(context.Background(), redisCache, "ticket:get")
}
