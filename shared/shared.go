package shared

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"umrahcrm/shared/cache"
	"umrahcrm/shared/constant"
	"umrahcrm/shared/dto"
	"umrahcrm/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

// CalculateTotalPage returns at least one page, even for an empty result or an unlimited query.
func CalculateTotalPage(total, limit int) int {
	if total == 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// TransformFields turns the non-zero db-tagged fields of a struct into an update set and stamps the modifier.
func TransformFields(data any, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// ShallowMerge overlays the top-level JSON fields present in patch onto base.
// Fields omitted from the patch keep their value in base; nested objects and
// lists in the patch replace the base value wholesale.
func ShallowMerge[T any](base T, patch any) (T, error) {
	var merged T

	baseFields, err := toFields(base)
	if err != nil {
		return merged, err
	}

	patchFields, err := toFields(patch)
	if err != nil {
		return merged, err
	}

	for key, value := range patchFields {
		baseFields[key] = value
	}

	raw, err := json.Marshal(baseFields)
	if err != nil {
		return merged, fmt.Errorf("failed to encode merged fields: %w", err)
	}

	if err = json.Unmarshal(raw, &merged); err != nil {
		return merged, fmt.Errorf("failed to decode merged fields: %w", err)
	}

	return merged, nil
}

func toFields(value any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fields: %w", err)
	}

	fields := map[string]json.RawMessage{}
	if err = json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode fields: %w", err)
	}

	return fields, nil
}

// RandomDigits returns a uniformly drawn number in [low, high] formatted as a string.
func RandomDigits(low, high int64) string {
	n, err := rand.Int(rand.Reader, big.NewInt(high-low+1))
	if err != nil {
		return strconv.FormatInt(low, 10)
	}

	return strconv.FormatInt(n.Int64()+low, 10)
}

const alphanumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns a random lowercase alphanumeric string of the given length.
func RandomString(length int) string {
	var sb strings.Builder

	for range length {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphanumeric))))
		if err != nil {
			sb.WriteByte(alphanumeric[0])

			continue
		}

		sb.WriteByte(alphanumeric[n.Int64()])
	}

	return sb.String()
}

func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a deterministic key from paging parameters and filters.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filters map[string]string) string {
	parts := []string{
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
	}

	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		parts = append(parts, key+"="+filters[key])
	}

	return BuildCacheKey(prefix, parts...)
}

// InvalidateCaches removes every cached entry under prefix.
func InvalidateCaches(ctx context.Context, c cache.RedisCache, prefix string) {
	if err := c.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
