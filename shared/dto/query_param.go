package dto

import (
	"net/http"
	"strconv"

	"umrahcrm/shared/constant"
)

// QueryParams pages a list response. A zero Limit means the whole list.
type QueryParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ParseQueryParams reads page and limit from the query string. Values that are not
// positive integers are dropped and limit is clamped to MaxPageLimit.
func ParseQueryParams(r *http.Request) QueryParams {
	query := r.URL.Query()

	return QueryParams{
		Page:  positiveInt(query.Get(constant.RequestParamPage)),
		Limit: min(positiveInt(query.Get(constant.RequestParamLimit)), constant.MaxPageLimit),
	}
}

func positiveInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}

	return n
}

// Paginate returns the items of the requested page in stored order.
func Paginate[T any](items []T, params QueryParams) []T {
	if params.Limit <= 0 {
		return items
	}

	start := (max(params.Page, 1) - 1) * params.Limit
	if start >= len(items) {
		return []T{}
	}

	return items[start:min(start+params.Limit, len(items))]
}
