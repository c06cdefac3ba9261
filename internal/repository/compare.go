package repository

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// Sorting and filtering helpers for backends that order documents in memory.

// SortDocs stably orders items by the document fields named in sort.
// data returns the decoded document of an item.
func SortDocs[E any](items []E, data func(E) map[string]any, sort []SortField) {
	if len(sort) == 0 {
		return
	}
	slices.SortStableFunc(items, func(a, b E) int {
		da, db := data(a), data(b)
		for _, s := range sort {
			c := CompareValues(da[s.Field], db[s.Field])
			if s.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

// Matches reports whether doc equals every entry of filter.
func Matches(doc map[string]any, filter Fields) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || kindRank(got) != kindRank(want) || CompareValues(got, want) != 0 {
			return false
		}
	}
	return true
}

// CompareValues orders two decoded document values. Missing values sort first,
// then booleans, numbers, times and strings; values of different kinds order by kind.
func CompareValues(a, b any) int {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case rankBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case rankNumber:
		x, y := toFloat(a), toFloat(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case rankTime:
		return a.(time.Time).Compare(b.(time.Time))
	case rankString:
		return strings.Compare(a.(string), b.(string))
	}
	return 0
}

const (
	rankNil = iota
	rankBool
	rankNumber
	rankTime
	rankString
	rankOther
)

func kindRank(v any) int {
	switch v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case int, int32, int64, float32, float64, json.Number:
		return rankNumber
	case time.Time:
		return rankTime
	case string:
		return rankString
	default:
		return rankOther
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}
