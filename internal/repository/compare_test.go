package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompareValues(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"ints", 1, 2, -1},
		{"mixed numbers", int64(3), float64(3), 0},
		{"floats", 2.5, 1.0, 1},
		{"strings", "a", "b", -1},
		{"bools", false, true, -1},
		{"times", now, now.Add(time.Second), -1},
		{"nil first", nil, 0, -1},
		{"kind order", "1", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareValues(tt.a, tt.b)
			switch {
			case tt.want < 0:
				assert.Negative(t, got)
			case tt.want > 0:
				assert.Positive(t, got)
			default:
				assert.Zero(t, got)
			}
		})
	}
}

func TestSortDocs(t *testing.T) {
	docs := []map[string]any{
		{"id": "c", "step_number": 3},
		{"id": "a", "step_number": 1},
		{"id": "b1", "step_number": 2},
		{"id": "b2", "step_number": 2.0},
	}
	SortDocs(docs, func(d map[string]any) map[string]any { return d }, []SortField{{Field: "step_number"}})

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d["id"].(string))
	}
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, ids)

	SortDocs(docs, func(d map[string]any) map[string]any { return d }, []SortField{{Field: "step_number", Desc: true}})
	assert.Equal(t, "c", docs[0]["id"])
}

func TestMatches(t *testing.T) {
	doc := map[string]any{"is_published": true, "display_order": float64(2)}

	assert.True(t, Matches(doc, Fields{"is_published": true}))
	assert.True(t, Matches(doc, Fields{"display_order": 2}))
	assert.False(t, Matches(doc, Fields{"is_published": false}))
	assert.False(t, Matches(doc, Fields{"missing": "x"}))
	assert.True(t, Matches(doc, nil))
}

func TestCheckFields(t *testing.T) {
	assert.NoError(t, CheckFields(ListQuery{Filter: Fields{"is_published": true}, Sort: []SortField{{Field: "display_order"}}}, Fields{"title_ar": "x"}))
	assert.Error(t, CheckFields(ListQuery{Sort: []SortField{{Field: "x'); DROP"}}}, nil))
	assert.Error(t, CheckFields(ListQuery{Filter: Fields{"A": 1}}, nil))
	assert.Error(t, CheckFields(ListQuery{}, Fields{"a-b": 1}))
}
