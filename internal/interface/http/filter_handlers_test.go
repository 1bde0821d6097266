package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type filterCommand struct {
	path string
	body map[string]any
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name     string
		commands []filterCommand
		expected []int64
	}{
		{
			name:     "Category",
			commands: []filterCommand{{path: "/api/v1/filters/category", body: map[string]any{"category": "jewelery"}}},
			expected: []int64{5, 6},
		},
		{
			name:     "Category reset to all",
			commands: []filterCommand{{path: "/api/v1/filters/category", body: map[string]any{"category": "jewelery"}}, {path: "/api/v1/filters/category", body: map[string]any{"category": "all"}}},
			expected: []int64{1, 2, 3, 5, 6, 9, 13, 20},
		},
		{
			name:     "Price range is inclusive",
			commands: []filterCommand{{path: "/api/v1/filters/price", body: map[string]any{"min": 55.99, "max": 168}}},
			expected: []int64{1, 3, 6, 9},
		},
		{
			name:     "Search is case-insensitive",
			commands: []filterCommand{{path: "/api/v1/filters/search", body: map[string]any{"query": "COTTON"}}},
			expected: []int64{3, 20},
		},
		{
			name:     "Brand matches title",
			commands: []filterCommand{{path: "/api/v1/filters/brand", body: map[string]any{"brand": "acer"}}},
			expected: []int64{13},
		},
		{
			name: "Brand wildcard tolerates whitespace",
			commands: []filterCommand{
				{path: "/api/v1/filters/brand", body: map[string]any{"brand": "acer"}},
				{path: "/api/v1/filters/brand", body: map[string]any{"brand": " all "}},
			},
			expected: []int64{1, 2, 3, 5, 6, 9, 13, 20},
		},
		{
			name: "Criteria combine with AND",
			commands: []filterCommand{
				{path: "/api/v1/filters/category", body: map[string]any{"category": "men's clothing"}},
				{path: "/api/v1/filters/search", body: map[string]any{"query": "mens"}},
				{path: "/api/v1/filters/price", body: map[string]any{"min": 0, "max": 50}},
			},
			expected: []int64{2},
		},
		{
			name: "Loosening a criterion restores products",
			commands: []filterCommand{
				{path: "/api/v1/filters/search", body: map[string]any{"query": "zzz"}},
				{path: "/api/v1/filters/search", body: map[string]any{"query": ""}},
			},
			expected: []int64{1, 2, 3, 5, 6, 9, 13, 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			var body map[string]any
			for _, cmd := range tt.commands {
				rec := env.do(t, http.MethodPut, cmd.path, cmd.body)
				require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
				body = decodeBody(t, rec)
			}
			require.Equal(t, tt.expected, dataIDs(t, body))

			rec := env.do(t, http.MethodGet, "/api/v1/products", nil)
			require.Equal(t, tt.expected, dataIDs(t, decodeBody(t, rec)))
		})
	}
}

func TestFilters_OrderIndependent(t *testing.T) {
	category := filterCommand{path: "/api/v1/filters/category", body: map[string]any{"category": "men's clothing"}}
	search := filterCommand{path: "/api/v1/filters/search", body: map[string]any{"query": "t-shirt"}}

	apply := func(cmds ...filterCommand) []int64 {
		env := newTestEnv(t)
		for _, cmd := range cmds {
			require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, cmd.path, cmd.body).Code)
		}
		return dataIDs(t, decodeBody(t, env.do(t, http.MethodGet, "/api/v1/products", nil)))
	}

	first := apply(category, search)
	second := apply(search, category)

	require.Equal(t, []int64{2}, first)
	require.Equal(t, first, second)
}

func TestFilters_InvalidPayload_Returns400(t *testing.T) {
	tests := []struct {
		name string
		path string
		body any
	}{
		{name: "Max below min", path: "/api/v1/filters/price", body: map[string]any{"min": 100, "max": 10}},
		{name: "Negative min", path: "/api/v1/filters/price", body: map[string]any{"min": -1, "max": 10}},
		{name: "Empty category", path: "/api/v1/filters/category", body: map[string]any{"category": ""}},
		{name: "Empty brand", path: "/api/v1/filters/brand", body: map[string]any{}},
		{name: "Wrong type", path: "/api/v1/filters/search", body: map[string]any{"query": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(t, http.MethodPut, tt.path, tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Len(t, dataIDs(t, decodeBody(t, env.do(t, http.MethodGet, "/api/v1/products", nil))), 8)
		})
	}
}

func TestSetSort(t *testing.T) {
	tests := []struct {
		option   string
		expected []int64
	}{
		{option: "price-asc", expected: []int64{20, 2, 3, 9, 1, 6, 13, 5}},
		{option: "price-desc", expected: []int64{5, 13, 6, 1, 9, 3, 2, 20}},
		{option: "popularity", expected: []int64{3, 5, 2, 1, 6, 20, 9, 13}},
		{option: "rating-desc", expected: []int64{3, 5, 2, 1, 6, 20, 9, 13}},
	}

	for _, tt := range tests {
		t.Run(tt.option, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(t, http.MethodPut, "/api/v1/sort", map[string]any{"option": tt.option})

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tt.expected, dataIDs(t, decodeBody(t, rec)))
		})
	}
}

func TestSetSort_UnknownOption_Returns400(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/sort", map[string]any{"option": "cheapest"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid sort option", decodeBody(t, rec)["error"])
}

func TestSetSort_KeptAcrossFilterChange(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, "/api/v1/sort", map[string]any{"option": "price-desc"}).Code)
	rec := env.do(t, http.MethodPut, "/api/v1/filters/category", map[string]any{"category": "men's clothing"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "price-desc", body["sort"])
	require.Equal(t, []int64{1, 3, 2}, dataIDs(t, body))
}
