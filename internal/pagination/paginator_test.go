package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_ResolvesOffset(t *testing.T) {
	p := New(2, 10)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 10, p.Offset)
}

func TestNew_FallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"zero page", 0, 10, 1, 10, 0},
		{"negative page", -3, 10, 1, 10, 0},
		{"zero limit", 3, 0, 3, DefaultLimit, 20},
		{"negative limit", 1, -5, 1, DefaultLimit, 0},
		{"both invalid", 0, 0, 1, DefaultLimit, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := New(tc.page, tc.limit)
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantLimit, p.Limit)
			assert.Equal(t, tc.wantOffset, p.Offset)
		})
	}
}

func TestParse_RawStrings(t *testing.T) {
	assert.Equal(t, Paginator{Page: 3, Limit: 25, Offset: 50}, Parse("3", "25"))
	assert.Equal(t, Paginator{Page: 1, Limit: DefaultLimit, Offset: 0}, Parse("", ""))
	assert.Equal(t, Paginator{Page: 1, Limit: DefaultLimit, Offset: 0}, Parse("abc", "1.5"))
	assert.Equal(t, Paginator{Page: 2, Limit: 5, Offset: 5}, Parse(" 2 ", "5"))
}

func TestMetadata_TotalPages(t *testing.T) {
	p := New(1, 10)

	m := p.Metadata(95)
	assert.Equal(t, int64(10), m.TotalPages)
	assert.Equal(t, int64(95), m.TotalItems)
	assert.Equal(t, 1, m.Page)
	assert.Equal(t, 10, m.Limit)

	assert.Equal(t, int64(0), p.Metadata(0).TotalPages)
	assert.Equal(t, int64(1), p.Metadata(1).TotalPages)
	assert.Equal(t, int64(10), p.Metadata(100).TotalPages)
	assert.Equal(t, int64(11), p.Metadata(101).TotalPages)
}

func TestMetadata_EchoesResolvedValues(t *testing.T) {
	p := Parse("4", "abc")
	m := p.Metadata(42)
	assert.Equal(t, 4, m.Page)
	assert.Equal(t, DefaultLimit, m.Limit)
	assert.Equal(t, int64(5), m.TotalPages)
}

func TestMetadata_Idempotent(t *testing.T) {
	p := New(2, 7)
	assert.Equal(t, p.Metadata(50), p.Metadata(50))
}

func TestWithMaxLimit(t *testing.T) {
	p := New(3, 500).WithMaxLimit(100)
	assert.Equal(t, Paginator{Page: 3, Limit: 100, Offset: 200}, p)

	unchanged := New(3, 20)
	assert.Equal(t, unchanged, unchanged.WithMaxLimit(100))
	assert.Equal(t, New(1, 500), New(1, 500).WithMaxLimit(0))
}

func TestNew_OffsetSaturates(t *testing.T) {
	tests := []struct {
		name       string
		p          Paginator
		wantOffset int
	}{
		{"huge page under cap", Parse("92233720368547760", "100").WithMaxLimit(100), math.MaxInt},
		{"huge page and limit uncapped", Parse("3000000000", "5000000000"), math.MaxInt},
		{"max page", New(math.MaxInt, 1), math.MaxInt - 1},
		{"largest exact offset", New(math.MaxInt/100+1, 100), (math.MaxInt / 100) * 100},
		{"one past largest", New(math.MaxInt/100+2, 100), math.MaxInt},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantOffset, tc.p.Offset)
			assert.GreaterOrEqual(t, tc.p.Offset, 0)
		})
	}

	p := Parse("92233720368547760", "100")
	assert.Equal(t, int64(92233720368547760), int64(p.Page))
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, int64(1), p.Metadata(42).TotalPages)
}
