// Package pagination translates a requested page/limit pair into a SQL
// offset and the metadata object returned with every listing response.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

// DefaultLimit is used when the client omits limit or sends something that
// is not a positive integer.
const DefaultLimit = 10

// Paginator holds the resolved page, limit and offset for one listing call.
// The same value must be used to run the query and to build Metadata so the
// echoed page/limit match what was applied.
type Paginator struct {
	Page   int
	Limit  int
	Offset int
}

// Metadata is the "metadata" object of a listing response.
type Metadata struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int64 `json:"totalPages"`
}

// New resolves already-parsed values. Non-positive inputs fall back to the
// defaults; nothing is rejected. An offset that would overflow int saturates
// at math.MaxInt, which selects an empty page.
func New(page, limit int) Paginator {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page < 1 {
		page = 1
	}
	offset := math.MaxInt
	if page-1 <= math.MaxInt/limit {
		offset = (page - 1) * limit
	}
	return Paginator{Page: page, Limit: limit, Offset: offset}
}

// Parse resolves raw query-string values. Empty or malformed strings degrade
// to the defaults.
func Parse(pageRaw, limitRaw string) Paginator {
	return New(atoi(pageRaw), atoi(limitRaw))
}

// WithMaxLimit returns a copy whose limit is clamped to ceiling. The offset
// is recomputed from the clamped limit. A non-positive ceiling leaves p
// unchanged.
func (p Paginator) WithMaxLimit(ceiling int) Paginator {
	if ceiling <= 0 || p.Limit <= ceiling {
		return p
	}
	return New(p.Page, ceiling)
}

// Metadata derives the response metadata for totalItems rows.
func (p Paginator) Metadata(totalItems int64) Metadata {
	if totalItems < 0 {
		totalItems = 0
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	pages := totalItems / int64(limit)
	if totalItems%int64(limit) != 0 {
		pages++
	}
	return Metadata{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalItems: totalItems,
		TotalPages: pages,
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
