package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coffee-shop-api/internal/model"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
)

type memProducts struct {
	rows    map[uint64]model.Product
	next    uint64
	filters []repository.ProductFilter
	err     error
}

func newMemProducts(ps ...model.Product) *memProducts {
	s := &memProducts{rows: map[uint64]model.Product{}, next: 50}
	for _, p := range ps {
		s.rows[p.ID] = p
	}
	return s
}

func (s *memProducts) match(f repository.ProductFilter) []model.Product {
	out := []model.Product{}
	for i := uint64(0); i <= s.next; i++ {
		p, ok := s.rows[i]
		if !ok {
			continue
		}
		if f.Category != "" && f.Category != repository.CategoryAll && p.Category != f.Category {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *memProducts) Create(_ context.Context, p *model.Product) error {
	s.next++
	p.ID = s.next
	s.rows[p.ID] = *p
	return nil
}

func (s *memProducts) GetByID(_ context.Context, id uint64) (model.Product, error) {
	p, ok := s.rows[id]
	if !ok {
		return model.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *memProducts) List(_ context.Context, f repository.ProductFilter, offset, limit int) ([]model.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.filters = append(s.filters, f)
	all := s.match(f)
	if offset >= len(all) {
		return []model.Product{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (s *memProducts) Count(_ context.Context, f repository.ProductFilter) (int64, error) {
	return int64(len(s.match(f))), nil
}

func (s *memProducts) Update(_ context.Context, p model.Product) error {
	if _, ok := s.rows[p.ID]; !ok {
		return repository.ErrNotFound
	}
	s.rows[p.ID] = p
	return nil
}

func (s *memProducts) Delete(_ context.Context, id uint64) error {
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

var (
	latte    = model.Product{ID: 1, Name: "Caffe Latte", Price: 3.5, Category: "Coffee", ImageURL: "https://img/latte.png"}
	mocha    = model.Product{ID: 2, Name: "Mocha", Price: 4, Category: "Coffee"}
	iceLatte = model.Product{ID: 3, Name: "Iced Latte", Price: 4.2, Category: "Cold"}
)

func TestProductSearch(t *testing.T) {
	store := newMemProducts(latte, mocha, iceLatte)
	h := NewProductHandler(testCommon(), store, nil)

	rec := call(t, h.Search, request{method: http.MethodGet, target: "/?name=LATTE", params: map[string]string{"category": "All"}})
	var page Page[model.Product]
	decodeData(t, rec, &page)
	assert.Equal(t, []model.Product{latte, iceLatte}, page.Items)
	assert.Equal(t, int64(2), page.Metadata.TotalItems)
	assert.Equal(t, repository.ProductFilter{Category: "All", Name: "LATTE"}, store.filters[0])

	rec = call(t, h.Search, request{method: http.MethodGet, target: "/?name=latte", params: map[string]string{"category": "Coffee"}})
	decodeData(t, rec, &page)
	assert.Equal(t, []model.Product{latte}, page.Items)
}

func TestProductList_StoreFailure(t *testing.T) {
	store := newMemProducts()
	store.err = errors.New("connection reset")
	h := NewProductHandler(testCommon(), store, nil)

	rec := call(t, h.List, request{method: http.MethodGet, target: "/"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "internal server error", env.Message)
}

func TestProductUpdate_KeepsImageAndInvalidates(t *testing.T) {
	store := newMemProducts(latte)
	calls := 0
	h := NewProductHandler(testCommon(), store, func(context.Context) error {
		calls++
		return nil
	})

	body := `{"name":"Latte","description":"milky","price":3.8,"category":"Coffee"}`
	rec := call(t, h.Update, request{method: http.MethodPut, target: "/", body: body, as: &admin, params: idParam("1")})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := store.rows[1]
	assert.Equal(t, "Latte", got.Name)
	assert.Equal(t, 3.8, got.Price)
	assert.Equal(t, latte.ImageURL, got.ImageURL)
	assert.Equal(t, 1, calls)
}

func TestProductCreate(t *testing.T) {
	store := newMemProducts()
	calls := 0
	h := NewProductHandler(testCommon(), store, func(context.Context) error {
		calls++
		return errors.New("redis down")
	})

	rec := call(t, h.Create, request{method: http.MethodPost, target: "/", body: `{"name":"Tea","price":2,"category":"Tea"}`, as: &admin})
	require.Equal(t, http.StatusCreated, rec.Code)
	var p model.Product
	decodeData(t, rec, &p)
	assert.Equal(t, uint64(51), p.ID)
	assert.Equal(t, 1, calls)

	rec = call(t, h.Create, request{method: http.MethodPost, target: "/", body: `{"name":"Tea","price":0,"category":"Tea"}`, as: &admin})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "price must be positive", decode(t, rec).Message)
}

func TestProductGetAndDelete_NotFound(t *testing.T) {
	h := NewProductHandler(testCommon(), newMemProducts(), nil)

	rec := call(t, h.Get, request{method: http.MethodGet, target: "/", params: idParam("4")})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product not found", decode(t, rec).Message)

	rec = call(t, h.Delete, request{method: http.MethodDelete, target: "/", as: &admin, params: idParam("4")})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
