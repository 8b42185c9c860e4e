package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

var productCols = []string{"product_id", "name", "description", "price", "category", "product_img"}

func TestProductFilter_Where(t *testing.T) {
	tests := []struct {
		name      string
		filter    ProductFilter
		wantWhere string
		wantArgs  []any
	}{
		{"empty", ProductFilter{}, "", nil},
		{"all category", ProductFilter{Category: "All"}, "", nil},
		{"all lower case", ProductFilter{Category: "all"}, "", nil},
		{"category", ProductFilter{Category: "Coffee"}, " WHERE category=?", []any{"Coffee"}},
		{"name", ProductFilter{Name: "Latte"}, " WHERE LOWER(name) LIKE ?", []any{"%latte%"}},
		{"both", ProductFilter{Category: "Tea", Name: "100%"}, " WHERE category=? AND LOWER(name) LIKE ?", []any{"Tea", `%100\%%`}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			where, args := tc.filter.where()
			assert.Equal(t, tc.wantWhere, where)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestProductList_ByCategory(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+productColumns+" FROM products WHERE category=? ORDER BY product_id LIMIT ? OFFSET ?")).
		WithArgs("Coffee", 10, 0).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(1, "Espresso", "Short", 2.5, "Coffee", "https://img/espresso.png").
			AddRow(2, "Americano", "Long", 3.0, "Coffee", nil))

	got, err := repo.List(context.Background(), ProductFilter{Category: "Coffee"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "https://img/espresso.png", got[0].ImageURL)
	assert.Empty(t, got[1].ImageURL)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE category=?")).
		WithArgs("Coffee").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
	n, err := repo.Count(context.Background(), ProductFilter{Category: "Coffee"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestProductCreateGetUpdateDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepo(db)

	mock.ExpectExec("INSERT INTO products").
		WithArgs("Mocha", "Chocolate", 4.5, "Coffee", sql.NullString{}).
		WillReturnResult(sqlmock.NewResult(9, 1))
	p := &model.Product{Name: "Mocha", Description: "Chocolate", Price: 4.5, Category: "Coffee"}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, uint64(9), p.ID)

	mock.ExpectQuery("FROM products WHERE product_id=").
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)
	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectExec("UPDATE products SET").
		WithArgs("Mocha", "Chocolate", 5.0, "Coffee", sql.NullString{String: "x.png", Valid: true}, uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	p.Price, p.ImageURL = 5.0, "x.png"
	require.NoError(t, repo.Update(context.Background(), *p))

	mock.ExpectExec("DELETE FROM products").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 9), ErrNotFound)
}
