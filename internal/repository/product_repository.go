package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// CategoryAll is the category value that matches every product.
const CategoryAll = "All"

type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = "product_id,name,description,price,category,product_img"

func scanProduct(s scanner) (model.Product, error) {
	var (
		p   model.Product
		img sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &img); err != nil {
		return model.Product{}, err
	}
	p.ImageURL = img.String
	return p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (name,description,price,category,product_img) VALUES (?,?,?,?,?)",
		p.Name, p.Description, p.Price, p.Category, nullable(p.ImageURL))
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE product_id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// ProductFilter narrows a product listing. An empty Category or CategoryAll
// matches every category; Name is a case-insensitive substring match.
type ProductFilter struct {
	Category string
	Name     string
}

func (f ProductFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if c := strings.TrimSpace(f.Category); c != "" && !strings.EqualFold(c, CategoryAll) {
		conds = append(conds, "category=?")
		args = append(args, c)
	}
	if n := strings.TrimSpace(f.Name); n != "" {
		conds = append(conds, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(escapeLike(n))+"%")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of products matching f ordered by id.
func (r *ProductRepo) List(ctx context.Context, f ProductFilter, offset, limit int) ([]model.Product, error) {
	where, args := f.where()
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products"+where+" ORDER BY product_id LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProduct)
}

func (r *ProductRepo) Count(ctx context.Context, f ProductFilter) (int64, error) {
	where, args := f.where()
	return count(ctx, r.DB, "SELECT COUNT(*) FROM products"+where, args...)
}

// Update overwrites every column of p.
func (r *ProductRepo) Update(ctx context.Context, p model.Product) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE products SET name=?,description=?,price=?,category=?,product_img=? WHERE product_id=?",
		p.Name, p.Description, p.Price, p.Category, nullable(p.ImageURL), p.ID)
	return affected(res, err)
}

func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE product_id=?", id)
	return affected(res, err)
}

// nullable stores empty strings as NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
