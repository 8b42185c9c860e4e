package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// OrderItemRepo manages cart lines in `orderitems`.
type OrderItemRepo struct{ DB *sql.DB }

func NewOrderItemRepo(db *sql.DB) *OrderItemRepo { return &OrderItemRepo{DB: db} }

const orderItemSelect = `SELECT oi.order_item_id, oi.customer_id, oi.product_id, p.name, oi.order_date,
       oi.payment_method, oi.quantity, oi.price, oi.total_price, oi.status
FROM orderitems oi
JOIN products p ON p.product_id = oi.product_id`

func scanOrderItem(s scanner) (model.OrderItem, error) {
	var it model.OrderItem
	err := s.Scan(&it.ID, &it.CustomerID, &it.ProductID, &it.ProductName, &it.OrderDate,
		&it.PaymentMethod, &it.Quantity, &it.Price, &it.TotalPrice, &it.Status)
	return it, err
}

// Create inserts an open cart line. TotalPrice is derived from Quantity and
// Price.
func (r *OrderItemRepo) Create(ctx context.Context, it *model.OrderItem) error {
	it.TotalPrice = float64(it.Quantity) * it.Price
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO orderitems (customer_id,product_id,payment_method,quantity,price,total_price,status) VALUES (?,?,?,?,?,?,?)",
		it.CustomerID, it.ProductID, it.PaymentMethod, it.Quantity, it.Price, it.TotalPrice, it.Status)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	return nil
}

func (r *OrderItemRepo) GetByID(ctx context.Context, id uint64) (model.OrderItem, error) {
	it, err := scanOrderItem(r.DB.QueryRowContext(ctx, orderItemSelect+" WHERE oi.order_item_id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return it, ErrNotFound
	}
	return it, err
}

// ListOpenByCustomer returns the customer's cart: lines not yet checked out.
func (r *OrderItemRepo) ListOpenByCustomer(ctx context.Context, customerID uint64, offset, limit int) ([]model.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		orderItemSelect+" WHERE oi.customer_id=? AND oi.status=FALSE ORDER BY oi.order_item_id LIMIT ? OFFSET ?",
		customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanOrderItem)
}

func (r *OrderItemRepo) CountOpenByCustomer(ctx context.Context, customerID uint64) (int64, error) {
	return count(ctx, r.DB, "SELECT COUNT(*) FROM orderitems WHERE customer_id=? AND status=FALSE", customerID)
}

// ListAll returns every line regardless of owner or status.
func (r *OrderItemRepo) ListAll(ctx context.Context, offset, limit int) ([]model.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx, orderItemSelect+" ORDER BY oi.order_item_id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanOrderItem)
}

func (r *OrderItemRepo) CountAll(ctx context.Context) (int64, error) {
	return count(ctx, r.DB, "SELECT COUNT(*) FROM orderitems")
}

// Update rewrites the mutable fields of it and recomputes the total.
func (r *OrderItemRepo) Update(ctx context.Context, it *model.OrderItem) error {
	it.TotalPrice = float64(it.Quantity) * it.Price
	res, err := r.DB.ExecContext(ctx,
		"UPDATE orderitems SET product_id=?,payment_method=?,quantity=?,price=?,total_price=?,status=? WHERE order_item_id=?",
		it.ProductID, it.PaymentMethod, it.Quantity, it.Price, it.TotalPrice, it.Status, it.ID)
	return affected(res, err)
}

func (r *OrderItemRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM orderitems WHERE order_item_id=?", id)
	return affected(res, err)
}

func (r *OrderItemRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM orderitems")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
