package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// ErrEmptyCart is returned by Checkout when the customer has no open lines.
var ErrEmptyCart = fmt.Errorf("%w: cart is empty", ErrConflict)

// OrderRepo manages `orders` and `order_details`.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderColumns = "order_id,customer_id,employee_id,order_date,total_price,payment_method"

func scanOrder(s scanner) (model.Order, error) {
	var (
		o   model.Order
		emp sql.NullInt64
	)
	if err := s.Scan(&o.ID, &o.CustomerID, &emp, &o.OrderDate, &o.TotalPrice, &o.PaymentMethod); err != nil {
		return model.Order{}, err
	}
	if emp.Valid {
		id := uint64(emp.Int64)
		o.EmployeeID = &id
	}
	return o, nil
}

// Checkout moves every open cart line of customerID into a new order inside
// one transaction. The lines are locked, copied into order_details and
// closed. paymentMethod overrides the per-line method when non-empty.
func (r *OrderRepo) Checkout(ctx context.Context, customerID uint64, paymentMethod string, employeeID *uint64) (model.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		"SELECT order_item_id,product_id,quantity,price,total_price,payment_method FROM orderitems WHERE customer_id=? AND status=FALSE ORDER BY order_item_id FOR UPDATE",
		customerID)
	if err != nil {
		return model.Order{}, err
	}
	type line struct {
		id, productID uint64
		qty           int
		price, total  float64
		method        string
	}
	lines, err := collect(rows, func(s scanner) (line, error) {
		var l line
		err := s.Scan(&l.id, &l.productID, &l.qty, &l.price, &l.total, &l.method)
		return l, err
	})
	if err != nil {
		return model.Order{}, err
	}
	if len(lines) == 0 {
		return model.Order{}, ErrEmptyCart
	}

	var total float64
	for _, l := range lines {
		total += l.total
	}
	if paymentMethod == "" {
		paymentMethod = lines[0].method
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (customer_id,employee_id,total_price,payment_method) VALUES (?,?,?,?)",
		customerID, employeeID, total, paymentMethod)
	if err != nil {
		return model.Order{}, translate(err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return model.Order{}, err
	}

	order := model.Order{
		ID:            uint64(orderID),
		CustomerID:    customerID,
		EmployeeID:    employeeID,
		TotalPrice:    total,
		PaymentMethod: paymentMethod,
	}
	ids := make([]any, 0, len(lines))
	for _, l := range lines {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO order_details (order_id,product_id,quantity,price) VALUES (?,?,?,?)",
			orderID, l.productID, l.qty, l.price)
		if err != nil {
			return model.Order{}, translate(err)
		}
		detailID, err := res.LastInsertId()
		if err != nil {
			return model.Order{}, err
		}
		order.Details = append(order.Details, model.OrderDetail{
			ID: uint64(detailID), OrderID: order.ID, ProductID: l.productID, Quantity: l.qty, Price: l.price,
		})
		ids = append(ids, l.id)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	if _, err := tx.ExecContext(ctx,
		"UPDATE orderitems SET status=TRUE WHERE order_item_id IN ("+placeholders+")", ids...); err != nil {
		return model.Order{}, err
	}

	if err := tx.QueryRowContext(ctx, "SELECT order_date FROM orders WHERE order_id=?", orderID).Scan(&order.OrderDate); err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// GetByID loads an order together with its detail lines.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
	o, err := scanOrder(r.DB.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE order_id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return o, ErrNotFound
	}
	if err != nil {
		return o, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT order_detail_id,order_id,product_id,quantity,price FROM order_details WHERE order_id=? ORDER BY order_detail_id", id)
	if err != nil {
		return o, err
	}
	o.Details, err = collect(rows, func(s scanner) (model.OrderDetail, error) {
		var d model.OrderDetail
		err := s.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Quantity, &d.Price)
		return d, err
	})
	return o, err
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID uint64, offset, limit int) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE customer_id=? ORDER BY order_id DESC LIMIT ? OFFSET ?",
		customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanOrder)
}

func (r *OrderRepo) CountByCustomer(ctx context.Context, customerID uint64) (int64, error) {
	return count(ctx, r.DB, "SELECT COUNT(*) FROM orders WHERE customer_id=?", customerID)
}

func (r *OrderRepo) ListAll(ctx context.Context, offset, limit int) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY order_id DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanOrder)
}

func (r *OrderRepo) CountAll(ctx context.Context) (int64, error) {
	return count(ctx, r.DB, "SELECT COUNT(*) FROM orders")
}

// Delete removes an order; its details cascade.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM orders WHERE order_id=?", id)
	return affected(res, err)
}
