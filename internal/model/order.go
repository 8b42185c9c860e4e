package model

import "time"

// OrderItem is a cart line in the `orderitems` table. Status false means
// the line is still open; checkout flips it to true when the line is moved
// into an order.
type OrderItem struct {
	ID            uint64    `json:"order_item_id"`
	CustomerID    uint64    `json:"customer_id"`
	ProductID     uint64    `json:"product_id"`
	ProductName   string    `json:"product_name,omitempty"` // joined from products
	OrderDate     time.Time `json:"order_date"`
	PaymentMethod string    `json:"payment_method"`
	Quantity      int       `json:"quantity"`
	Price         float64   `json:"price"`
	TotalPrice    float64   `json:"total_price"`
	Status        bool      `json:"status"`
}

// Order is a placed order in the `orders` table.
//
// Fields:
//  ID            – orders.order_id
//  CustomerID    – customer who placed it.
//  EmployeeID    – staff member who handled it (nullable).
//  OrderDate     – when it was placed.
//  TotalPrice    – sum of detail lines.
//  PaymentMethod – cash, card or mobile.
//  Details       – lines from order_details, loaded on demand.
type Order struct {
	ID            uint64        `json:"order_id"`
	CustomerID    uint64        `json:"customer_id"`
	EmployeeID    *uint64       `json:"employee_id"`
	OrderDate     time.Time     `json:"order_date"`
	TotalPrice    float64       `json:"total_price"`
	PaymentMethod string        `json:"payment_method"`
	Details       []OrderDetail `json:"details,omitempty"`
}

// OrderDetail is one product line of an order (`order_details`).
type OrderDetail struct {
	ID        uint64  `json:"order_detail_id"`
	OrderID   uint64  `json:"order_id"`
	ProductID uint64  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
