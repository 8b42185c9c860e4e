// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// OrderPlacedEvent is published after a checkout commits. It carries enough
// for downstream consumers to log or notify without querying the database.
type OrderPlacedEvent struct {
	OrderID       uint64      `json:"order_id"`
	CustomerID    uint64      `json:"customer_id"`
	CustomerEmail string      `json:"customer_email"`
	TotalPrice    float64     `json:"total_price"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderLine `json:"items"`
	PlacedAt      string      `json:"placed_at"`
}

// OrderLine is one product line of a placed order.
type OrderLine struct {
	ProductID uint64  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
