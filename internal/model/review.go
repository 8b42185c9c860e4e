package model

import "time"

// Review is a customer review (`reviews`). Rating is 1 to 5.
type Review struct {
	ID         uint64    `json:"review_id"`
	CustomerID uint64    `json:"customer_id"`
	ReviewText string    `json:"review_text"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}
