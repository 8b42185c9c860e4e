package model

import "time"

// Reservation statuses.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

// ValidReservationStatus reports whether s is one of the known statuses.
func ValidReservationStatus(s string) bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled:
		return true
	}
	return false
}

// Reservation is a table booking (`reservations`).
type Reservation struct {
	ID              uint64    `json:"reservation_id"`
	CustomerID      uint64    `json:"customer_id"`
	ReservationDate time.Time `json:"reservation_date"`
	NumberOfPeople  int       `json:"number_of_people"`
	TableNumber     int       `json:"table_number"`
	Status          string    `json:"status"`
}
