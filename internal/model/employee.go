package model

import "time"

// Employee is a staff member (`employees`). Role is free text such as
// Barista, Waiter, Manager or Cashier.
type Employee struct {
	ID          uint64    `json:"employee_id"`
	FullName    string    `json:"full_name"`
	Role        string    `json:"role"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	HireDate    time.Time `json:"hire_date"`
}
