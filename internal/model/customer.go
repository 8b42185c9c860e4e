package model

import "time"

// Customer represents a row in the `customers` table. The refresh token
// columns hold the single live refresh token for the customer; issuing a
// new one overwrites them.
//
// Fields:
//  ID                  – primary key identifier.
//  FullName            – display name.
//  PhoneNumber         – contact number.
//  Email               – unique login email.
//  PasswordHash        – bcrypt hash, never serialised.
//  Address             – postal address.
//  Admin               – role flag; true grants administrative endpoints.
//  RefreshToken        – current refresh token (nullable).
//  RefreshTokenExpires – expiry of the stored refresh token (nullable).
//  RegisteredAt        – creation timestamp.
type Customer struct {
	ID                  uint64     `json:"customer_id"`  // customers.customer_id
	FullName            string     `json:"full_name"`    // customers.full_name
	PhoneNumber         string     `json:"phone_number"` // customers.phone_number
	Email               string     `json:"email"`        // customers.email
	PasswordHash        string     `json:"-"`            // customers.password
	Address             string     `json:"address"`      // customers.address
	Admin               bool       `json:"role"`         // customers.role
	RefreshToken        *string    `json:"-"`            // customers.refresh_token
	RefreshTokenExpires *time.Time `json:"-"`            // customers.refresh_token_expires
	RegisteredAt        time.Time  `json:"registered_at"`
}

// Principal returns the identity snapshot embedded into tokens.
func (c Customer) Principal() Principal {
	return Principal{ID: c.ID, FullName: c.FullName, Email: c.Email, Admin: c.Admin}
}
