package model

// Principal is the authenticated identity attached to a request. It is a
// snapshot of the customer row taken when a token was minted; changes to the
// row are not visible until a new token is issued.
//
// Fields:
//  ID       – customers.customer_id
//  FullName – customers.full_name
//  Email    – customers.email
//  Admin    – customers.role (true grants the administrative endpoints)
type Principal struct {
	ID       uint64 `json:"customer_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Admin    bool   `json:"role"`
}
