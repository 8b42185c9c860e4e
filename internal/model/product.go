package model

// Product is a menu item in the `products` table. ImageURL points at an
// externally hosted image; uploads are not handled by this service.
type Product struct {
	ID          uint64  `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"product_img"`
}
