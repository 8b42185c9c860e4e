package model

import "time"

// InventoryItem is a stock line (`inventory`).
type InventoryItem struct {
	ID          uint64     `json:"inventory_id"`
	ItemName    string     `json:"item_name"`
	Quantity    int        `json:"quantity"`
	Unit        string     `json:"unit"`
	RestockedAt *time.Time `json:"restocked_at"`
}
