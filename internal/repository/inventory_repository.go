package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

type InventoryRepo struct{ DB *sql.DB }

func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{DB: db} }

const inventoryColumns = "inventory_id,item_name,quantity,unit,restocked_at"

func scanInventory(s scanner) (model.InventoryItem, error) {
	var (
		it model.InventoryItem
		at sql.NullTime
	)
	if err := s.Scan(&it.ID, &it.ItemName, &it.Quantity, &it.Unit, &at); err != nil {
		return model.InventoryItem{}, err
	}
	if at.Valid {
		it.RestockedAt = &at.Time
	}
	return it, nil
}

func (r *InventoryRepo) Create(ctx context.Context, it *model.InventoryItem) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO inventory (item_name,quantity,unit,restocked_at) VALUES (?,?,?,?)",
		it.ItemName, it.Quantity, it.Unit, it.RestockedAt)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	return nil
}

func (r *InventoryRepo) GetByID(ctx context.Context, id uint64) (model.InventoryItem, error) {
	it, err := scanInventory(r.DB.QueryRowContext(ctx,
		"SELECT "+inventoryColumns+" FROM inventory WHERE inventory_id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return it, ErrNotFound
	}
	return it, err
}

func (r *InventoryRepo) List(ctx context.Context, offset, limit int) ([]model.InventoryItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+inventoryColumns+" FROM inventory ORDER BY inventory_id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanInventory)
}

func (r *InventoryRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.DB, "SELECT COUNT(*) FROM inventory")
}

func (r *InventoryRepo) Update(ctx context.Context, it model.InventoryItem) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE inventory SET item_name=?,quantity=?,unit=?,restocked_at=? WHERE inventory_id=?",
		it.ItemName, it.Quantity, it.Unit, it.RestockedAt, it.ID)
	return affected(res, err)
}

// Restock adds amount to the stock level and stamps restocked_at.
func (r *InventoryRepo) Restock(ctx context.Context, id uint64, amount int, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE inventory SET quantity=quantity+?, restocked_at=? WHERE inventory_id=?", amount, at.UTC(), id)
	return affected(res, err)
}

func (r *InventoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM inventory WHERE inventory_id=?", id)
	return affected(res, err)
}
