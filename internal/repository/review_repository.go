package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

const reviewColumns = "review_id,customer_id,review_text,rating,created_at"

func scanReview(s scanner) (model.Review, error) {
	var rv model.Review
	err := s.Scan(&rv.ID, &rv.CustomerID, &rv.ReviewText, &rv.Rating, &rv.CreatedAt)
	return rv, err
}

func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (customer_id,review_text,rating) VALUES (?,?,?)",
		rv.CustomerID, rv.ReviewText, rv.Rating)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (model.Review, error) {
	rv, err := scanReview(r.DB.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE review_id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return rv, ErrNotFound
	}
	return rv, err
}

// List returns the newest reviews first.
func (r *ReviewRepo) List(ctx context.Context, offset, limit int) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews ORDER BY created_at DESC, review_id DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanReview)
}

func (r *ReviewRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.DB, "SELECT COUNT(*) FROM reviews")
}

// DeleteOwned removes the review when it belongs to customerID, or
// unconditionally when anyOwner is set.
func (r *ReviewRepo) DeleteOwned(ctx context.Context, id, customerID uint64, anyOwner bool) error {
	rv, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !anyOwner && rv.CustomerID != customerID {
		return ErrForbidden
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM reviews WHERE review_id=?", id)
	return affected(res, err)
}
