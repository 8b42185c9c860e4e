package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// ReservationRepo manages table bookings.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationColumns = "reservation_id,customer_id,reservation_date,number_of_people,table_number,status"

func scanReservation(s scanner) (model.Reservation, error) {
	var rv model.Reservation
	err := s.Scan(&rv.ID, &rv.CustomerID, &rv.ReservationDate, &rv.NumberOfPeople, &rv.TableNumber, &rv.Status)
	return rv, err
}

// Create books a table. A new reservation is always pending.
func (r *ReservationRepo) Create(ctx context.Context, rv *model.Reservation) error {
	rv.Status = model.ReservationPending
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reservations (customer_id,reservation_date,number_of_people,table_number,status) VALUES (?,?,?,?,?)",
		rv.CustomerID, rv.ReservationDate.UTC(), rv.NumberOfPeople, rv.TableNumber, rv.Status)
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

func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	rv, err := scanReservation(r.DB.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE reservation_id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return rv, ErrNotFound
	}
	return rv, err
}

func (r *ReservationRepo) ListByCustomer(ctx context.Context, customerID uint64, offset, limit int) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE customer_id=? ORDER BY reservation_date LIMIT ? OFFSET ?",
		customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanReservation)
}

func (r *ReservationRepo) CountByCustomer(ctx context.Context, customerID uint64) (int64, error) {
	return count(ctx, r.DB, "SELECT COUNT(*) FROM reservations WHERE customer_id=?", customerID)
}

func (r *ReservationRepo) ListAll(ctx context.Context, offset, limit int) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations ORDER BY reservation_date LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanReservation)
}

func (r *ReservationRepo) CountAll(ctx context.Context) (int64, error) {
	return count(ctx, r.DB, "SELECT COUNT(*) FROM reservations")
}

// UpdateStatus moves a reservation to status, which must be one of the
// model.Reservation* values.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE reservations SET status=? WHERE reservation_id=?", status, id)
	return affected(res, err)
}

// DeleteOwned removes the reservation when it belongs to customerID.
// Admins pass anyOwner=true to skip the ownership check.
func (r *ReservationRepo) DeleteOwned(ctx context.Context, id, customerID uint64, anyOwner bool) error {
	rv, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !anyOwner && rv.CustomerID != customerID {
		return ErrForbidden
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM reservations WHERE reservation_id=?", id)
	return affected(res, err)
}
