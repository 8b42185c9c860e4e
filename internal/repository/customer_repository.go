package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

type CustomerRepo struct{ DB *sql.DB }

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{DB: db} }

const customerColumns = "customer_id,full_name,phone_number,email,password,address,role,refresh_token,refresh_token_expires,registered_at"

func scanCustomer(s scanner) (model.Customer, error) {
	var (
		c       model.Customer
		token   sql.NullString
		expires sql.NullTime
	)
	err := s.Scan(&c.ID, &c.FullName, &c.PhoneNumber, &c.Email, &c.PasswordHash,
		&c.Address, &c.Admin, &token, &expires, &c.RegisteredAt)
	if err != nil {
		return model.Customer{}, err
	}
	if token.Valid {
		c.RefreshToken = &token.String
	}
	if expires.Valid {
		c.RefreshTokenExpires = &expires.Time
	}
	return c, nil
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create inserts c (PasswordHash must already be hashed) and fills in its ID.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	c.Email = normalizeEmail(c.Email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO customers (full_name,phone_number,email,password,address,role) VALUES (?,?,?,?,?,?)",
		c.FullName, c.PhoneNumber, c.Email, c.PasswordHash, c.Address, c.Admin)
	if err != nil {
		if isMySQLError(err, mysqlDuplicateEntry) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a customer by id.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
	c, err := scanCustomer(r.DB.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE customer_id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

// GetByEmail fetches a customer by normalized email.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (model.Customer, error) {
	c, err := scanCustomer(r.DB.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE email=? LIMIT 1", normalizeEmail(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

// List returns one page of customers ordered by id.
func (r *CustomerRepo) List(ctx context.Context, offset, limit int) ([]model.Customer, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+customerColumns+" FROM customers ORDER BY customer_id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCustomer)
}

func (r *CustomerRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.DB, "SELECT COUNT(*) FROM customers")
}

// Update writes the profile fields of c. The password and refresh token
// columns are left alone.
func (r *CustomerRepo) Update(ctx context.Context, c model.Customer) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE customers SET full_name=?,phone_number=?,email=?,address=?,role=? WHERE customer_id=?",
		c.FullName, c.PhoneNumber, normalizeEmail(c.Email), c.Address, c.Admin, c.ID)
	if isMySQLError(err, mysqlDuplicateEntry) {
		return ErrEmailExists
	}
	return affected(res, err)
}

// UpdatePassword replaces the stored hash.
func (r *CustomerRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE customers SET password=? WHERE customer_id=?", hash, id)
	return affected(res, err)
}

func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM customers WHERE customer_id=?", id)
	return affected(res, err)
}

// DeleteAll removes every customer and reports how many rows went.
func (r *CustomerRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM customers")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SaveRefreshToken overwrites the customer's refresh token and expiry.
func (r *CustomerRepo) SaveRefreshToken(ctx context.Context, customerID uint64, token string, expires time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE customers SET refresh_token=?, refresh_token_expires=? WHERE customer_id=?",
		token, expires.UTC(), customerID)
	return affected(res, err)
}

// ClearRefreshToken drops the stored refresh token so it can no longer renew
// access tokens.
func (r *CustomerRepo) ClearRefreshToken(ctx context.Context, customerID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE customers SET refresh_token=NULL, refresh_token_expires=NULL WHERE customer_id=?", customerID)
	return err
}

// ClearExpiredRefreshTokens nulls every refresh token that expired at or
// before now and reports how many rows were cleared.
func (r *CustomerRepo) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE customers SET refresh_token=NULL, refresh_token_expires=NULL WHERE refresh_token_expires<=?", now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FindByRefreshToken looks up the customer whose stored refresh token equals
// token and has not expired at now.
func (r *CustomerRepo) FindByRefreshToken(ctx context.Context, token string, now time.Time) (model.Principal, bool, error) {
	var p model.Principal
	err := r.DB.QueryRowContext(ctx,
		"SELECT customer_id,full_name,email,role FROM customers WHERE refresh_token=? AND refresh_token_expires>? LIMIT 1",
		token, now.UTC()).Scan(&p.ID, &p.FullName, &p.Email, &p.Admin)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Principal{}, false, nil
	}
	if err != nil {
		return model.Principal{}, false, err
	}
	return p, true, nil
}
