package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

type EmployeeRepo struct{ DB *sql.DB }

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{DB: db} }

const employeeColumns = "employee_id,full_name,role,phone_number,email,hire_date"

func scanEmployee(s scanner) (model.Employee, error) {
	var e model.Employee
	err := s.Scan(&e.ID, &e.FullName, &e.Role, &e.PhoneNumber, &e.Email, &e.HireDate)
	return e, err
}

func (r *EmployeeRepo) Create(ctx context.Context, e *model.Employee) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO employees (full_name,role,phone_number,email,hire_date) VALUES (?,?,?,?,?)",
		e.FullName, e.Role, e.PhoneNumber, e.Email, e.HireDate)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id uint64) (model.Employee, error) {
	e, err := scanEmployee(r.DB.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE employee_id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrNotFound
	}
	return e, err
}

func (r *EmployeeRepo) List(ctx context.Context, offset, limit int) ([]model.Employee, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+employeeColumns+" FROM employees ORDER BY employee_id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanEmployee)
}

func (r *EmployeeRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.DB, "SELECT COUNT(*) FROM employees")
}

func (r *EmployeeRepo) Update(ctx context.Context, e model.Employee) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE employees SET full_name=?,role=?,phone_number=?,email=?,hire_date=? WHERE employee_id=?",
		e.FullName, e.Role, e.PhoneNumber, e.Email, e.HireDate, e.ID)
	return affected(res, err)
}

func (r *EmployeeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM employees WHERE employee_id=?", id)
	return affected(res, err)
}
