package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

func TestEmployeeCRUD(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEmployeeRepo(db)
	hired := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO employees").
		WithArgs("Duc Pham", "Barista", "0903", "duc@example.com", hired).
		WillReturnResult(sqlmock.NewResult(4, 1))
	e := &model.Employee{FullName: "Duc Pham", Role: "Barista", PhoneNumber: "0903", Email: "duc@example.com", HireDate: hired}
	require.NoError(t, repo.Create(context.Background(), e))
	assert.Equal(t, uint64(4), e.ID)

	mock.ExpectQuery("FROM employees ORDER BY employee_id").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "full_name", "role", "phone_number", "email", "hire_date"}).
			AddRow(4, "Duc Pham", "Barista", "0903", "duc@example.com", hired))
	list, err := repo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []model.Employee{*e}, list)

	mock.ExpectExec("UPDATE employees SET").
		WithArgs("Duc Pham", "Manager", "0903", "duc@example.com", hired, uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	e.Role = "Manager"
	require.NoError(t, repo.Update(context.Background(), *e))

	mock.ExpectQuery("FROM employees WHERE employee_id=").
		WithArgs(uint64(5)).
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectExec("DELETE FROM employees").
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 4))
}
