package handler

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

type EmployeeStore interface {
	Create(ctx context.Context, e *model.Employee) error
	GetByID(ctx context.Context, id uint64) (model.Employee, error)
	List(ctx context.Context, offset, limit int) ([]model.Employee, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, e model.Employee) error
	Delete(ctx context.Context, id uint64) error
}

// EmployeeHandler is mounted behind RequireAdmin.
type EmployeeHandler struct {
	Common
	Employees EmployeeStore
}

func NewEmployeeHandler(common Common, employees EmployeeStore) *EmployeeHandler {
	return &EmployeeHandler{Common: common, Employees: employees}
}

type employeeReq struct {
	FullName    string `json:"full_name"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	HireDate    string `json:"hire_date"`
}

func (r employeeReq) toModel() (model.Employee, string) {
	e := model.Employee{
		FullName:    strings.TrimSpace(r.FullName),
		Role:        strings.TrimSpace(r.Role),
		PhoneNumber: strings.TrimSpace(r.PhoneNumber),
		Email:       strings.ToLower(strings.TrimSpace(r.Email)),
	}
	switch {
	case e.FullName == "":
		return e, "full_name is required"
	case e.Role == "":
		return e, "role is required"
	case e.PhoneNumber == "":
		return e, "phone_number is required"
	}
	if _, err := mail.ParseAddress(e.Email); err != nil {
		return e, "email is invalid"
	}
	d, err := parseDate(r.HireDate)
	if err != nil {
		return e, "hire_date must be YYYY-MM-DD or RFC 3339"
	}
	e.HireDate = d
	return e, ""
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func (h *EmployeeHandler) List(c echo.Context) error {
	p := h.page(c)
	ctx, cancel := h.ctx(c)
	defer cancel()

	items, err := h.Employees.List(ctx, p.Offset, p.Limit)
	if err != nil {
		return h.storeErr(c, err, "employee")
	}
	total, err := h.Employees.Count(ctx)
	if err != nil {
		return h.storeErr(c, err, "employee")
	}
	return list(c, p, items, total)
}

func (h *EmployeeHandler) Get(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	e, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		return h.storeErr(c, err, "employee")
	}
	return ok(c, http.StatusOK, e)
}

func (h *EmployeeHandler) Create(c echo.Context) error {
	var req employeeReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	e, msg := req.toModel()
	if msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Employees.Create(ctx, &e); err != nil {
		return h.storeErr(c, err, "employee")
	}
	return ok(c, http.StatusCreated, e)
}

func (h *EmployeeHandler) Update(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req employeeReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	e, msg := req.toModel()
	if msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	e.ID = id
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Employees.Update(ctx, e); err != nil {
		return h.storeErr(c, err, "employee")
	}
	return ok(c, http.StatusOK, e)
}

func (h *EmployeeHandler) Delete(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Employees.Delete(ctx, id); err != nil {
		return h.storeErr(c, err, "employee")
	}
	return c.NoContent(http.StatusNoContent)
}
