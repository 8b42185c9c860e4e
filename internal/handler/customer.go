package handler

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/auth"
	"github.com/iliyamo/coffee-shop-api/internal/model"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
	"github.com/iliyamo/coffee-shop-api/internal/utils"
)

// CustomerStore is the persistence CustomerHandler needs.
type CustomerStore interface {
	Create(ctx context.Context, c *model.Customer) error
	GetByID(ctx context.Context, id uint64) (model.Customer, error)
	GetByEmail(ctx context.Context, email string) (model.Customer, error)
	List(ctx context.Context, offset, limit int) ([]model.Customer, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, c model.Customer) error
	UpdatePassword(ctx context.Context, id uint64, hash string) error
	Delete(ctx context.Context, id uint64) error
	DeleteAll(ctx context.Context) (int64, error)
	ClearRefreshToken(ctx context.Context, id uint64) error
}

// TokenIssuer mints and persists a token pair for a principal.
type TokenIssuer interface {
	Issue(ctx context.Context, p model.Principal) (auth.TokenPair, error)
}

// CustomerHandler serves registration, login and customer management.
type CustomerHandler struct {
	Common
	Customers  CustomerStore
	Tokens     TokenIssuer
	BcryptCost int
}

func NewCustomerHandler(common Common, customers CustomerStore, tokens TokenIssuer, bcryptCost int) *CustomerHandler {
	return &CustomerHandler{Common: common, Customers: customers, Tokens: tokens, BcryptCost: bcryptCost}
}

// Column widths of the customers table.
const (
	maxNameLen    = 255
	maxPhoneLen   = 32
	maxEmailLen   = 255
	maxAddressLen = 255
)

// ----- DTOs -----

type customerReq struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Address     string `json:"address"`
	Role        *bool  `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResp struct {
	Customer model.Customer `json:"customer"`
	auth.TokenPair
}

// validate checks the profile fields. The password is required only when
// requirePassword is set; when present it must be long enough.
func (r *customerReq) validate(requirePassword bool) string {
	r.FullName = strings.TrimSpace(r.FullName)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Address = strings.TrimSpace(r.Address)

	switch {
	case r.FullName == "":
		return "full_name is required"
	case r.PhoneNumber == "":
		return "phone_number is required"
	case r.Email == "":
		return "email is required"
	case r.Address == "":
		return "address is required"
	case requirePassword && r.Password == "":
		return "password is required"
	case utf8.RuneCountInString(r.FullName) > maxNameLen:
		return "full_name is too long"
	case utf8.RuneCountInString(r.PhoneNumber) > maxPhoneLen:
		return "phone_number is too long"
	case utf8.RuneCountInString(r.Email) > maxEmailLen:
		return "email is too long"
	case utf8.RuneCountInString(r.Address) > maxAddressLen:
		return "address is too long"
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return "email is invalid"
	}
	if r.Password != "" {
		if err := utils.ValidatePassword(r.Password); err != nil {
			return err.Error()
		}
	}
	return ""
}

// Register creates a customer and returns it with a fresh token pair. New
// accounts never get the admin role; an admin grants it through Update.
func (h *CustomerHandler) Register(c echo.Context) error {
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if msg := req.validate(true); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return h.storeErr(c, err, "customer")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	cust := model.Customer{
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		PasswordHash: hash,
		Address:      req.Address,
	}
	if err := h.Customers.Create(ctx, &cust); err != nil {
		return h.storeErr(c, err, "customer")
	}
	created, err := h.Customers.GetByID(ctx, cust.ID)
	if err != nil {
		return h.storeErr(c, err, "customer")
	}
	pair, err := h.Tokens.Issue(ctx, created.Principal())
	if err != nil {
		return h.storeErr(c, err, "session")
	}
	return ok(c, http.StatusCreated, sessionResp{Customer: created, TokenPair: pair})
}

// Login verifies credentials and returns a new token pair, replacing any
// refresh token issued before.
func (h *CustomerHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email and password are required")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	cust, err := h.Customers.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusUnauthorized, "invalid email or password")
	}
	if err != nil {
		return h.storeErr(c, err, "customer")
	}
	if !utils.VerifyPassword(cust.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "invalid email or password")
	}
	pair, err := h.Tokens.Issue(ctx, cust.Principal())
	if err != nil {
		return h.storeErr(c, err, "session")
	}
	return ok(c, http.StatusOK, sessionResp{Customer: cust, TokenPair: pair})
}

// Logout drops the caller's stored refresh token. The access token stays
// valid until it expires.
func (h *CustomerHandler) Logout(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.Customers.ClearRefreshToken(ctx, principal(c).ID); err != nil {
		return h.storeErr(c, err, "session")
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the principal attached by the session gate.
func (h *CustomerHandler) Me(c echo.Context) error {
	return ok(c, http.StatusOK, principal(c))
}

func (h *CustomerHandler) List(c echo.Context) error {
	p := h.page(c)
	ctx, cancel := h.ctx(c)
	defer cancel()

	items, err := h.Customers.List(ctx, p.Offset, p.Limit)
	if err != nil {
		return h.storeErr(c, err, "customer")
	}
	total, err := h.Customers.Count(ctx)
	if err != nil {
		return h.storeErr(c, err, "customer")
	}
	return list(c, p, items, total)
}

func (h *CustomerHandler) Get(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if !canAccess(c, id) {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	cust, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		return h.storeErr(c, err, "customer")
	}
	return ok(c, http.StatusOK, cust)
}

// Update replaces the profile of a customer. Only admins may change the role
// flag; for everyone else it keeps its stored value. A non-empty password is
// re-hashed and stored.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if !canAccess(c, id) {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if msg := req.validate(false); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	cust, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		return h.storeErr(c, err, "customer")
	}
	cust.FullName, cust.PhoneNumber, cust.Email, cust.Address = req.FullName, req.PhoneNumber, req.Email, req.Address
	if req.Role != nil && principal(c).Admin {
		cust.Admin = *req.Role
	}
	if err := h.Customers.Update(ctx, cust); err != nil {
		return h.storeErr(c, err, "customer")
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password, h.BcryptCost)
		if err != nil {
			return h.storeErr(c, err, "customer")
		}
		if err := h.Customers.UpdatePassword(ctx, id, hash); err != nil {
			return h.storeErr(c, err, "customer")
		}
	}
	return ok(c, http.StatusOK, cust)
}

func (h *CustomerHandler) Delete(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if !canAccess(c, id) {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Customers.Delete(ctx, id); err != nil {
		return h.storeErr(c, err, "customer")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CustomerHandler) DeleteAll(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	n, err := h.Customers.DeleteAll(ctx)
	if err != nil {
		return h.storeErr(c, err, "customer")
	}
	return ok(c, http.StatusOK, echo.Map{"deleted": n})
}
