package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/auth"
	"github.com/iliyamo/coffee-shop-api/internal/metrics"
	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// Header names used by the session gate.
const (
	HeaderRefreshToken = "X-Refresh-Token"
	HeaderAccessToken  = "X-Access-Token"
)

const principalKey = "principal"

// storeTimeout bounds the refresh-record lookup done while renewing.
const storeTimeout = 5 * time.Second

// Authenticator is the part of auth.Manager the gate needs.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization, refreshToken string) (auth.Result, error)
}

// Session guards a route group. It accepts a valid access token on its own,
// renews an expired one when a stored refresh token is presented (returning
// the new token in X-Access-Token) and otherwise rejects the request. The
// authenticated principal is stored on the context for PrincipalFrom.
func Session(a Authenticator, log *slog.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			res, err := a.Authenticate(ctx, req.Header.Get(echo.HeaderAuthorization), req.Header.Get(HeaderRefreshToken))
			cancel()
			if err != nil {
				code := auth.Code(err)
				m.AuthOutcomes.WithLabelValues(code).Inc()
				if code == "internal_error" {
					log.Error("authenticate request", slog.String("path", sanitizePath(req.URL.Path)), slog.Any("error", err))
					return c.JSON(http.StatusInternalServerError, echo.Map{
						"status":  "error",
						"code":    code,
						"message": auth.ErrInternal.Error(),
					})
				}
				return c.JSON(sessionStatus(err), echo.Map{
					"status":  "error",
					"code":    code,
					"message": err.Error(),
				})
			}

			if res.Renewed {
				m.AuthOutcomes.WithLabelValues("renewed").Inc()
				c.Response().Header().Set(HeaderAccessToken, res.RenewedAccessToken)
				log.Debug("access token renewed", slog.Uint64("customer_id", res.Principal.ID))
			} else {
				m.AuthOutcomes.WithLabelValues("accepted").Inc()
			}
			SetPrincipal(c, res.Principal)
			return next(c)
		}
	}
}

// sessionStatus maps a rejection to its HTTP status: a missing token is 401,
// every other client-side failure is 403.
func sessionStatus(err error) int {
	if errors.Is(err, auth.ErrMissingToken) {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}

// SetPrincipal attaches p to the request context.
func SetPrincipal(c echo.Context, p model.Principal) { c.Set(principalKey, p) }

// PrincipalFrom returns the principal stored by Session.
func PrincipalFrom(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(principalKey).(model.Principal)
	return p, ok
}

// RequireAdmin rejects callers whose principal lacks the admin role. It must
// run after Session.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok || !p.Admin {
				return c.JSON(http.StatusForbidden, echo.Map{"status": "error", "message": "admin access required"})
			}
			return next(c)
		}
	}
}
