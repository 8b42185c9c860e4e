package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coffee-shop-api/internal/auth"
	"github.com/iliyamo/coffee-shop-api/internal/logging"
	"github.com/iliyamo/coffee-shop-api/internal/metrics"
	"github.com/iliyamo/coffee-shop-api/internal/model"
)

type fakeAuth struct {
	res        auth.Result
	err        error
	gotAuth    string
	gotRefresh string
}

func (f *fakeAuth) Authenticate(_ context.Context, authorization, refresh string) (auth.Result, error) {
	f.gotAuth, f.gotRefresh = authorization, refresh
	return f.res, f.err
}

var bob = model.Principal{ID: 9, FullName: "Bob", Email: "bob@example.com"}

func serveSession(t *testing.T, a Authenticator, m *metrics.Metrics, req *http.Request, extra ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	mws := append([]echo.MiddlewareFunc{Session(a, logging.New(logging.EnvProd, "error"), m)}, extra...)
	e.GET("/me", func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, p)
	}, mws...)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSession_Accepts(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	a := &fakeAuth{res: auth.Result{Principal: bob}}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer abc")
	req.Header.Set(HeaderRefreshToken, "ref")

	rec := serveSession(t, a, m, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer abc", a.gotAuth)
	assert.Equal(t, "ref", a.gotRefresh)
	assert.Empty(t, rec.Header().Get(HeaderAccessToken))

	var got model.Principal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, bob, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthOutcomes.WithLabelValues("accepted")))
}

func TestSession_RenewedTokenInHeader(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	a := &fakeAuth{res: auth.Result{Principal: bob, Renewed: true, RenewedAccessToken: "new-access"}}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)

	rec := serveSession(t, a, m, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new-access", rec.Header().Get(HeaderAccessToken))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthOutcomes.WithLabelValues("renewed")))
}

func TestSession_Rejections(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{auth.ErrMissingToken, http.StatusUnauthorized, "missing_token"},
		{auth.ErrInvalidToken, http.StatusForbidden, "invalid_token"},
		{auth.ErrRefreshRequired, http.StatusForbidden, "refresh_required"},
		{auth.ErrRefreshInvalidOrExpired, http.StatusForbidden, "refresh_invalid"},
		{fmt.Errorf("auth: %w", errors.Join(auth.ErrInternal, errors.New("dial tcp: refused"))), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range tests {
		t.Run(tc.wantCode, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())
			rec := serveSession(t, &fakeAuth{err: tc.err}, m, httptest.NewRequest(http.MethodGet, "/me", nil))

			assert.Equal(t, tc.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, tc.wantCode, body["code"])
			assert.NotContains(t, body["message"], "refused")
			assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthOutcomes.WithLabelValues(tc.wantCode)))
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	rec := serveSession(t, &fakeAuth{res: auth.Result{Principal: bob}}, m,
		httptest.NewRequest(http.MethodGet, "/me", nil), RequireAdmin())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := bob
	admin.Admin = true
	rec = serveSession(t, &fakeAuth{res: auth.Result{Principal: admin}}, m,
		httptest.NewRequest(http.MethodGet, "/me", nil), RequireAdmin())
	assert.Equal(t, http.StatusOK, rec.Code)
}
