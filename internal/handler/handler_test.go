package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coffee-shop-api/internal/logging"
	"github.com/iliyamo/coffee-shop-api/internal/middleware"
	"github.com/iliyamo/coffee-shop-api/internal/model"
)

var (
	admin    = model.Principal{ID: 1, FullName: "Root", Email: "root@example.com", Admin: true}
	customer = model.Principal{ID: 7, FullName: "Alice Nguyen", Email: "alice@example.com"}
)

func testCommon() Common {
	return Common{Log: logging.New(logging.EnvProd, "error"), Timeout: time.Second, MaxLimit: 50}
}

// request describes one handler invocation.
type request struct {
	method string
	target string
	body   string
	as     *model.Principal
	params map[string]string
}

func call(t *testing.T, h echo.HandlerFunc, r request) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if r.body != "" {
		req = httptest.NewRequest(r.method, r.target, strings.NewReader(r.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(r.method, r.target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for k, v := range r.params {
		names, values = append(names, k), append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if r.as != nil {
		middleware.SetPrincipal(c, *r.as)
	}
	require.NoError(t, h(c))
	return rec
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	env := decode(t, rec)
	require.Equal(t, "success", env.Status, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func idParam(v string) map[string]string { return map[string]string{"id": v} }
