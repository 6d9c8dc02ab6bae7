package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/buildrs/buildrs-api/internal/log"
	apperrors "github.com/buildrs/buildrs-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountTestController(rs *RouterService) {
	ctrl := NewRESTController("TestController", "/", func(rs *RouterService, c *RESTController) {
		rs.AddGetHandler(c, "ip", func(ctx *RequestContext) *ServiceResult {
			return OKResult(ctx.ClientIP(), "ok")
		})

		rs.AddPostHandler(c, "echo", func(ctx *RequestContext) *ServiceResult {
			var payload map[string]any
			if err := ctx.ShouldBindJSON(&payload); err != nil {
				return BadRequestResult("bad", nil)
			}
			return OKResult(payload, "ok")
		})

		rs.AddGetHandler(c, "plain", func(ctx *RequestContext) *ServiceResult {
			return PlainResult(http.StatusCreated, map[string]any{"count": 3})
		})

		rs.AddGetHandler(c, "nil", func(ctx *RequestContext) *ServiceResult {
			return nil
		})
	})

	rs.MountController(ctrl)
}

func newTestRouterService(t *testing.T) *RouterService {
	t.Helper()

	logger := log.NewLoggerWithJSONOutput()
	return CreateRouterService(logger, &RouterConfig{
		RequestTimeout: 5 * time.Second,
	})
}

func serve(rs *RouterService, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	return w
}

func TestTrustedProxies_DisabledByDefault(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "")

	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	req.Header.Set("X-Forwarded-For", "1.1.1.1")

	w := serve(rs, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Code    int    `json:"code"`
		Data    string `json:"data"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Data != "10.0.0.2" {
		t.Fatalf("expected ClientIP to use RemoteAddr when trusted proxies disabled; got %q", resp.Data)
	}
}

func TestTrustedProxies_StarTrustsForwardedFor(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "*")

	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	req.Header.Set("X-Forwarded-For", "1.1.1.1")

	w := serve(rs, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data string `json:"data"`
	}
	if err := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Data != "1.1.1.1" {
		t.Fatalf("expected ClientIP to use X-Forwarded-For when trusted proxies enabled; got %q", resp.Data)
	}
}

func TestMaxBodySize_Returns413(t *testing.T) {
	t.Setenv("MAX_REQUEST_BODY_BYTES", "10")

	rs := newTestRouterService(t)
	mountTestController(rs)

	body := bytes.Repeat([]byte{'a'}, 50)
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := serve(rs, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPlainResult_WritesBodyWithoutEnvelope(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	w := serve(rs, httptest.NewRequest(http.MethodGet, "/plain", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"count":3}`, w.Body.String())
}

func TestNilHandlerResult_Returns500(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	w := serve(rs, httptest.NewRequest(http.MethodGet, "/nil", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNoRoute_ReturnsEnvelope(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	w := serve(rs, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":404,"data":null,"message":"Route not found"}`, w.Body.String())
}

func TestNoMethod_Returns405(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	w := serve(rs, httptest.NewRequest(http.MethodDelete, "/echo", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCorrelationID_EchoedBack(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Correlation-ID", "corr-1")

	w := serve(rs, req)
	assert.Equal(t, "corr-1", w.Header().Get("X-Correlation-ID"))

	w = serve(rs, httptest.NewRequest(http.MethodGet, "/ip", nil))
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestCORS_AllowsExactAndWildcardOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGIN", "http://localhost:3000, https://*.buildrs.dev")

	rs := newTestRouterService(t)
	mountTestController(rs)

	for _, origin := range []string{"http://localhost:3000", "https://app.buildrs.dev", "https://preview.buildrs.dev:8443"} {
		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		req.Header.Set("Origin", origin)

		w := serve(rs, req)
		assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"), "origin %s", origin)
	}
}

func TestCORS_RejectsUnknownOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://*.buildrs.dev")

	rs := newTestRouterService(t)
	mountTestController(rs)

	for _, origin := range []string{"https://buildrs.dev.evil.com", "http://app.buildrs.dev", "https://evilbuildrs.dev"} {
		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		req.Header.Set("Origin", origin)

		w := serve(rs, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), "origin %s", origin)
	}
}

func TestCORS_PreflightReturns204(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://buildrs.dev")

	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodOptions, "/echo", nil)
	req.Header.Set("Origin", "https://buildrs.dev")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := serve(rs, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestTrustedHosts(t *testing.T) {
	t.Setenv("ALLOWED_HOSTS", "api.buildrs.dev, *.buildrs.dev")

	rs := newTestRouterService(t)
	mountTestController(rs)

	cases := map[string]int{
		"api.buildrs.dev":      http.StatusOK,
		"www.buildrs.dev:8080": http.StatusOK,
		"buildrs.dev":          http.StatusBadRequest,
		"example.com":          http.StatusBadRequest,
	}

	for host, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		req.Host = host

		w := serve(rs, req)
		assert.Equal(t, want, w.Code, "host %s", host)
	}
}

func TestTrustedHosts_EmptyAllowsAll(t *testing.T) {
	t.Setenv("ALLOWED_HOSTS", "")

	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Host = "anything.example"

	assert.Equal(t, http.StatusOK, serve(rs, req).Code)
}

func TestHSTS_OnlyForHTTPSInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HSTS_ENABLED", "")
	t.Setenv("HSTS_MAX_AGE", "600")
	t.Setenv("HSTS_INCLUDE_SUBDOMAINS", "false")

	rs := newTestRouterService(t)
	mountTestController(rs)

	w := serve(rs, httptest.NewRequest(http.MethodGet, "/ip", nil))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = serve(rs, req)
	assert.Equal(t, "max-age=600", w.Header().Get("Strict-Transport-Security"))
}

func TestMetrics_EndpointAndRegisterer(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "true")

	rs := newTestRouterService(t)
	mountTestController(rs)
	require.NotNil(t, rs.MetricsRegisterer())

	serve(rs, httptest.NewRequest(http.MethodGet, "/ip", nil))
	w := serve(rs, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/ip",status="200"} 1`)
	assert.Contains(t, w.Body.String(), "http_requests_in_flight")
	assert.NotContains(t, w.Body.String(), `route="/metrics"`)
}

func TestMetrics_Disabled(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "false")

	rs := newTestRouterService(t)

	assert.Nil(t, rs.MetricsRegisterer())
	assert.Equal(t, http.StatusNotFound, serve(rs, httptest.NewRequest(http.MethodGet, "/metrics", nil)).Code)
}

func TestMountController_DuplicateRoutePanics(t *testing.T) {
	rs := newTestRouterService(t)
	mountTestController(rs)

	other := NewRESTController("Other", "/", func(rs *RouterService, c *RESTController) {
		rs.AddGetHandler(c, "ip", func(ctx *RequestContext) *ServiceResult { return OKResult(nil, "") })
	})

	assert.Panics(t, func() { rs.MountController(other) })
}

func TestNormalizePath(t *testing.T) {
	root := NewRESTController("root", "/", nil)
	waitlist := NewRESTController("waitlist", "waitlist", nil)
	nested := NewRESTController("nested", "/internal/", nil)

	assert.Equal(t, "/", normalizePath(root, ""))
	assert.Equal(t, "/health", normalizePath(root, "health"))
	assert.Equal(t, "/waitlist", normalizePath(waitlist, ""))
	assert.Equal(t, "/waitlist/count", normalizePath(waitlist, "count"))
	assert.Equal(t, "/internal/stats", normalizePath(nested, "/stats/"))
}

func TestAppErrorResult(t *testing.T) {
	dup := AppErrorResult(apperrors.NewDuplicateEntryError("Email already on waitlist", nil))
	assert.Equal(t, http.StatusBadRequest, dup.StatusCode)
	assert.Equal(t, "Email already on waitlist", dup.Message)

	raw := AppErrorResult(errors.New(`pq: relation "waitlist_entries" does not exist`))
	assert.Equal(t, http.StatusInternalServerError, raw.StatusCode)
	assert.Equal(t, "An unexpected error occurred", raw.Message)
	assert.True(t, raw.IsServerError())
}
