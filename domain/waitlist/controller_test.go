package waitlist

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/buildrs/buildrs-api/config/router"
	"github.com/buildrs/buildrs-api/internal/log"
	"github.com/buildrs/buildrs-api/internal/models"
	apperrors "github.com/buildrs/buildrs-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newControllerRouter(t *testing.T) (*router.RouterService, *MockWaitlistRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()

	rs := router.CreateRouterService(logger, &router.RouterConfig{RequestTimeout: 5 * time.Second})
	rs.MountController(NewWaitlistController(NewWaitlistService(logger, repo, nil, nil)))

	return rs, repo
}

func doRequest(rs *router.RouterService, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	return w
}

func TestRegisterHandler(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("created", func(t *testing.T) {
		rs, repo := newControllerRouter(t)
		repo.EXPECT().Exists(gomock.Any(), "new@example.com").Return(false, nil)
		repo.EXPECT().
			Insert(gomock.Any(), "new@example.com").
			Return(&models.WaitlistEntry{ID: 9, Email: "new@example.com", CreatedAt: createdAt}, nil)

		w := doRequest(rs, http.MethodPost, "/waitlist", `{"email":"New@Example.com"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{
			"id": 9,
			"email": "new@example.com",
			"created_at": "2026-03-01T12:00:00Z",
			"message": "Successfully added to waitlist! 🎉"
		}`, w.Body.String())
	})

	t.Run("duplicate", func(t *testing.T) {
		rs, repo := newControllerRouter(t)
		repo.EXPECT().Exists(gomock.Any(), "dup@example.com").Return(true, nil)

		w := doRequest(rs, http.MethodPost, "/waitlist", `{"email":"dup@example.com"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"code":400,"data":null,"message":"Email already on waitlist"}`, w.Body.String())
	})

	t.Run("invalid email", func(t *testing.T) {
		rs, _ := newControllerRouter(t)

		w := doRequest(rs, http.MethodPost, "/waitlist", `{"email":"not-an-email"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.JSONEq(t, `{"code":422,"data":null,"message":"Invalid email address"}`, w.Body.String())
	})

	t.Run("missing email", func(t *testing.T) {
		rs, _ := newControllerRouter(t)

		w := doRequest(rs, http.MethodPost, "/waitlist", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"email"`)
	})

	t.Run("malformed body", func(t *testing.T) {
		rs, _ := newControllerRouter(t)

		w := doRequest(rs, http.MethodPost, "/waitlist", `{"email":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong type", func(t *testing.T) {
		rs, _ := newControllerRouter(t)

		w := doRequest(rs, http.MethodPost, "/waitlist", `{"email":42}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		rs, repo := newControllerRouter(t)
		repo.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewDatabaseError(msgInsertFailed, errors.New("pq: connection refused")))

		w := doRequest(rs, http.MethodPost, "/waitlist", `{"email":"ok@example.com"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"code":500,"data":null,"message":"Failed to add to waitlist"}`, w.Body.String())
	})
}

func TestCountHandler(t *testing.T) {
	t.Run("count", func(t *testing.T) {
		rs, repo := newControllerRouter(t)
		repo.EXPECT().Count(gomock.Any()).Return(int64(12), nil)

		w := doRequest(rs, http.MethodGet, "/waitlist/count", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"count":12}`, w.Body.String())
	})

	t.Run("storage failure", func(t *testing.T) {
		rs, repo := newControllerRouter(t)
		repo.EXPECT().Count(gomock.Any()).Return(int64(0), apperrors.NewDatabaseError(msgCountFailed, errors.New("boom")))

		w := doRequest(rs, http.MethodGet, "/waitlist/count", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"code":500,"data":null,"message":"Failed to fetch waitlist count"}`, w.Body.String())
	})
}

func TestFactory_CreateController(t *testing.T) {
	logger := log.NewLoggerWithJSONOutput()
	rs := router.CreateRouterService(logger, &router.RouterConfig{RequestTimeout: time.Second})

	factory := NewWaitlistServiceFactory(newTestDB(t), logger, FactoryOptions{Registerer: rs.MetricsRegisterer()})
	rs.MountController(factory.CreateController())

	w := doRequest(rs, http.MethodPost, "/waitlist", `{"email":"factory@example.com"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(rs, http.MethodGet, "/waitlist/count", "")
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	w = doRequest(rs, http.MethodGet, "/metrics", "")
	assert.Contains(t, w.Body.String(), `waitlist_signups_total{outcome="created"} 1`)
}
