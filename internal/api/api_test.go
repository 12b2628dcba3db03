package api_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cyberstore/internal/api"
	"github.com/mcoot/cyberstore/internal/api/apierr"
	"github.com/mcoot/cyberstore/internal/api/response"
	"github.com/mcoot/cyberstore/internal/factory"
	"github.com/mcoot/cyberstore/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	require.NoError(t, app.AuthService.Initialize(context.Background()))

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		AuthService:    app.AuthService,
		CatalogService: app.CatalogService,
		Exporter:       app.Exporter,
		Registry:       prometheus.NewRegistry(),
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) login(t *testing.T) {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "admin"})
	require.Equal(t, http.StatusOK, rr.Code)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rr).Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "admin"})
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.Session](t, rr)
	assert.Equal(t, "admin", resp.User.Username)
	assert.Equal(t, "admin", resp.User.Role)
	assert.Equal(t, 1, resp.OnlineCount)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, errorCode(t, rr))
}

func TestLoginValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/auth/register", map[string]string{"username": "alice", "password": "pw"})
	require.Equal(t, http.StatusCreated, rr.Code)
	user := decode[response.User](t, rr)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "user", user.Role)

	// registering does not log in
	rr = ts.request(http.MethodGet, "/api/v1/auth/session", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/auth/register", map[string]string{"username": "alice", "password": "x"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeUsernameExists, errorCode(t, rr))
}

func TestSessionAndLogout(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodGet, "/api/v1/auth/session", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "admin", decode[response.Session](t, rr).User.Username)

	rr = ts.request(http.MethodPost, "/api/v1/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, rr))
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	ts := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/games"},
		{http.MethodPost, "/api/v1/games"},
		{http.MethodGet, "/api/v1/games/1"},
		{http.MethodPatch, "/api/v1/games/1"},
		{http.MethodDelete, "/api/v1/games/1"},
		{http.MethodGet, "/api/v1/games/export"},
		{http.MethodGet, "/api/v1/stats"},
		{http.MethodPost, "/api/v1/auth/logout"},
	} {
		rr := ts.request(route.method, route.path, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", route.method, route.path)
	}
}

func TestListGamesPaginated(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodGet, "/api/v1/games", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	list := decode[response.GameList](t, rr)
	assert.Len(t, list.Items, 5)
	assert.Equal(t, 6, list.Total)
	assert.Equal(t, 2, list.TotalPages)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, "pagination", list.View)
	assert.Equal(t, "page=1&view=pagination", list.Query)

	rr = ts.request(http.MethodGet, "/api/v1/games?page=2", nil)
	list = decode[response.GameList](t, rr)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Hollow Knight", list.Items[0].Name)
}

func TestListGamesFiltered(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodGet, "/api/v1/games?name=ha&author=super&minPrice=10&maxPrice=30", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	list := decode[response.GameList](t, rr)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Hades", list.Items[0].Name)

	values, err := url.ParseQuery(list.Query)
	require.NoError(t, err)
	assert.Equal(t, "ha", values.Get("name"))
	assert.Equal(t, "30", values.Get("maxPrice"))
}

func TestListGamesScroll(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodGet, "/api/v1/games?view=scroll&page=2", nil)
	list := decode[response.GameList](t, rr)
	assert.Len(t, list.Items, 6)
	assert.Equal(t, "view=scroll", list.Query)
}

func TestCreateAndGetGame(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	body := map[string]any{"name": "Celeste", "author": "Maddy", "price": 19.99}
	rr := ts.request(http.MethodPost, "/api/v1/games", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	created := decode[response.Game](t, rr)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2024-01-01", created.ReleaseDate)
	assert.Nil(t, created.Description)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Celeste", decode[response.Game](t, rr).Name)

	rr = ts.request(http.MethodGet, "/api/v1/games", nil)
	assert.Equal(t, created.ID, decode[response.GameList](t, rr).Items[0].ID)
}

func TestCreateGameValidation(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{"name": "Celeste", "price": -5})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestGetUnknownGame(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/404", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeGameNotFound, errorCode(t, rr))
}

func TestUpdateGame(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodPatch, "/api/v1/games/3", map[string]any{"price": 9.99})
	require.Equal(t, http.StatusOK, rr.Code)
	game := decode[response.Game](t, rr)
	assert.Equal(t, 9.99, game.Price)
	assert.Equal(t, "Hades", game.Name)
}

func TestUpdateUnknownGameIsSilent(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodPatch, "/api/v1/games/404", map[string]any{"name": "Ghost"})
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games", nil)
	assert.Equal(t, 6, decode[response.GameList](t, rr).Total)
}

func TestDeleteGame(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodDelete, "/api/v1/games/1", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Header().Get("X-Next-Query"))

	rr = ts.request(http.MethodGet, "/api/v1/games/1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// deleting again is a no-op
	rr = ts.request(http.MethodDelete, "/api/v1/games/1", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestDeleteLastOnPageStepsBack(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodDelete, "/api/v1/games/6?view=pagination&page=2", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "page=1&view=pagination", rr.Header().Get("X-Next-Query"))
}

func TestDeleteIgnoresUnrelatedParams(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodDelete, "/api/v1/games/6?format=csv", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Header().Get("X-Next-Query"))
}

func TestExportCSV(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/export?format=csv&maxPrice=25&page=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "CyberStore_Export_1704110400000.csv")

	body := strings.TrimPrefix(rr.Body.String(), "\ufeff")
	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	// page is ignored: the whole filtered set is exported
	assert.Len(t, records, 4)
	assert.Equal(t, "游戏ID", records[0][0])
}

func TestExportXLSXByDefault(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/export", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), ".xlsx")
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("PK")))
}

func TestExportUnknownFormat(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeUnsupportedFormat, errorCode(t, rr))
}

func TestStats(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rr := ts.request(http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	summary := decode[response.Stats](t, rr)
	assert.Equal(t, 6, summary.GameCount)
	assert.Equal(t, 204.94, summary.TotalValue)
	assert.Equal(t, 1, summary.OnlineCount)
	assert.Len(t, summary.Authors, 6)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)
	ts.request(http.MethodGet, "/api/v1/games", nil)

	rr := ts.request(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `cyberstore_http_requests_total{method="GET",route="/api/v1/games",status="200"} 1`)
	assert.Contains(t, rr.Body.String(), "cyberstore_catalog_games 6")
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
