package authgate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/boardforge/taskboard/internal/hash"
	"github.com/boardforge/taskboard/internal/models"
	"github.com/boardforge/taskboard/internal/repo"
	"github.com/boardforge/taskboard/internal/response"
	"github.com/boardforge/taskboard/internal/tokens"
)

var (
	jwtSecret     = []byte("test-jwt-secret")
	refreshSecret = []byte("test-refresh-secret")
)

type gateEnv struct {
	E     *echo.Echo
	DB    *gorm.DB
	Users *repo.UserRepo
}

func newGateEnv(t *testing.T) *gateEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Board{}))

	users := &repo.UserRepo{DB: db}
	gate := &Gate{Users: users, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}

	e := echo.New()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Use(gate.Middleware)

	downstream := func(c echo.Context) error {
		username, _ := c.Get(CtxUsername).(string)
		return c.JSON(http.StatusOK, map[string]string{"username": username})
	}
	e.GET("/", downstream)
	e.POST("/", downstream)
	e.GET("/boards/:id", downstream)

	return &gateEnv{E: e, DB: db, Users: users}
}

func (env *gateEnv) createUser(t *testing.T, username, status string, refreshToken *string) *models.User {
	t.Helper()
	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         "user",
		Status:       status,
		RefreshToken: refreshToken,
	}
	require.NoError(t, env.DB.Create(user).Error)
	return user
}

func (env *gateEnv) do(method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func requireRejected(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusUnauthorized, env.HTTPStatus)
	assert.Equal(t, response.InvalidTokens.Message, env.Message)
	assert.Nil(t, env.Data)
}

func signedTokens(t *testing.T, username string, accessExp time.Time) (string, string) {
	t.Helper()
	access, err := tokens.NewAccessToken(username, "user", jwtSecret, accessExp)
	require.NoError(t, err)
	refresh, err := tokens.NewRefreshToken(username, refreshSecret, time.Now().Add(tokens.RefreshTTL))
	require.NoError(t, err)
	return access, refresh
}

func TestGate_WhitelistBypass(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	rec := env.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_WhitelistedPathNonWhitelistedMethod(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	rec := env.do(http.MethodPost, "/", nil)
	requireRejected(t, rec)
}

func TestGate_MissingToken(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	rec := env.do(http.MethodGet, "/boards/1", nil)
	requireRejected(t, rec)

	rec = env.do(http.MethodGet, "/boards/1", map[string]string{tokens.AccessHeader: "   "})
	requireRejected(t, rec)
}

func TestGate_MalformedToken(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	rec := env.do(http.MethodGet, "/boards/1", map[string]string{tokens.AccessHeader: "not-a-token"})
	requireRejected(t, rec)
}

func TestGate_ValidToken(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	access, refresh := signedTokens(t, "alice", time.Now().Add(tokens.AccessTTL))
	env.createUser(t, "alice", models.StatusNormal, &refresh)

	rec := env.do(http.MethodGet, "/boards/1", map[string]string{tokens.AccessHeader: access})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice", body["username"])
}

func TestGate_ValidTokenUnknownSubject(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	access, _ := signedTokens(t, "nobody", time.Now().Add(tokens.AccessTTL))

	rec := env.do(http.MethodGet, "/boards/1", map[string]string{tokens.AccessHeader: access})
	requireRejected(t, rec)
}

func TestGate_ValidTokenNoStoredSession(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	access, _ := signedTokens(t, "alice", time.Now().Add(tokens.AccessTTL))
	env.createUser(t, "alice", models.StatusNormal, nil)

	rec := env.do(http.MethodGet, "/boards/1", map[string]string{tokens.AccessHeader: access})
	requireRejected(t, rec)
}

func TestGate_ValidTokenDeletedUser(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	access, refresh := signedTokens(t, "alice", time.Now().Add(tokens.AccessTTL))
	env.createUser(t, "alice", models.StatusDeleted, &refresh)

	rec := env.do(http.MethodGet, "/boards/1", map[string]string{tokens.AccessHeader: access})
	requireRejected(t, rec)
}

func TestGate_ExpiredTokenMatchingRefresh(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	access, refresh := signedTokens(t, "alice", time.Now().Add(-time.Minute))
	env.createUser(t, "alice", models.StatusNormal, &refresh)

	rec := env.do(http.MethodGet, "/boards/1", map[string]string{
		tokens.AccessHeader:  access,
		tokens.RefreshHeader: refresh,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	newAccess := rec.Header().Get(tokens.AccessHeader)
	require.NotEmpty(t, newAccess)
	require.NotEqual(t, access, newAccess)

	claims, err := tokens.AccessClaimsFromToken(newAccess, jwtSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)

	// Recovery never rotates the refresh token.
	stored, err := env.Users.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, refresh, *stored.RefreshToken)
}

func TestGate_ExpiredTokenMismatchedRefresh(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	access, refresh := signedTokens(t, "alice", time.Now().Add(-time.Minute))
	env.createUser(t, "alice", models.StatusNormal, &refresh)

	other, err := tokens.NewRefreshToken("alice", refreshSecret, time.Now().Add(tokens.RefreshTTL))
	require.NoError(t, err)

	rec := env.do(http.MethodGet, "/boards/1", map[string]string{
		tokens.AccessHeader:  access,
		tokens.RefreshHeader: other,
	})
	requireRejected(t, rec)
	assert.Empty(t, rec.Header().Get(tokens.AccessHeader))
}

func TestGate_ExpiredTokenMissingRefresh(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	access, refresh := signedTokens(t, "alice", time.Now().Add(-time.Minute))
	env.createUser(t, "alice", models.StatusNormal, &refresh)

	rec := env.do(http.MethodGet, "/boards/1", map[string]string{tokens.AccessHeader: access})
	requireRejected(t, rec)
}

func TestGate_ExpiredTokenExpiredRefresh(t *testing.T) {
	t.Parallel()

	env := newGateEnv(t)
	access, err := tokens.NewAccessToken("alice", "user", jwtSecret, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	staleRefresh, err := tokens.NewRefreshToken("alice", refreshSecret, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	env.createUser(t, "alice", models.StatusNormal, &staleRefresh)

	rec := env.do(http.MethodGet, "/boards/1", map[string]string{
		tokens.AccessHeader:  access,
		tokens.RefreshHeader: staleRefresh,
	})
	requireRejected(t, rec)
}
