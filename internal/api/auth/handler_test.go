package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"comic-shelf-app/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupGate(t *testing.T, password string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	config.ADMIN_PASSWORD_HASH = string(hash)
	config.SESSION_SECRET = "test-secret"

	r := gin.New()
	r.POST("/login", Login)
	return r
}

func postLogin(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_WrongPassword(t *testing.T) {
	r := setupGate(t, "opensesame")

	w := postLogin(r, `{"password":"guess"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestLogin_MissingPassword(t *testing.T) {
	r := setupGate(t, "opensesame")

	w := postLogin(r, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	r := setupGate(t, "opensesame")

	w := postLogin(r, `{"password":"opensesame"}`)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}
