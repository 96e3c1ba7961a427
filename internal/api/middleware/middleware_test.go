package middleware

import (
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/redis"
	"Buildrs/internal/pkg/security"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const address = "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23"

func newRouter(t *testing.T) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = redis.Rdb.Close()
	})

	r := gin.New()
	r.Use(TraceMiddleware(), CORSMiddleware())
	r.GET("/private", AuthMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentAddress(c))
	})
	r.GET("/public", AuthOptionalMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, "["+CurrentAddress(c)+"]")
	})
	return r, mr
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r, mr := newRouter(t)
	token, err := security.GenerateToken(address)
	require.NoError(t, err)

	w := get(r, "/private", token)
	assert.Equal(t, address, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	w = get(r, "/private", "")
	assert.Contains(t, w.Body.String(), `"code":401`)

	signature, err := security.ExtractSignature(token)
	require.NoError(t, err)
	require.NoError(t, mr.Set(consts.TokenRevokedKey+signature, "1"))
	w = get(r, "/private", token)
	assert.Contains(t, w.Body.String(), `"code":401`)
}

func TestAuthOptionalMiddleware(t *testing.T) {
	r, _ := newRouter(t)
	token, err := security.GenerateToken(address)
	require.NoError(t, err)

	assert.Equal(t, "["+address+"]", get(r, "/public", token).Body.String())
	assert.Equal(t, "[]", get(r, "/public", "").Body.String())
	assert.Equal(t, "[]", get(r, "/public", "garbage").Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/public", nil)
	req.Header.Set("Origin", "https://buildrs.app")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://buildrs.app", w.Header().Get("Access-Control-Allow-Origin"))
}
