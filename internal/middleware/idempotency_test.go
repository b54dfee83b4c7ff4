package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gistshu/chr/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupIdempotencyRouter(t *testing.T) (*gin.Engine, redismock.ClientMock, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()

	hits := 0
	r := gin.New()
	r.Use(middleware.ContextLogger(zap.NewNop()))
	r.POST("/payrolls/generate", middleware.Idempotency(rdb), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	return r, mock, &hits
}

func TestIdempotency_PassThroughWithoutKey(t *testing.T) {
	r, mock, hits := setupIdempotencyRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payrolls/generate", strings.NewReader(`{}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, *hits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_CachedResponseReturned(t *testing.T) {
	r, mock, hits := setupIdempotencyRouter(t)

	cacheKey := "idemp:/payrolls/generate:admin:req-1"
	mock.ExpectGet(cacheKey).SetVal(`[{"month":"2023-10"}]`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payrolls/generate", strings.NewReader(`{}`))
	req.Header.Set("Idempotency-Key", "req-1")
	r.ServeHTTP(w, req)

	// Retry tidak menyentuh handler sama sekali
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, *hits)
	assert.Contains(t, w.Body.String(), "2023-10")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ConcurrentDuplicateRejected(t *testing.T) {
	r, mock, hits := setupIdempotencyRouter(t)

	cacheKey := "idemp:/payrolls/generate:admin:req-2"
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payrolls/generate", strings.NewReader(`{}`))
	req.Header.Set("Idempotency-Key", "req-2")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 0, *hits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_FirstRequestAcquiresLock(t *testing.T) {
	r, mock, hits := setupIdempotencyRouter(t)

	cacheKey := "idemp:/payrolls/generate:admin:req-3"
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payrolls/generate", strings.NewReader(`{}`))
	req.Header.Set("Idempotency-Key", "req-3")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, *hits)
	assert.NoError(t, mock.ExpectationsWereMet())
}
