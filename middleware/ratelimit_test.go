package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 200ms window, two attempts
	router := gin.New()
	router.Use(LoginRateLimit(2, 200*time.Millisecond))
	router.POST("/login", func(c *gin.Context) {
		c.String(200, "ok")
	})

	doReq := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w1 := doReq("192.168.1.1")
	w2 := doReq("192.168.1.1")
	w3 := doReq("192.168.1.1")

	assert.Equal(t, 200, w1.Code)
	assert.Equal(t, 200, w2.Code)
	assert.Equal(t, http.StatusTooManyRequests, w3.Code)
	assert.JSONEq(t, `{"msg":"Too many attempts, please try again later."}`, w3.Body.String())

	// other clients are independent
	assert.Equal(t, 200, doReq("192.168.1.2").Code)
	assert.Equal(t, 200, doReq("192.168.1.2").Code)

	// window expires
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 200, doReq("192.168.1.1").Code)
}

func newLimitedRouter(limit int, counter WindowCounter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(limit, time.Minute, counter))
	r.GET("/", func(c *gin.Context) { c.String(200, "ok") })
	return r
}

func TestRateLimit_GlobalFixedWindow(t *testing.T) {
	r := newLimitedRouter(3, NewMemoryCounter())

	codes := []int{}
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		// different clients share one budget
		req.RemoteAddr = "10.0.0." + string(rune('1'+i)) + ":1000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{200, 200, 200, 429, 429}, codes)
}

func TestMemoryCounter_ResetsOnNewWindow(t *testing.T) {
	m := NewMemoryCounter()
	ctx := context.Background()
	w1 := time.Unix(600, 0)

	n, _ := m.Incr(ctx, w1, time.Minute)
	assert.EqualValues(t, 1, n)
	n, _ = m.Incr(ctx, w1, time.Minute)
	assert.EqualValues(t, 2, n)
	n, _ = m.Incr(ctx, w1.Add(time.Minute), time.Minute)
	assert.EqualValues(t, 1, n)
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, time.Time, time.Duration) (int64, error) {
	return 0, errors.New("counter down")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r := newLimitedRouter(1, failingCounter{})
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, 200, w.Code)
	}
}

func TestRedisCounter_UnreachableFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	counter := NewRedisCounter(client, "")
	_, err := counter.Incr(context.Background(), time.Now().Truncate(time.Minute), time.Minute)
	require.Error(t, err)

	r := newLimitedRouter(1, counter)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, 200, w.Code)
}
