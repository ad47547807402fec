package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestDoParsesDataEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]string{"name": "演示门店"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	var out struct {
		Name string `json:"name"`
	}
	err := c.Do(context.Background(), http.MethodGet, "/api/v1/restaurants/1", nil, &out)

	require.NoError(t, err)
	assert.Equal(t, "演示门店", out.Name)
}

func TestDoSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{
			"success": false,
			"message": "权限不足",
			"name":    "ForbiddenError",
			"status":  403,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Do(context.Background(), http.MethodDelete, "/api/v1/roles/1", nil, nil)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "权限不足", apiErr.Message)
	assert.Equal(t, "ForbiddenError", apiErr.Name)
}

func TestDoRetriesOnceAfterRefresh(t *testing.T) {
	var refreshed int32
	var attempts int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/auth/refresh" {
			atomic.AddInt32(&refreshed, 1)
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
			return
		}

		// 第一次返回401，刷新后的重试放行
		if atomic.AddInt32(&attempts, 1) == 1 {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"success": false, "message": "会话已过期", "name": "UnauthorizedError", "status": 401,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Do(context.Background(), http.MethodGet, "/api/v1/orders", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshed))
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestConcurrent401sTriggerSingleRefresh(t *testing.T) {
	const workers = 8

	var refreshed int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/auth/refresh" {
			atomic.AddInt32(&refreshed, 1)
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
			return
		}

		// 刷新完成前所有业务请求都返回401
		if atomic.LoadInt32(&refreshed) == 0 {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"success": false, "message": "会话已过期", "name": "UnauthorizedError", "status": 401,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	c := New(srv.URL)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Do(context.Background(), http.MethodGet, "/api/v1/orders", nil, nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "请求 %d 应在刷新后成功", i)
	}
	// 同一批过期请求只允许触发一次底层刷新
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshed))
}

func TestRefreshFailureReturnsOriginalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/auth/refresh" {
			writeJSON(w, http.StatusForbidden, map[string]interface{}{
				"success": false, "message": "无效的刷新凭证", "name": "ForbiddenError", "status": 403,
			})
			return
		}
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"success": false, "message": "请先登录", "name": "UnauthorizedError", "status": 401,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Do(context.Background(), http.MethodGet, "/api/v1/users", nil, nil)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	// 刷新失败时对外返回原始的401，而不是刷新接口的403
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
