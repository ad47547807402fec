package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"
)

// 后台API客户端。会话凭证保存在CookieJar中，请求收到401时
// 自动走刷新流程后重试一次。同一进程内并发触发的刷新会合并为
// 一次底层刷新调用，其余请求排队等待复用结果，避免并发刷新竞争。

// Client Marlex后台API客户端
type Client struct {
	baseURL string
	http    *http.Client

	// 刷新协调：单个进行中刷新守卫 + 等待队列
	mu         sync.Mutex
	refreshing bool
	waiters    []chan error
	epoch      uint64 // 每次成功刷新后递增，避免对同一批401重复刷新
}

// APIError 服务端返回的错误
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
	Name       string `json:"name"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.StatusCode, e.Message)
}

// New 创建API客户端
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// Login 登录并建立会话
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, nil, false)
}

// Logout 登出
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil, false)
}

// Do 发送请求，out非空时解析data字段。收到401自动刷新会话后重试一次。
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	return c.do(ctx, method, path, body, out, true)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, retryOn401 bool) error {
	seen := c.currentEpoch()

	err := c.roundTrip(ctx, method, path, body, out)
	if err == nil {
		return nil
	}

	apiErr, ok := err.(*APIError)
	if !ok || apiErr.StatusCode != http.StatusUnauthorized || !retryOn401 {
		return err
	}

	// 会话过期，走刷新协调后重试一次
	if refreshErr := c.refresh(ctx, seen); refreshErr != nil {
		return err
	}
	return c.roundTrip(ctx, method, path, body, out)
}

// refresh 合并并发刷新：同一批过期请求只触发一次底层刷新，
// 其余调用方挂起等待该次刷新的结果
func (c *Client) refresh(ctx context.Context, seen uint64) error {
	c.mu.Lock()

	// 别的请求已经完成了刷新，直接复用
	if c.epoch != seen {
		c.mu.Unlock()
		return nil
	}

	// 已有进行中的刷新，排队等结果
	if c.refreshing {
		waiter := make(chan error, 1)
		c.waiters = append(c.waiters, waiter)
		c.mu.Unlock()

		select {
		case err := <-waiter:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	c.refreshing = true
	c.mu.Unlock()

	err := c.roundTrip(ctx, http.MethodPost, "/api/v1/auth/refresh", nil, nil)

	c.mu.Lock()
	c.refreshing = false
	if err == nil {
		c.epoch++
	}
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	for _, w := range waiters {
		w <- err
	}
	return err
}

func (c *Client) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// roundTrip 单次HTTP调用
func (c *Client) roundTrip(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求失败: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("创建请求失败: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("解析响应失败: %v", err)
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}
