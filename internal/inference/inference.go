// Package inference 封装推理端点的单次调用契约
// 一次请求恰好对应一次完整回复，不存在跨越该边界的分片流式传输
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/purpose168/forge-cn/internal/log"
)

// defaultTimeout 推理调用的客户端超时
const defaultTimeout = 60 * time.Second

// Turn 发送给推理端点的一轮对话
// 除角色和内容外的字段在发送前全部剥离
type Turn struct {
	Role    string `json:"role"`    // 角色（user 或 assistant）
	Content string `json:"content"` // 消息文本
}

// Request 一次推理调用的请求
type Request struct {
	Messages []Turn `json:"messages"`           // 上下文窗口内的对话轮次，旧在前
	Template string `json:"template,omitempty"` // 可选的起步模板名称
}

// Response 推理端点的回复
type Response struct {
	Response string `json:"response"`        // 回复正文
	HTML     string `json:"html,omitempty"`  // 结构化 HTML 侧通道
	Error    string `json:"error,omitempty"` // 端点返回的错误文本
}

// Client 推理客户端接口
type Client interface {
	// Generate 发送一次请求并返回完整回复
	Generate(ctx context.Context, req Request) (*Response, error)
}

// TokenSource 为请求提供访问令牌
// 返回空字符串时请求不携带认证头
type TokenSource func() string

// httpClient 基于单次 POST 的推理客户端实现
type httpClient struct {
	endpoint string
	token    TokenSource
	client   *http.Client
}

// NewClient 创建推理客户端
// debug 为 true 时启用带报文日志的传输层
func NewClient(endpoint string, token TokenSource, debug bool) Client {
	client := &http.Client{Timeout: defaultTimeout}
	if debug {
		client = log.NewHTTPClient()
		client.Timeout = defaultTimeout
	}
	return &httpClient{
		endpoint: endpoint,
		token:    token,
		client:   client,
	}
}

// Generate 发送一次请求并返回完整回复
// 非 2xx 状态码或回复中的非空 error 字段都视为传输错误
func (c *httpClient) Generate(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("编码推理请求失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("构造推理请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != nil {
		if token := c.token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("调用推理端点失败: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return nil, fmt.Errorf("推理端点返回状态 %d: %s", httpResp.StatusCode, bytes.TrimSpace(payload))
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("解码推理回复失败: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("推理端点返回错误: %s", resp.Error)
	}
	return &resp, nil
}
