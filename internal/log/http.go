package log

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// NewHTTPClient 创建一个带请求/响应日志记录的 HTTP 客户端
// 仅在调试级别启用时记录报文内容
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &RoundTripLogger{
			Transport: http.DefaultTransport,
		},
	}
}

// RoundTripLogger 包装一个 http.RoundTripper，在请求前后记录日志
type RoundTripLogger struct {
	Transport http.RoundTripper // 实际执行请求的底层传输层
}

// RoundTrip 实现 http.RoundTripper 接口
func (l *RoundTripLogger) RoundTrip(req *http.Request) (*http.Response, error) {
	var err error
	var save io.ReadCloser
	// 请求体只能读取一次，先复制一份用于日志
	save, req.Body, err = drainBody(req.Body)
	if err != nil {
		slog.Error("HTTP请求失败", "method", req.Method, "url", req.URL, "error", err)
		return nil, err
	}

	if slog.Default().Enabled(req.Context(), slog.LevelDebug) {
		slog.Debug(
			"HTTP请求",
			"method", req.Method,
			"url", req.URL,
			"body", bodyToString(save),
		)
	}

	start := time.Now()
	resp, err := l.Transport.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		slog.Error(
			"HTTP请求失败",
			"method", req.Method,
			"url", req.URL,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return resp, err
	}

	save, resp.Body, err = drainBody(resp.Body)
	if slog.Default().Enabled(req.Context(), slog.LevelDebug) {
		slog.Debug(
			"HTTP响应",
			"status_code", resp.StatusCode,
			"headers", redactHeaders(resp.Header),
			"body", bodyToString(save),
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
	}
	return resp, err
}

// bodyToString 把报文体转换为字符串，JSON 内容会被格式化
func bodyToString(body io.ReadCloser) string {
	if body == nil {
		return ""
	}
	src, err := io.ReadAll(body)
	if err != nil {
		slog.Error("读取body失败", "error", err)
		return ""
	}
	var b bytes.Buffer
	if json.Indent(&b, bytes.TrimSpace(src), "", "  ") != nil {
		// 不是 JSON，原样返回
		return string(src)
	}
	return b.String()
}

// redactHeaders 过滤头部中的认证凭据，防止泄露到日志
func redactHeaders(headers http.Header) map[string][]string {
	filtered := make(map[string][]string, len(headers))
	for key, values := range headers {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "authorization") ||
			strings.Contains(lower, "api-key") ||
			strings.Contains(lower, "token") ||
			strings.Contains(lower, "secret") {
			filtered[key] = []string{"[已隐藏]"}
		} else {
			filtered[key] = values
		}
	}
	return filtered
}

// drainBody 复制报文体，返回两个可独立读取的副本
func drainBody(b io.ReadCloser) (r1, r2 io.ReadCloser, err error) {
	if b == nil || b == http.NoBody {
		return http.NoBody, http.NoBody, nil
	}
	var buf bytes.Buffer
	if _, err = buf.ReadFrom(b); err != nil {
		return nil, b, err
	}
	if err = b.Close(); err != nil {
		return nil, b, err
	}
	return io.NopCloser(&buf), io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}
