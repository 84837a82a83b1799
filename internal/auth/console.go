package auth

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// defaultConsoleURL forge 控制台的默认地址
const defaultConsoleURL = "https://forge.purpose168.dev"

// ErrInvalidToken 表示控制台不认可该访问令牌
var ErrInvalidToken = errors.New("访问令牌无效")

// ConsoleBaseURL 返回 forge 控制台的基础地址
// 可通过 FORGE_CONSOLE_URL 环境变量覆盖，便于自托管部署
func ConsoleBaseURL() string {
	return cmp.Or(os.Getenv("FORGE_CONSOLE_URL"), defaultConsoleURL)
}

// ConsoleTokenURL 返回控制台上生成访问令牌的页面地址
func ConsoleTokenURL() string {
	return ConsoleBaseURL() + "/console/token"
}

// VerifyToken 调用控制台的 /api/me 端点校验访问令牌。
// 校验通过时返回令牌对应的账户信息；令牌无效时返回 ErrInvalidToken。
// 入库前先校验一次，避免把失效令牌写进令牌文件。
func VerifyToken(ctx context.Context, baseURL, accessToken string) (Account, error) {
	// 创建 HTTP GET 请求
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/me", nil)
	if err != nil {
		return Account{}, fmt.Errorf("创建请求失败: %w", err)
	}

	// 设置请求头，携带待校验的访问令牌
	req.Header.Set("Authorization", "Bearer "+accessToken)
	// 设置 User-Agent 标识客户端类型
	req.Header.Set("User-Agent", "forge")

	// 创建 HTTP 客户端，设置 30 秒超时
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return Account{}, fmt.Errorf("执行请求失败: %w", err)
	}
	defer resp.Body.Close()

	// 读取响应体，限制最大读取大小为 1MB 以防止内存耗尽
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Account{}, fmt.Errorf("读取响应失败: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return Account{}, ErrInvalidToken
	default:
		return Account{}, fmt.Errorf("令牌校验失败: 状态码 %d 响应体 %q", resp.StatusCode, string(body))
	}

	// 解析 JSON 响应到 Account 结构体
	var account Account
	if err := json.Unmarshal(body, &account); err != nil {
		return Account{}, fmt.Errorf("解析响应失败: %w", err)
	}

	return account, nil
}
