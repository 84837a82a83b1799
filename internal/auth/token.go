// Package auth 提供推送式的登录状态管理
// 核心从不同步阻塞在认证上，登录状态变化通过事件推送给订阅方
package auth

import (
	"time"
)

// Token 表示一个访问令牌。
// 该结构体包含访问令牌、刷新令牌以及过期时间等相关信息，
// 用于管理和验证令牌的有效性。
type Token struct {
	AccessToken  string `json:"access_token"`  // 访问令牌，用于访问受保护资源的凭证
	RefreshToken string `json:"refresh_token"` // 刷新令牌，用于获取新的访问令牌
	ExpiresIn    int    `json:"expires_in"`    // 令牌有效期（秒），表示从颁发时起的有效时长
	ExpiresAt    int64  `json:"expires_at"`    // 令牌过期时间戳（Unix 时间戳），表示令牌的具体过期时刻
}

// SetExpiresAt 根据当前时间和 ExpiresIn 计算并设置 ExpiresAt 字段。
// 该方法将 ExpiresIn（有效期秒数）转换为具体的过期时间戳，
// 通过当前时间加上有效期来计算令牌的绝对过期时间。
func (t *Token) SetExpiresAt() {
	t.ExpiresAt = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second).Unix()
}

// IsExpired 检查令牌是否已过期或即将过期（在其生命周期的 10% 内）。
// 当令牌剩余有效期不足原有效期的 10% 时即视为过期，
// 以避免在令牌即将过期时使用导致请求失败。
func (t *Token) IsExpired() bool {
	return time.Now().Unix() >= (t.ExpiresAt - int64(t.ExpiresIn)/10)
}

// SetExpiresIn 根据 ExpiresAt 字段计算并设置 ExpiresIn 字段。
// 从存储中加载令牌后调用，将绝对过期时间戳转换为剩余有效期秒数。
func (t *Token) SetExpiresIn() {
	t.ExpiresIn = int(time.Until(time.Unix(t.ExpiresAt, 0)).Seconds())
}
