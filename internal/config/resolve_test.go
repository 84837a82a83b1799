package config

import (
	"testing"

	"github.com/purpose168/forge-cn/internal/env"
	"github.com/stretchr/testify/require"
)

// TestEnvironmentVariableResolver_ResolveValue 测试环境变量解析器的值解析功能
// 该测试验证了解析器能够正确处理：
// 1. 非变量字符串
// 2. $VAR 和 ${VAR} 形式的环境变量
// 3. 字符串中间的变量替换
// 4. 各种错误情况
func TestEnvironmentVariableResolver_ResolveValue(t *testing.T) {
	// 定义测试用例，包含测试名称、输入值、环境变量、期望结果和是否期望错误
	tests := []struct {
		name        string
		value       string
		envVars     map[string]string
		expected    string
		expectError bool
	}{
		{
			name:     "非变量字符串原样返回 (non-variable string returns as-is)",
			value:    "plain-string",
			expected: "plain-string",
		},
		{
			name:     "环境变量解析 (environment variable resolution)",
			value:    "$HOME",
			envVars:  map[string]string{"HOME": "/home/user"},
			expected: "/home/user",
		},
		{
			name:     "花括号形式的环境变量 (braced environment variable)",
			value:    "${FORGE_HOST}",
			envVars:  map[string]string{"FORGE_HOST": "inference.internal"},
			expected: "inference.internal",
		},
		{
			name:     "字符串中间的变量替换 (substitution in the middle of a string)",
			value:    "https://$FORGE_HOST/api/generate",
			envVars:  map[string]string{"FORGE_HOST": "inference.internal"},
			expected: "https://inference.internal/api/generate",
		},
		{
			name:     "同一字符串中的多个变量 (multiple variables in one string)",
			value:    "$SCHEME://${FORGE_HOST}/api",
			envVars:  map[string]string{"SCHEME": "https", "FORGE_HOST": "inference.internal"},
			expected: "https://inference.internal/api",
		},
		{
			name:        "缺失的环境变量返回错误 (missing environment variable returns error)",
			value:       "$MISSING_VAR",
			envVars:     map[string]string{},
			expectError: true,
		},
		{
			name:        "单独的美元符号返回错误 (lone dollar sign returns error)",
			value:       "$",
			expectError: true,
		},
		{
			name:        "字符串末尾的美元符号返回错误 (trailing dollar sign returns error)",
			value:       "prefix$",
			expectError: true,
		},
		{
			name:        "未闭合的花括号返回错误 (unclosed brace returns error)",
			value:       "${FORGE_HOST",
			envVars:     map[string]string{"FORGE_HOST": "x"},
			expectError: true,
		},
		{
			name:        "无效的变量名首字符返回错误 (invalid variable name start returns error)",
			value:       "$1BAD",
			expectError: true,
		},
		{
			name:        "命令替换被拒绝 (command substitution is rejected)",
			value:       "$(cat /etc/passwd)",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewEnvironmentVariableResolver(env.NewFromMap(tt.envVars))

			result, err := resolver.ResolveValue(tt.value)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, result)
		})
	}
}
