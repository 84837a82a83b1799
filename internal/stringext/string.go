// Package stringext 提供字符串处理相关的扩展功能
package stringext

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Capitalize 把给定文本转换为标题格式（首字母大写）
// 使用英语语言规则和紧凑模式
func Capitalize(text string) string {
	return cases.Title(language.English, cases.Compact).String(text)
}

// NormalizeSpace 规范化内容中的空白字符：
// Windows 换行符转为 Unix 风格，制表符转为四个空格，去除首尾空白
func NormalizeSpace(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\t", "    ")
	return strings.TrimSpace(content)
}
