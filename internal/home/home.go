// Package home 提供处理用户主目录的工具函数。
package home

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var homedir, homedirErr = os.UserHomeDir()

func init() {
	if homedirErr != nil {
		slog.Error("获取用户主目录失败", "error", homedirErr)
	}
}

// Dir 返回用户主目录路径。
func Dir() string {
	return homedir
}

// Short 把路径中的主目录部分缩写为 `~`，用于显示。
func Short(p string) string {
	if homedir == "" || !strings.HasPrefix(p, homedir) {
		return p
	}
	return filepath.Join("~", strings.TrimPrefix(p, homedir))
}

// Long 把路径开头的 `~` 展开为实际的主目录路径。
func Long(p string) string {
	if homedir == "" || !strings.HasPrefix(p, "~") {
		return p
	}
	return strings.Replace(p, "~", homedir, 1)
}
