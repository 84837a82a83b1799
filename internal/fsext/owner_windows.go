//go:build windows

package fsext

import "os"

// Owner 返回指定路径的所有者用户ID。
// Windows 上没有对应概念，返回 -1 表示跳过所有权检查。
func Owner(path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}
	return -1, nil
}
