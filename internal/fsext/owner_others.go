//go:build !windows

package fsext

import (
	"os"
	"syscall"
)

// Owner 返回指定路径的所有者用户ID。
func Owner(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return int(stat.Uid), nil
	}
	return os.Getuid(), nil
}
