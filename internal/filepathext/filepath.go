package filepathext

import (
	"path/filepath"
	"runtime"
	"strings"
)

// SmartJoin 连接两个路径；第二个路径已是绝对路径时直接返回它。
func SmartJoin(one, two string) string {
	if SmartIsAbs(two) {
		return two
	}
	return filepath.Join(one, two)
}

// SmartIsAbs 判断路径是否为绝对路径。
// Windows 上除系统原生绝对路径外，以 "/" 开头的 Unix 风格路径也视为绝对路径。
func SmartIsAbs(path string) bool {
	switch runtime.GOOS {
	case "windows":
		return filepath.IsAbs(path) || strings.HasPrefix(filepath.ToSlash(path), "/")
	default:
		return filepath.IsAbs(path)
	}
}
