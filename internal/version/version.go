package version

import "runtime/debug"

// Version 应用程序版本号
// 默认值为 "devel"，发布构建时通过 -ldflags 覆盖
var Version = "devel"

// 通过 `go install github.com/purpose168/forge-cn@latest` 安装时没有
// -ldflags，此时使用 Go 工具链嵌入的主模块版本号作为替代
// （该版本号只在 `go install` 时存在，`go build` 不会设置）
func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	mainVersion := info.Main.Version
	if mainVersion != "" && mainVersion != "(devel)" {
		Version = mainVersion
	}
}
