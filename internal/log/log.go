package log

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/purpose168/forge-cn/internal/event"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	initOnce    sync.Once   // 确保初始化只执行一次
	initialized atomic.Bool // 标记日志系统是否已初始化
)

// Setup 初始化日志系统
// 日志以 JSON 格式写入带轮转的日志文件
// 参数:
//   - logFile: 日志文件路径
//   - debug: 是否启用调试模式（调试模式输出更详细的日志并附带源码位置）
func Setup(logFile string, debug bool) {
	initOnce.Do(func() {
		// 日志轮转器，限制单文件大小和保留天数
		logRotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // 单个日志文件最大大小（MB）
			MaxBackups: 0,  // 不限制旧日志文件数量
			MaxAge:     30, // 旧日志文件最多保留30天
			Compress:   false,
		}

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}

		handler := slog.NewJSONHandler(logRotator, &slog.HandlerOptions{
			Level:     level,
			AddSource: debug,
		})

		slog.SetDefault(slog.New(handler))
		initialized.Store(true)
	})
}

// Initialized 报告日志系统是否已初始化
func Initialized() bool {
	return initialized.Load()
}

// RecoverPanic 恢复 panic 并把现场写入独立的日志文件
// 应在 defer 语句中调用
// 参数:
//   - name: panic 发生位置的标识名称
//   - cleanup: panic 后执行的清理函数（可选）
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		// 上报 panic 错误事件
		event.Error(r, "panic", true, "name", name)

		timestamp := time.Now().Format("20060102-150405")
		filename := fmt.Sprintf("forge-panic-%s-%s.log", name, timestamp)

		file, err := os.Create(filename)
		if err == nil {
			defer file.Close()

			fmt.Fprintf(file, "Panic in %s: %v\n\n", name, r)
			fmt.Fprintf(file, "Time: %s\n\n", time.Now().Format(time.RFC3339))
			fmt.Fprintf(file, "Stack Trace:\n%s\n", debug.Stack())
		}

		if cleanup != nil {
			cleanup()
		}
	}
}
