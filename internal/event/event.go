package event

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"time"

	"github.com/posthog/posthog-go"
	"github.com/purpose168/forge-cn/internal/version"
)

const (
	endpoint = "https://data.purpose168.dev"
	key      = "phc_Zk2pGmVxwB9dQnFhgT7LcJyEsA4M3RoWuN6K8i5X1vP"
)

var (
	client posthog.Client

	baseProps = posthog.NewProperties().
			Set("GOOS", runtime.GOOS).
			Set("GOARCH", runtime.GOARCH).
			Set("TERM", os.Getenv("TERM")).
			Set("SHELL", filepath.Base(os.Getenv("SHELL"))).
			Set("Version", version.Version).
			Set("GoVersion", runtime.Version())
)

// Init 初始化遥测客户端
// 是否调用本函数由入口处根据用户的选择决定
func Init() {
	c, err := posthog.NewWithConfig(key, posthog.Config{
		Endpoint:        endpoint,
		Logger:          logger{},
		ShutdownTimeout: 500 * time.Millisecond,
	})
	if err != nil {
		slog.Error("初始化 PostHog 客户端失败", "error", err)
	}
	client = c
	distinctId = getDistinctId()
}

// GetID 返回当前的匿名标识符
func GetID() string { return distinctId }

// Alias 把匿名标识符关联到登录后的用户标识
func Alias(userID string) {
	if client == nil || distinctId == fallbackId || distinctId == "" || userID == "" {
		return
	}
	if err := client.Enqueue(posthog.Alias{
		DistinctId: distinctId,
		Alias:      userID,
	}); err != nil {
		slog.Error("将 PostHog 别名事件加入队列失败", "error", err)
		return
	}
	slog.Info("已在 PostHog 中设置别名", "machine_id", distinctId, "user_id", userID)
}

// send 使用给定的事件名称和属性记录一条遥测事件
func send(event string, props ...any) {
	if client == nil {
		return
	}
	err := client.Enqueue(posthog.Capture{
		DistinctId: distinctId,
		Event:      event,
		Properties: pairsToProps(props...).Merge(baseProps),
	})
	if err != nil {
		slog.Error("将 PostHog 事件加入队列失败", "event", event, "props", props, "error", err)
		return
	}
}

// Error 记录一条错误事件，包含错误类型和消息
func Error(errToLog any, props ...any) {
	if client == nil || errToLog == nil {
		return
	}
	posthogErr := client.Enqueue(posthog.NewDefaultException(
		time.Now(),
		distinctId,
		reflect.TypeOf(errToLog).String(),
		fmt.Sprintf("%v", errToLog),
	))
	if posthogErr != nil {
		slog.Error("将 PostHog 错误加入队列失败", "err", errToLog, "props", props, "posthogErr", posthogErr)
		return
	}
}

// Flush 把积压的事件全部发出并关闭客户端
func Flush() {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		slog.Error("刷新 PostHog 事件失败", "error", err)
	}
}

func pairsToProps(props ...any) posthog.Properties {
	p := posthog.NewProperties()

	if len(props)%2 != 0 {
		slog.Error("事件属性必须以键值对的形式提供", "props", props)
		return p
	}

	for i := 0; i < len(props); i += 2 {
		key, ok := props[i].(string)
		if !ok {
			slog.Error("事件属性键必须是字符串", "key", props[i])
			continue
		}
		p = p.Set(key, props[i+1])
	}
	return p
}
