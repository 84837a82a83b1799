package pubsub

import "context"

// 通用资源生命周期事件类型
const (
	CreatedEvent EventType = "created" // 资源已创建
	UpdatedEvent EventType = "updated" // 资源已更新
	DeletedEvent EventType = "deleted" // 资源已删除
)

// Subscriber 订阅者接口
// 各服务通过嵌入此接口向外暴露事件流
type Subscriber[T any] interface {
	Subscribe(context.Context) <-chan Event[T]
}

type (
	// EventType 事件类型标识符
	// 除通用生命周期事件外，各服务可定义自己的事件类型常量
	EventType string

	// Event 承载一次事件通知
	// T 是事件载荷的类型
	Event[T any] struct {
		Type    EventType // 事件类型
		Payload T         // 事件载荷数据
	}

	// Publisher 发布者接口
	Publisher[T any] interface {
		Publish(EventType, T)
	}
)
