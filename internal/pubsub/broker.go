package pubsub

import (
	"context"
	"sync"
)

// bufferSize 订阅者通道的缓冲区大小
// 缓冲区满时发布方不会阻塞，事件被直接丢弃
const bufferSize = 64

// Broker 事件代理，实现发布-订阅模式
// T 是事件载荷的类型
type Broker[T any] struct {
	mu   sync.RWMutex              // 保护 subs 的并发访问
	subs map[chan Event[T]]struct{} // 订阅者通道集合
	done chan struct{}             // 关闭信号
}

// NewBroker 创建新的事件代理
func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{
		subs: make(map[chan Event[T]]struct{}),
		done: make(chan struct{}),
	}
}

// Subscribe 订阅事件流
// 返回的通道在上下文取消或代理关闭时自动关闭
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	// 代理已关闭时返回一个已关闭的空通道
	select {
	case <-b.done:
		ch := make(chan Event[T])
		close(ch)
		return ch
	default:
	}

	sub := make(chan Event[T], bufferSize)
	b.subs[sub] = struct{}{}

	// 上下文取消时自动退订
	go func() {
		<-ctx.Done()

		b.mu.Lock()
		defer b.mu.Unlock()

		select {
		case <-b.done:
			// Shutdown 已经关闭了所有通道
			return
		default:
		}

		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

// Publish 向所有订阅者发布事件
// 订阅者通道已满时跳过该订阅者，发布方永不阻塞
func (b *Broker[T]) Publish(t EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	select {
	case <-b.done:
		return
	default:
	}

	event := Event[T]{Type: t, Payload: payload}
	for sub := range b.subs {
		select {
		case sub <- event:
		default:
			// 消费过慢，丢弃本条事件
		}
	}
}

// SubscriberCount 返回当前订阅者数量
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Shutdown 关闭事件代理并关闭所有订阅者通道
// 可以安全地多次调用
func (b *Broker[T]) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		return
	default:
		close(b.done)
	}

	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
