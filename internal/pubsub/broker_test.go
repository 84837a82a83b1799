package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	t.Parallel()

	b := NewBroker[string]()
	t.Cleanup(b.Shutdown)

	ch := b.Subscribe(t.Context())
	require.Equal(t, 1, b.SubscriberCount())

	b.Publish(CreatedEvent, "你好")

	event := <-ch
	require.Equal(t, CreatedEvent, event.Type)
	require.Equal(t, "你好", event.Payload)
}

func TestBrokerSlowSubscriberDropsEvents(t *testing.T) {
	t.Parallel()

	b := NewBroker[int]()
	t.Cleanup(b.Shutdown)

	ch := b.Subscribe(t.Context())

	// 订阅者不消费，超出缓冲区的事件应被丢弃而不是阻塞发布方
	for i := range bufferSize + 16 {
		b.Publish(UpdatedEvent, i)
	}

	b.Shutdown()

	var received int
	for range ch {
		received++
	}
	require.Equal(t, bufferSize, received, "缓冲区之外的事件应该被丢弃")
}

func TestBrokerContextCancelUnsubscribes(t *testing.T) {
	t.Parallel()

	b := NewBroker[string]()
	t.Cleanup(b.Shutdown)

	ctx, cancel := context.WithCancel(t.Context())
	ch := b.Subscribe(ctx)
	require.Equal(t, 1, b.SubscriberCount())

	cancel()

	// 退订在后台 goroutine 中完成
	require.Eventually(t, func() bool {
		return b.SubscriberCount() == 0
	}, time.Second, 10*time.Millisecond)

	_, ok := <-ch
	require.False(t, ok, "退订之后通道应该被关闭")
}

func TestBrokerShutdown(t *testing.T) {
	t.Parallel()

	b := NewBroker[string]()
	ch := b.Subscribe(t.Context())

	b.Shutdown()
	b.Shutdown() // 重复关闭不应 panic

	_, ok := <-ch
	require.False(t, ok)

	// 关闭后的订阅得到一个已关闭的通道
	_, ok = <-b.Subscribe(t.Context())
	require.False(t, ok)

	// 关闭后的发布是空操作
	b.Publish(CreatedEvent, "无人接收")
}
