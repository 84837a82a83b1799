package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/purpose168/forge-cn/internal/auth"
	"github.com/purpose168/forge-cn/internal/db"
	"github.com/purpose168/forge-cn/internal/inference"
	"github.com/purpose168/forge-cn/internal/message"
	"github.com/purpose168/forge-cn/internal/template"
	"github.com/stretchr/testify/require"
)

// signedInAuth 始终处于已登录状态
type signedInAuth struct{}

func (signedInAuth) Current() auth.State { return auth.State{Status: auth.SignedIn} }

// signedOutAuth 始终处于未登录状态
type signedOutAuth struct{}

func (signedOutAuth) Current() auth.State { return auth.State{Status: auth.SignedOut} }

// fakeClient 记录收到的请求并按注入的函数返回回复
type fakeClient struct {
	mu       sync.Mutex
	requests []inference.Request
	generate func(call int, req inference.Request) (*inference.Response, error)
}

func (c *fakeClient) Generate(ctx context.Context, req inference.Request) (*inference.Response, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	call := len(c.requests)
	c.mu.Unlock()
	if c.generate == nil {
		return &inference.Response{Response: "收到"}, nil
	}
	return c.generate(call, req)
}

func (c *fakeClient) recorded() []inference.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]inference.Request(nil), c.requests...)
}

// testFixture 组装一个带真实持久层的会话引擎
type testFixture struct {
	engine    Service
	messages  message.Service
	stage     *template.Stage
	client    *fakeClient
	projectID string
}

func newFixture(t *testing.T, client *fakeClient) *testFixture {
	t.Helper()

	conn, err := db.Connect(t.Context(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	q := db.New(conn)
	project, err := q.CreateProject(t.Context(), db.CreateProjectParams{
		ID:   uuid.New().String(),
		Name: "测试项目",
	})
	require.NoError(t, err)

	stage := template.NewStage()
	messages := message.NewService(q)
	engine := NewService(project.ID, messages, client, signedInAuth{}, stage)

	return &testFixture{
		engine:    engine,
		messages:  messages,
		stage:     stage,
		client:    client,
		projectID: project.ID,
	}
}

// TestSend 测试基本的发送流程
func TestSend(t *testing.T) {
	t.Parallel()

	client := &fakeClient{generate: func(int, inference.Request) (*inference.Response, error) {
		return &inference.Response{Response: "这是回复"}, nil
	}}
	f := newFixture(t, client)

	reply, err := f.engine.Send(t.Context(), "写一个计数器")
	require.NoError(t, err)
	require.Equal(t, message.Assistant, reply.Message.Role)
	require.Equal(t, "这是回复", reply.Message.Content)
	require.False(t, reply.Message.IsStreaming)

	// 内存镜像持有用户/助手一对消息
	log := f.engine.Messages()
	require.Len(t, log, 2)
	require.Equal(t, message.User, log[0].Role)
	require.Equal(t, "写一个计数器", log[0].Content)
	require.Equal(t, message.Assistant, log[1].Role)

	// 两条消息都已落库
	persisted, err := f.messages.List(t.Context(), f.projectID)
	require.NoError(t, err)
	require.Len(t, persisted, 2)
	require.Equal(t, log, persisted)
	require.False(t, f.engine.Busy())
}

// TestSend_校验 测试发送前的输入校验
func TestSend_校验(t *testing.T) {
	t.Parallel()

	t.Run("空输入", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, &fakeClient{})

		_, err := f.engine.Send(t.Context(), "   \n\t ")
		require.ErrorIs(t, err, ErrEmptyInput)
		require.Empty(t, f.engine.Messages())
		require.Empty(t, f.client.recorded())
	})

	t.Run("未登录", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, &fakeClient{})
		engine := NewService(f.projectID, f.messages, f.client, signedOutAuth{}, f.stage)

		_, err := engine.Send(t.Context(), "写一个计数器")
		require.ErrorIs(t, err, ErrNotAuthenticated)
		require.Empty(t, f.client.recorded())
	})

	t.Run("被拒绝的发送不消费暂存内容", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, &fakeClient{})
		f.stage.Set(template.Handoff{Template: "react-counter", Prompt: "起步"})

		_, err := f.engine.Send(t.Context(), "")
		require.ErrorIs(t, err, ErrEmptyInput)
		require.True(t, f.stage.Pending())
	})
}

// TestSend_串行化 测试在途守卫对并发发送的拒绝
func TestSend_串行化(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	proceed := make(chan struct{})
	client := &fakeClient{generate: func(int, inference.Request) (*inference.Response, error) {
		close(started)
		<-proceed
		return &inference.Response{Response: "第一条回复"}, nil
	}}
	f := newFixture(t, client)

	done := make(chan error, 1)
	go func() {
		_, err := f.engine.Send(t.Context(), "第一条")
		done <- err
	}()

	// 等第一条请求抵达推理端点后再发第二条
	<-started
	require.True(t, f.engine.Busy())
	_, err := f.engine.Send(t.Context(), "第二条")
	require.ErrorIs(t, err, ErrBusy)

	close(proceed)
	require.NoError(t, <-done)
	require.False(t, f.engine.Busy())

	// 只留下一对用户/助手消息
	persisted, err := f.messages.List(t.Context(), f.projectID)
	require.NoError(t, err)
	require.Len(t, persisted, 2)
	require.Len(t, f.client.recorded(), 1)
}

// TestSend_失败回滚 测试推理失败后的占位消息回滚
func TestSend_失败回滚(t *testing.T) {
	t.Parallel()

	client := &fakeClient{generate: func(call int, req inference.Request) (*inference.Response, error) {
		if call == 1 {
			return nil, errors.New("连接被重置")
		}
		return &inference.Response{Response: "重试成功"}, nil
	}}
	f := newFixture(t, client)

	_, err := f.engine.Send(t.Context(), "第一次尝试")
	require.ErrorContains(t, err, "推理请求失败")
	require.ErrorContains(t, err, "连接被重置")

	// 用户消息保留，占位的助手消息已移除
	log := f.engine.Messages()
	require.Len(t, log, 1)
	require.Equal(t, message.User, log[0].Role)
	require.Equal(t, "第一次尝试", log[0].Content)

	// 守卫已清除，下一次发送立即成功
	require.False(t, f.engine.Busy())
	reply, err := f.engine.Send(t.Context(), "第二次尝试")
	require.NoError(t, err)
	require.Equal(t, "重试成功", reply.Message.Content)
	require.Len(t, f.engine.Messages(), 3)
}

// TestSend_上下文窗口 测试固定大小的滑动窗口
func TestSend_上下文窗口(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	f := newFixture(t, client)

	// 预先落库十条既往消息
	var wantTail []string
	for i := 1; i <= 10; i++ {
		role := message.User
		if i%2 == 0 {
			role = message.Assistant
		}
		content := fmt.Sprintf("第%d条", i)
		_, err := f.messages.Create(t.Context(), f.projectID, message.CreateMessageParams{
			Role:    role,
			Content: content,
		})
		require.NoError(t, err)
		if i > 5 {
			wantTail = append(wantTail, content)
		}
	}

	_, err := f.engine.Send(t.Context(), "第11条")
	require.NoError(t, err)

	requests := f.client.recorded()
	require.Len(t, requests, 1)
	turns := requests[0].Messages
	require.Len(t, turns, ContextWindow+1)

	// 既往消息保持原有顺序，新消息在末尾
	for i, content := range wantTail {
		require.Equal(t, content, turns[i].Content)
	}
	require.Equal(t, "user", turns[ContextWindow].Role)
	require.Equal(t, "第11条", turns[ContextWindow].Content)
}

// TestSend_暂存模板 测试模板名随请求发送且只发送一次
func TestSend_暂存模板(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	f := newFixture(t, client)
	f.stage.Set(template.Handoff{Template: "react-counter", Prompt: "起步提示词"})

	_, err := f.engine.Send(t.Context(), "自定义输入")
	require.NoError(t, err)
	require.False(t, f.stage.Pending())

	_, err = f.engine.Send(t.Context(), "后续输入")
	require.NoError(t, err)

	requests := f.client.recorded()
	require.Len(t, requests, 2)
	require.Equal(t, "react-counter", requests[0].Template)
	require.Empty(t, requests[1].Template)
}

// TestSend_HTML侧通道 测试结构化HTML随回复透传
func TestSend_HTML侧通道(t *testing.T) {
	t.Parallel()

	client := &fakeClient{generate: func(int, inference.Request) (*inference.Response, error) {
		return &inference.Response{
			Response: "见预览",
			HTML:     "<html><body>预览</body></html>",
		}, nil
	}}
	f := newFixture(t, client)

	reply, err := f.engine.Send(t.Context(), "生成页面")
	require.NoError(t, err)
	require.Equal(t, "<html><body>预览</body></html>", reply.HTML)
	require.Equal(t, "见预览", reply.Message.Content)
}

// TestBootstrap 测试一次性引导发送
func TestBootstrap(t *testing.T) {
	t.Parallel()

	t.Run("空会话自动发送暂存提示词", func(t *testing.T) {
		t.Parallel()
		client := &fakeClient{}
		f := newFixture(t, client)
		f.stage.Set(template.Handoff{Template: "todo-list", Prompt: "做一个待办清单"})

		require.NoError(t, f.engine.Bootstrap(t.Context()))

		requests := f.client.recorded()
		require.Len(t, requests, 1)
		require.Equal(t, "todo-list", requests[0].Template)

		log := f.engine.Messages()
		require.Len(t, log, 2)
		require.Equal(t, "做一个待办清单", log[0].Content)

		// 第二次引导没有暂存内容，不再发送
		require.NoError(t, f.engine.Bootstrap(t.Context()))
		require.Len(t, f.client.recorded(), 1)
	})

	t.Run("无暂存内容时不做任何事", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, &fakeClient{})

		require.NoError(t, f.engine.Bootstrap(t.Context()))
		require.Empty(t, f.client.recorded())
		require.Empty(t, f.engine.Messages())
	})

	t.Run("已有历史时不发送且保留暂存内容", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, &fakeClient{})
		_, err := f.messages.Create(t.Context(), f.projectID, message.CreateMessageParams{
			Role:    message.User,
			Content: "旧消息",
		})
		require.NoError(t, err)
		f.stage.Set(template.Handoff{Template: "react-counter", Prompt: "起步"})

		require.NoError(t, f.engine.Bootstrap(t.Context()))
		require.Empty(t, f.client.recorded())
		require.True(t, f.stage.Pending())
	})
}
