// Package chat 实现会话引擎：消息生命周期、上下文窗口与一次性起步移交
// 引擎持有会话的内存镜像，持久化与推理均通过协作方服务完成
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/purpose168/forge-cn/internal/auth"
	"github.com/purpose168/forge-cn/internal/inference"
	"github.com/purpose168/forge-cn/internal/message"
	"github.com/purpose168/forge-cn/internal/pubsub"
	"github.com/purpose168/forge-cn/internal/template"
)

// ContextWindow 随推理请求发送的既往消息条数
const ContextWindow = 5

// 发送前校验失败的哨兵错误
var (
	ErrEmptyInput       = errors.New("提示词不能为空")
	ErrBusy             = errors.New("上一条请求尚未完成")
	ErrNotAuthenticated = errors.New("用户未登录")
)

// StreamState 引擎的请求在途状态，随每次变化发布
type StreamState struct {
	ProjectID string // 所属项目的ID
	Busy      bool   // 是否有请求在途
}

// Reply 一次成功发送的结果
type Reply struct {
	Message message.Message // 定稿后的助手消息
	HTML    string          // 回复附带的结构化HTML侧通道，可能为空
}

// Service 会话引擎接口
type Service interface {
	pubsub.Subscriber[StreamState]
	// Send 发送一条用户消息并等待完整的助手回复
	Send(ctx context.Context, prompt string) (Reply, error)
	// Bootstrap 会话打开时调用一次，空会话且有暂存内容时自动发送
	Bootstrap(ctx context.Context) error
	// Messages 返回内存中会话的快照
	Messages() []message.Message
	// Busy 报告是否有请求在途
	Busy() bool
}

// authStore 提供当前登录状态
type authStore interface {
	Current() auth.State
}

// service 会话引擎的具体实现
type service struct {
	*pubsub.Broker[StreamState]
	projectID string
	messages  message.Service
	client    inference.Client
	auth      authStore
	stage     *template.Stage

	busy atomic.Bool

	mu       sync.RWMutex
	log      []message.Message // 会话的内存镜像，含占位条目
	hydrated bool
}

// NewService 创建会话引擎
// 首次发送或引导时从持久层加载会话历史
func NewService(projectID string, messages message.Service, client inference.Client, auth authStore, stage *template.Stage) Service {
	return &service{
		Broker:    pubsub.NewBroker[StreamState](),
		projectID: projectID,
		messages:  messages,
		client:    client,
		auth:      auth,
		stage:     stage,
	}
}

// Send 发送一条用户消息并等待完整的助手回复
// 同一引擎上的发送严格串行，在途期间的新调用立即失败
func (s *service) Send(ctx context.Context, prompt string) (Reply, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Reply{}, ErrEmptyInput
	}
	if !s.auth.Current().Authenticated() {
		return Reply{}, ErrNotAuthenticated
	}
	if !s.acquire() {
		return Reply{}, ErrBusy
	}
	defer s.release()

	// 校验全部通过后才消费暂存内容，被拒绝的发送不吞掉移交
	var tplName string
	if s.stage != nil {
		if h, ok := s.stage.Take(); ok {
			tplName = h.Template
		}
	}
	return s.send(ctx, prompt, tplName)
}

// Bootstrap 会话打开时调用一次
// 仅当暂存区有内容且会话为空时，用暂存的提示词执行一次正常发送
func (s *service) Bootstrap(ctx context.Context) error {
	if s.stage == nil || !s.stage.Pending() {
		return nil
	}
	if err := s.hydrate(ctx); err != nil {
		return err
	}
	if len(s.Messages()) > 0 {
		// 已有历史的会话不自动发送，暂存内容留给下一次手动发送
		return nil
	}
	if !s.auth.Current().Authenticated() {
		return ErrNotAuthenticated
	}
	if !s.acquire() {
		return ErrBusy
	}
	defer s.release()

	h, ok := s.stage.Take()
	if !ok {
		return nil
	}
	prompt := strings.TrimSpace(h.Prompt)
	if prompt == "" {
		return ErrEmptyInput
	}
	_, err := s.send(ctx, prompt, h.Template)
	return err
}

// send 执行一次完整的发送流程，调用方必须已持有在途守卫
func (s *service) send(ctx context.Context, prompt, tplName string) (Reply, error) {
	if err := s.hydrate(ctx); err != nil {
		return Reply{}, err
	}

	// 在追加新消息前截取窗口：最近五条既往消息
	prior := s.window()

	// 乐观追加用户消息，后续持久化或推理失败时输入也不丢失
	now := time.Now().Unix()
	userMsg := message.Message{
		ID:        uuid.New().String(),
		ProjectID: s.projectID,
		Role:      message.User,
		Content:   prompt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.appendMessage(userMsg)

	// 尽力持久化，失败只记录日志，不阻断推理
	if persisted, err := s.messages.Create(ctx, s.projectID, message.CreateMessageParams{
		Role:    message.User,
		Content: prompt,
	}); err != nil {
		slog.Warn("持久化用户消息失败", "project_id", s.projectID, "error", err)
	} else {
		s.replaceMessage(userMsg.ID, persisted)
	}

	// 构造推理请求：窗口内的消息只保留角色和内容
	turns := make([]inference.Turn, 0, len(prior)+1)
	for _, m := range prior {
		turns = append(turns, inference.Turn{Role: string(m.Role), Content: m.Content})
	}
	turns = append(turns, inference.Turn{Role: string(message.User), Content: prompt})

	// 网络调用前插入占位的助手消息
	now = time.Now().Unix()
	provisional := message.Message{
		ID:          uuid.New().String(),
		ProjectID:   s.projectID,
		Role:        message.Assistant,
		IsStreaming: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.appendMessage(provisional)

	resp, err := s.client.Generate(ctx, inference.Request{Messages: turns, Template: tplName})
	if err != nil {
		// 回滚占位消息，用户消息保留
		s.removeMessage(provisional.ID)
		return Reply{}, fmt.Errorf("推理请求失败: %w", err)
	}

	// 原位定稿占位消息
	provisional.Content = resp.Response
	provisional.IsStreaming = false
	provisional.UpdatedAt = time.Now().Unix()

	final := provisional
	if persisted, perr := s.messages.Create(ctx, s.projectID, message.CreateMessageParams{
		Role:    message.Assistant,
		Content: resp.Response,
	}); perr != nil {
		slog.Warn("持久化助手消息失败", "project_id", s.projectID, "error", perr)
	} else {
		final = persisted
	}
	s.replaceMessage(provisional.ID, final)

	return Reply{Message: final, HTML: resp.HTML}, nil
}

// Messages 返回内存中会话的快照
func (s *service) Messages() []message.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.log)
}

// Busy 报告是否有请求在途
func (s *service) Busy() bool {
	return s.busy.Load()
}

// acquire 尝试占用在途守卫并发布状态变化
func (s *service) acquire() bool {
	if !s.busy.CompareAndSwap(false, true) {
		return false
	}
	s.Publish(pubsub.UpdatedEvent, StreamState{ProjectID: s.projectID, Busy: true})
	return true
}

// release 清除在途守卫，成功、失败与panic路径都会经过这里
func (s *service) release() {
	s.busy.Store(false)
	s.Publish(pubsub.UpdatedEvent, StreamState{ProjectID: s.projectID, Busy: false})
}

// hydrate 从持久层加载会话历史到内存镜像
// 成功一次后不再重复加载，失败可重试
func (s *service) hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return nil
	}
	items, err := s.messages.List(ctx, s.projectID)
	if err != nil {
		return fmt.Errorf("加载会话历史失败: %w", err)
	}
	s.log = items
	s.hydrated = true
	return nil
}

// window 返回最近的既往消息，最多 ContextWindow 条，旧在前
func (s *service) window() []message.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := max(0, len(s.log)-ContextWindow)
	return slices.Clone(s.log[start:])
}

func (s *service) appendMessage(msg message.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, msg)
}

func (s *service) replaceMessage(id string, msg message.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.log, func(m message.Message) bool { return m.ID == id })
	if i < 0 {
		return
	}
	s.log[i] = msg
}

func (s *service) removeMessage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.log, func(m message.Message) bool { return m.ID == id })
	if i < 0 {
		return
	}
	s.log = slices.Delete(s.log, i, i+1)
}
