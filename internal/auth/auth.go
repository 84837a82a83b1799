package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/purpose168/forge-cn/internal/csync"
	"github.com/purpose168/forge-cn/internal/pubsub"
)

// authFileName 令牌文件的名称常量
const authFileName = "auth.json"

// Status 登录状态
type Status string

// 登录状态的两种取值
const (
	SignedIn  Status = "signed-in"  // 已登录
	SignedOut Status = "signed-out" // 未登录
)

// Account 已登录用户的基本信息
type Account struct {
	UserID string `json:"user_id"` // 用户唯一标识符
	Email  string `json:"email"`   // 用户邮箱
}

// State 当前登录状态的快照
type State struct {
	Status  Status  `json:"status"`  // 登录状态
	Account Account `json:"account"` // 用户信息（未登录时为零值）
	Token   Token   `json:"token"`   // 访问令牌（未登录时为零值）
}

// Authenticated 判断状态是否为已登录
func (s State) Authenticated() bool {
	return s.Status == SignedIn
}

// Service 登录状态服务接口
type Service interface {
	pubsub.Subscriber[State]
	// Current 返回当前登录状态的快照
	Current() State
	// SetToken 保存令牌与用户信息并切换到已登录状态
	SetToken(account Account, token Token) error
	// Clear 清除令牌并切换到未登录状态
	Clear() error
}

// service 登录状态服务实现
type service struct {
	*pubsub.Broker[State]
	state *csync.Value[State]
	path  string
}

// NewService 创建登录状态服务
// 数据目录中的令牌文件若存在且未过期，初始状态为已登录
func NewService(dataDir string) Service {
	s := &service{
		Broker: pubsub.NewBroker[State](),
		state:  csync.NewValue(State{Status: SignedOut}),
		path:   filepath.Join(dataDir, authFileName),
	}
	if state, err := s.load(); err == nil && state.Authenticated() {
		s.state.Set(state)
	}
	return s
}

// Current 返回当前登录状态的快照
func (s *service) Current() State {
	return s.state.Get()
}

// SetToken 保存令牌与用户信息并切换到已登录状态
// 新状态先落盘再发布
func (s *service) SetToken(account Account, token Token) error {
	if token.ExpiresAt == 0 {
		token.SetExpiresAt()
	}
	state := State{
		Status:  SignedIn,
		Account: account,
		Token:   token,
	}
	if err := s.save(state); err != nil {
		return fmt.Errorf("保存令牌失败: %w", err)
	}
	s.state.Set(state)
	s.Publish(pubsub.UpdatedEvent, state)
	return nil
}

// Clear 清除令牌并切换到未登录状态
func (s *service) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("删除令牌文件失败: %w", err)
	}
	state := State{Status: SignedOut}
	s.state.Set(state)
	s.Publish(pubsub.UpdatedEvent, state)
	return nil
}

// load 从磁盘读取登录状态
// 令牌已过期时按未登录处理
func (s *service) load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return State{Status: SignedOut}, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{Status: SignedOut}, fmt.Errorf("解析令牌文件失败: %w", err)
	}
	if state.Token.IsExpired() {
		return State{Status: SignedOut}, nil
	}
	state.Token.SetExpiresIn()
	state.Status = SignedIn
	return state, nil
}

// save 将登录状态写入磁盘，权限仅所有者可读写
func (s *service) save(state State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
