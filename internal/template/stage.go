package template

import "sync"

// Handoff 一条待移交的起步内容
type Handoff struct {
	Template string // 模板名称
	Prompt   string // 起步提示词
}

// Stage 暂存至多一条待移交的起步内容
// Take 消费后即清空，同一条内容绝不会被读取两次
type Stage struct {
	mu      sync.Mutex
	pending *Handoff
}

// NewStage 创建一个空的暂存区
func NewStage() *Stage {
	return &Stage{}
}

// Set 放入一条待移交内容，覆盖任何未消费的旧内容
func (s *Stage) Set(h Handoff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &h
}

// Take 原子地取出并清空待移交内容
// 第二个返回值指示取出前是否有内容
func (s *Stage) Take() (Handoff, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Handoff{}, false
	}
	h := *s.pending
	s.pending = nil
	return h, true
}

// Pending 报告当前是否有未消费的内容
func (s *Stage) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}
