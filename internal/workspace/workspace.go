// Package workspace 提供内存中的工作区文件树模型
// 文件树、打开的标签页和编辑缓冲是三个独立演化的视图状态，
// 由同一个模型持有以保证互相之间永不失配
package workspace

import (
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/purpose168/forge-cn/internal/csync"
)

// NodeType 文件树节点类型
type NodeType string

// 节点的两种类型
const (
	NodeFile      NodeType = "file"      // 文件节点，持有内容和语言
	NodeDirectory NodeType = "directory" // 目录节点，持有子节点和展开状态
)

// FileNode 表示文件树中的一个节点
// 同一路径在树中只出现一次；类型决定哪些字段有意义
type FileNode struct {
	Name     string      // 节点名（路径的最后一段）
	Path     string      // 树内唯一路径（斜杠分隔）
	Type     NodeType    // 节点类型
	Language string      // 语言标签（仅文件节点）
	Content  string      // 权威内容（仅文件节点）
	Open     bool        // 是否展开（仅目录节点）
	Children []*FileNode // 子节点（仅目录节点，目录在前、按名称排序）
}

// autoOpenPatterns 首次加载时自动打开的候选文件，按优先级排列
var autoOpenPatterns = []string{"**/App.tsx", "**/main.tsx", "**/index.tsx"}

// Model 工作区视图模型
// 所有方法都是同步且原子的，彼此之间不存在交错风险
type Model struct {
	mu         sync.RWMutex
	root       []*FileNode                          // 顶层节点
	index      *csync.VersionedMap[string, *FileNode] // 路径到节点的索引，版本号随每次写入递增
	tabs       []string                             // 打开的标签页路径，按打开顺序排列
	active     string                               // 活动标签页路径，必为 tabs 成员或空
	buffers    map[string]string                    // 未保存的编辑缓冲，仅属于编辑器视图
	autoOpened bool                                 // 自动打开的一次性标志
}

// NewModel 创建空的工作区模型
func NewModel() *Model {
	return &Model{
		index:   csync.NewVersionedMap[string, *FileNode](),
		buffers: map[string]string{},
	}
}

// UpsertFile 创建或替换指定路径的文件节点
// 中间目录节点按需创建；已存在的路径被替换而不是重复；
// 该路径残留的编辑缓冲被丢弃（新内容为准）
func (m *Model) UpsertFile(filePath, content, language string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath, ok := normalizePath(filePath)
	if !ok {
		return
	}
	if existing, found := m.index.Get(filePath); found {
		if existing.Type == NodeDirectory {
			// 目录路径不能被文件覆盖
			return
		}
		existing.Content = content
		existing.Language = language
		m.index.Set(filePath, existing)
		delete(m.buffers, filePath)
		return
	}

	segments := strings.Split(filePath, "/")
	children := &m.root
	prefix := ""
	for _, segment := range segments[:len(segments)-1] {
		if prefix == "" {
			prefix = segment
		} else {
			prefix = prefix + "/" + segment
		}
		dir, found := m.index.Get(prefix)
		if !found {
			dir = &FileNode{Name: segment, Path: prefix, Type: NodeDirectory}
			*children = insertSorted(*children, dir)
			m.index.Set(prefix, dir)
		} else if dir.Type != NodeDirectory {
			// 中间路径已被文件占用
			return
		}
		children = &dir.Children
	}

	node := &FileNode{
		Name:     segments[len(segments)-1],
		Path:     filePath,
		Type:     NodeFile,
		Language: language,
		Content:  content,
	}
	*children = insertSorted(*children, node)
	m.index.Set(filePath, node)
	delete(m.buffers, filePath)
}

// ToggleDirectory 翻转目录节点的展开状态
// 未知路径或文件路径不产生任何效果
func (m *Model) ToggleDirectory(dirPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggleLocked(dirPath)
}

func (m *Model) toggleLocked(dirPath string) {
	dirPath, ok := normalizePath(dirPath)
	if !ok {
		return
	}
	if node, found := m.index.Get(dirPath); found && node.Type == NodeDirectory {
		node.Open = !node.Open
		m.index.Set(dirPath, node)
	}
}

// OpenTab 打开指定路径的标签页并使其成为活动标签
// 目录路径等价于翻转展开状态；不存在的路径不产生任何效果
func (m *Model) OpenTab(filePath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openTabLocked(filePath)
}

func (m *Model) openTabLocked(filePath string) bool {
	filePath, ok := normalizePath(filePath)
	if !ok {
		return false
	}
	node, found := m.index.Get(filePath)
	if !found {
		return false
	}
	if node.Type == NodeDirectory {
		m.toggleLocked(filePath)
		return false
	}
	if !slices.Contains(m.tabs, filePath) {
		m.tabs = append(m.tabs, filePath)
	}
	m.active = filePath
	return true
}

// CloseTab 关闭指定路径的标签页
// 关闭活动标签时，活动权落到剩余标签中最近打开的那个，
// 无剩余标签则清空活动标签
func (m *Model) CloseTab(filePath string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath, ok := normalizePath(filePath)
	if !ok {
		return
	}
	i := slices.Index(m.tabs, filePath)
	if i < 0 {
		return
	}
	m.tabs = slices.Delete(m.tabs, i, i+1)
	if m.active != filePath {
		return
	}
	if len(m.tabs) == 0 {
		m.active = ""
		return
	}
	m.active = m.tabs[len(m.tabs)-1]
}

// EditBuffer 将内容写入视图本地的编辑缓冲
// 权威节点内容不受影响；不存在的文件路径不产生任何效果
func (m *Model) EditBuffer(filePath, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath, ok := normalizePath(filePath)
	if !ok {
		return
	}
	if node, found := m.index.Get(filePath); found && node.Type == NodeFile {
		m.buffers[filePath] = content
	}
}

// FileContent 返回指定路径当前展示的内容
// 编辑缓冲优先于权威节点内容；第二个返回值表示文件是否存在
func (m *Model) FileContent(filePath string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath, ok := normalizePath(filePath)
	if !ok {
		return "", false
	}
	node, found := m.index.Get(filePath)
	if !found || node.Type != NodeFile {
		return "", false
	}
	if buffered, ok := m.buffers[filePath]; ok {
		return buffered, true
	}
	return node.Content, true
}

// AutoOpen 首次加载时自动打开入口文件
// 仅当尚无打开的标签页时生效，按优先级匹配树中任意位置的候选文件；
// 每个模型至多成功一次，且一次性标志只在真正打开标签时消耗
func (m *Model) AutoOpen() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.autoOpened || len(m.tabs) > 0 {
		return "", false
	}
	for _, pattern := range autoOpenPatterns {
		for _, filePath := range m.filePathsLocked() {
			if ok, _ := doublestar.Match(pattern, filePath); ok {
				if m.openTabLocked(filePath) {
					m.autoOpened = true
					return filePath, true
				}
			}
		}
	}
	return "", false
}

// Tabs 返回打开标签页路径的快照，按打开顺序排列
func (m *Model) Tabs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.tabs)
}

// ActiveTab 返回活动标签页路径，无活动标签时为空字符串
func (m *Model) ActiveTab() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Root 返回文件树顶层节点的深拷贝快照
func (m *Model) Root() []*FileNode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneNodes(m.root)
}

// FilePaths 返回树中全部文件路径，按路径排序
func (m *Model) FilePaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filePathsLocked()
}

// Version 返回模型的版本号，随每次树写入递增
// 调用方可以据此判断树是否变化
func (m *Model) Version() uint64 {
	return m.index.Version()
}

func (m *Model) filePathsLocked() []string {
	var paths []string
	for p, node := range m.index.Seq2() {
		if node.Type == NodeFile {
			paths = append(paths, p)
		}
	}
	slices.Sort(paths)
	return paths
}

// normalizePath 规整斜杠分隔的树内路径
// 越出树根或空路径返回 false
func normalizePath(p string) (string, bool) {
	p = path.Clean(strings.Trim(strings.ReplaceAll(p, "\\", "/"), "/"))
	if p == "" || p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", false
	}
	return p, true
}

// insertSorted 将节点插入子节点切片并保持排序
// 目录排在文件之前，同类按名称排序
func insertSorted(children []*FileNode, node *FileNode) []*FileNode {
	i, _ := slices.BinarySearchFunc(children, node, compareNodes)
	return slices.Insert(children, i, node)
}

func compareNodes(a, b *FileNode) int {
	if a.Type != b.Type {
		if a.Type == NodeDirectory {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Name, b.Name)
}

// cloneNodes 深拷贝节点切片
func cloneNodes(nodes []*FileNode) []*FileNode {
	if nodes == nil {
		return nil
	}
	out := make([]*FileNode, len(nodes))
	for i, node := range nodes {
		clone := *node
		clone.Children = cloneNodes(node.Children)
		out[i] = &clone
	}
	return out
}
