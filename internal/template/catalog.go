package template

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	xetag "github.com/charmbracelet/x/etag"
	"golang.org/x/sync/errgroup"
)

// ErrNotModified 远程目录自上次获取以来未发生变化
var ErrNotModified = errors.New("模板目录未修改")

// catalogClient 定义远程模板目录客户端接口
type catalogClient interface {
	Fetch(context.Context, string) ([]Template, error)
}

// 确保 httpCatalogClient 实现了 catalogClient 接口
var _ catalogClient = httpCatalogClient{}

// httpCatalogClient 是远程模板目录的HTTP客户端实现
type httpCatalogClient struct {
	url string // 目录JSON的URL
}

// Fetch 从远程目录获取模板列表，支持ETag缓存验证
func (c httpCatalogClient) Fetch(ctx context.Context, etag string) ([]Template, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("无法创建请求: %w", err)
	}
	// 添加 ETag 请求头用于缓存验证
	xetag.Request(req, etag)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotModified {
		return nil, ErrNotModified
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("意外的状态码: %d", resp.StatusCode)
	}

	var result []Template
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("解码响应失败: %w", err)
	}

	return result, nil
}

// catalogCache 管理模板目录在磁盘上的缓存副本
type catalogCache struct {
	path string // 缓存文件的路径
}

// Get 从缓存文件中读取模板目录
// 返回值：模板列表、ETag（用于缓存验证）、错误
func (c catalogCache) Get() ([]Template, string, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, "", fmt.Errorf("读取模板目录缓存失败: %w", err)
	}

	var v []Template
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, "", fmt.Errorf("从缓存反序列化模板目录失败: %w", err)
	}

	return v, xetag.Of(data), nil
}

// Store 将模板目录保存到缓存文件
func (c catalogCache) Store(v []Template) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("创建模板目录缓存目录失败: %w", err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("序列化模板目录失败: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("写入模板目录缓存失败: %w", err)
	}
	return nil
}

// catalogSync 管理远程模板目录的同步，支持缓存和条件获取
type catalogSync struct {
	once   sync.Once       // 确保获取只执行一次
	result []Template      // 存储目录结果
	cache  catalogCache    // 磁盘缓存
	client catalogClient   // 目录客户端
	init   atomic.Bool     // 初始化状态标志
}

// Init 初始化 catalogSync 实例
// client: 目录客户端实例
// path: 缓存文件路径
func (s *catalogSync) Init(client catalogClient, path string) {
	s.client = client
	s.cache = catalogCache{path: path}
	s.init.Store(true)
}

// Get 获取远程模板目录
// 网络失败或目录未修改时回退到磁盘缓存
func (s *catalogSync) Get(ctx context.Context) ([]Template, error) {
	if !s.init.Load() {
		panic("在 Init 之前调用了 Get 方法")
	}

	var throwErr error
	s.once.Do(func() {
		cached, etag, cachedErr := s.cache.Get()
		if cachedErr != nil {
			cached = nil
		}

		slog.Info("正在获取远程模板目录")
		result, err := s.client.Fetch(ctx, etag)
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("远程模板目录未及时更新")
			s.result = cached
			return
		}
		if errors.Is(err, ErrNotModified) {
			slog.Info("远程模板目录未修改")
			s.result = cached
			return
		}
		if err != nil {
			// 出错时回退到缓存内容
			s.result = cached
			throwErr = err
			return
		}

		s.result = result
		throwErr = s.cache.Store(result)
	})
	return s.result, throwErr
}

// Load 汇总本地目录与远程目录中的全部模板
// 本地发现与远程获取并发执行；同名模板本地优先
// 远程获取失败只记录日志，不阻断本地模板的使用
func Load(ctx context.Context, dirs []string, catalogURL, cachePath string) []Template {
	var local []*Template
	var remote []Template

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		local = Discover(dirs)
		return nil
	})
	g.Go(func() error {
		if catalogURL == "" {
			return nil
		}
		syncer := &catalogSync{}
		syncer.Init(httpCatalogClient{url: catalogURL}, cachePath)
		items, err := syncer.Get(ctx)
		if err != nil {
			slog.Warn("获取远程模板目录失败", "url", catalogURL, "error", err)
		}
		remote = items
		return nil
	})
	_ = g.Wait()

	// 合并两个来源，本地模板覆盖同名的远程模板
	byName := make(map[string]Template, len(local)+len(remote))
	for _, tpl := range remote {
		if err := tpl.Validate(); err != nil {
			slog.Warn("远程模板验证失败", "name", tpl.Name, "error", err)
			continue
		}
		byName[tpl.Name] = tpl
	}
	for _, tpl := range local {
		byName[tpl.Name] = *tpl
	}

	merged := make([]Template, 0, len(byName))
	for _, tpl := range byName {
		merged = append(merged, tpl)
	}
	slices.SortFunc(merged, func(a, b Template) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return merged
}

// Find 在模板列表中按名称查找
func Find(templates []Template, name string) (Template, bool) {
	for _, tpl := range templates {
		if tpl.Name == name {
			return tpl, true
		}
	}
	return Template{}, false
}
