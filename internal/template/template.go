// Package template 管理起步模板
// 模板是带YAML前置元数据的TEMPLATE.md文件，正文即项目的起步提示词
package template

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"gopkg.in/yaml.v3"
)

// 常量定义
const (
	ManifestFileName     = "TEMPLATE.md" // 模板清单文件名
	MaxNameLength        = 64            // 名称最大长度
	MaxDescriptionLength = 1024          // 描述最大长度
)

// namePattern 模板名称的正则表达式模式
// 要求：字母数字开头，可包含连字符，但不能有前导/尾随/连续的连字符
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9]+(-[a-zA-Z0-9]+)*$`)

// Template 表示解析后的TEMPLATE.md文件内容
type Template struct {
	Name         string            `yaml:"name" json:"name"`                             // 模板名称
	Description  string            `yaml:"description" json:"description"`               // 模板描述
	Metadata     map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"` // 元数据
	Prompt       string            `yaml:"-" json:"prompt"`                              // 起步提示词（正文内容）
	Path         string            `yaml:"-" json:"path,omitempty"`                      // 模板目录路径
	ManifestPath string            `yaml:"-" json:"manifest_path,omitempty"`             // TEMPLATE.md文件的完整路径
}

// Validate 检查模板是否符合规范要求
// 返回验证过程中发现的所有错误
func (t *Template) Validate() error {
	var errs []error

	// 验证名称
	if t.Name == "" {
		errs = append(errs, errors.New("名称是必填项"))
	} else {
		if len(t.Name) > MaxNameLength {
			errs = append(errs, fmt.Errorf("名称超过%d个字符", MaxNameLength))
		}
		if !namePattern.MatchString(t.Name) {
			errs = append(errs, errors.New("名称必须是字母数字，可包含连字符，但不能有前导/尾随/连续的连字符"))
		}
		if t.Path != "" && !strings.EqualFold(filepath.Base(t.Path), t.Name) {
			errs = append(errs, fmt.Errorf("名称%q必须与目录%q匹配", t.Name, filepath.Base(t.Path)))
		}
	}

	// 验证描述
	if t.Description == "" {
		errs = append(errs, errors.New("描述是必填项"))
	} else if len(t.Description) > MaxDescriptionLength {
		errs = append(errs, fmt.Errorf("描述超过%d个字符", MaxDescriptionLength))
	}

	// 验证提示词
	if t.Prompt == "" {
		errs = append(errs, errors.New("正文提示词不能为空"))
	}

	return errors.Join(errs...)
}

// Parse 解析TEMPLATE.md文件
// 参数:
//   - path: TEMPLATE.md文件的路径
//
// 返回值: 解析后的Template对象和可能的错误
func Parse(path string) (*Template, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// 分离前置元数据和正文
	frontmatter, body, err := splitFrontmatter(string(content))
	if err != nil {
		return nil, err
	}

	var tpl Template
	if err := yaml.Unmarshal([]byte(frontmatter), &tpl); err != nil {
		return nil, fmt.Errorf("解析前置元数据失败: %w", err)
	}

	tpl.Prompt = strings.TrimSpace(body)
	tpl.Path = filepath.Dir(path)
	tpl.ManifestPath = path

	return &tpl, nil
}

// splitFrontmatter 从Markdown内容中提取YAML前置元数据和正文
// 参数:
//   - content: Markdown文件内容
//
// 返回值:
//   - frontmatter: YAML前置元数据部分
//   - body: 正文部分
//   - err: 解析错误
func splitFrontmatter(content string) (frontmatter, body string, err error) {
	// 将换行符统一为\n以便一致解析
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return "", "", errors.New("未找到YAML前置元数据")
	}

	rest := strings.TrimPrefix(content, "---\n")
	before, after, ok := strings.Cut(rest, "\n---")
	if !ok {
		return "", "", errors.New("前置元数据未正确闭合")
	}

	return before, after, nil
}

// Discover 在给定路径中查找所有有效的模板
// 参数:
//   - paths: 要搜索的目录路径列表
//
// 返回值: 发现的所有有效模板列表
func Discover(paths []string) []*Template {
	var templates []*Template
	var mu sync.Mutex
	seen := make(map[string]bool)

	for _, base := range paths {
		// 我们使用fastwalk并设置Follow: true而不是filepath.WalkDir，
		// 因为WalkDir不会跟随任何深度的符号链接目录——只跟随入口点。
		// 这确保了符号链接子目录中的模板也能被发现。
		// fastwalk是并发的，所以我们用mu保护共享状态（seen, templates）。
		conf := fastwalk.Config{
			Follow:  true,
			ToSlash: fastwalk.DefaultToSlash(),
		}
		fastwalk.Walk(&conf, base, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() || d.Name() != ManifestFileName {
				return nil
			}
			mu.Lock()
			if seen[path] {
				mu.Unlock()
				return nil
			}
			seen[path] = true
			mu.Unlock()
			tpl, err := Parse(path)
			if err != nil {
				slog.Warn("解析模板清单失败", "path", path, "error", err)
				return nil
			}
			if err := tpl.Validate(); err != nil {
				slog.Warn("模板验证失败", "path", path, "error", err)
				return nil
			}
			slog.Debug("成功加载模板", "name", tpl.Name, "path", path)
			mu.Lock()
			templates = append(templates, tpl)
			mu.Unlock()
			return nil
		})
	}

	return templates
}
