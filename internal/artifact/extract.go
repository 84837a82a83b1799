// Package artifact 提供产物提取与版本持久化功能
// 产物是从助手回复中挖掘出的代码或标记单元，会被转发给工作区并按版本保存
package artifact

import (
	"fmt"
	"strings"
)

// Kind 产物类别
type Kind string

// 产物的两种类别
const (
	KindCode   Kind = "code"   // 围栏代码块提取出的代码产物
	KindMarkup Kind = "markup" // 结构化 HTML 通道产生的标记产物
)

// CollisionPolicy 同名产物的冲突解决策略
type CollisionPolicy string

// 可用的冲突解决策略
const (
	// PolicyFirstWins 保留第一个同名产物，丢弃后来者
	PolicyFirstWins CollisionPolicy = "first-wins"
	// PolicyLastWins 后来的同名产物覆盖先前的
	PolicyLastWins CollisionPolicy = "last-wins"
	// PolicyAutoSuffix 为后来的同名产物追加序号后缀（generated-2.ext 等）
	PolicyAutoSuffix CollisionPolicy = "auto-suffix"
)

// DefaultCollisionPolicy 未配置时使用的冲突解决策略
const DefaultCollisionPolicy = PolicyAutoSuffix

// ParseCollisionPolicy 解析冲突策略字符串
// 空字符串返回默认策略，未知字符串返回错误
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(s) {
	case "":
		return DefaultCollisionPolicy, nil
	case PolicyFirstWins, PolicyLastWins, PolicyAutoSuffix:
		return CollisionPolicy(s), nil
	default:
		return "", fmt.Errorf("未知的产物冲突策略: %q", s)
	}
}

// Extracted 表示从单条助手回复中提取出的一个产物
type Extracted struct {
	Kind     Kind   // 产物类别
	Name     string // 产物文件名
	Language string // 语言标签
	Content  string // 产物内容
}

// htmlArtifactName 结构化 HTML 通道产物的固定文件名
const htmlArtifactName = "index.html"

// generatedBaseName 代码产物的基础文件名
const generatedBaseName = "generated"

// languageExtensions 常见语言标签到文件扩展名的映射
// 未列出的标签若只含字母数字则按原样作为扩展名使用
var languageExtensions = map[string]string{
	"typescript": "ts",
	"javascript": "js",
	"python":     "py",
	"golang":     "go",
	"rust":       "rs",
	"ruby":       "rb",
	"markdown":   "md",
	"shell":      "sh",
	"bash":       "sh",
	"zsh":        "sh",
	"csharp":     "cs",
	"c++":        "cpp",
	"c#":         "cs",
	"plaintext":  "txt",
	"text":       "txt",
}

// Extract 从助手回复中提取产物，是一个无副作用的纯函数
// responseText 中以三反引号开头的行视为围栏边界，围栏首行反引号之后的文本为语言标签；
// structuredHTML 非空时首先产出一个固定命名的标记产物。
// 同名产物按 policy 解决冲突后返回。
func Extract(responseText, structuredHTML string, policy CollisionPolicy) []Extracted {
	artifacts := []Extracted{}
	if structuredHTML != "" {
		artifacts = append(artifacts, Extracted{
			Kind:     KindMarkup,
			Name:     htmlArtifactName,
			Language: "html",
			Content:  structuredHTML,
		})
	}
	artifacts = append(artifacts, scanFences(responseText)...)
	return resolveCollisions(artifacts, policy)
}

// scanFences 按行扫描文本中的围栏代码块
// 未闭合的围栏取剩余全部行作为内容，不视为错误
func scanFences(text string) []Extracted {
	var artifacts []Extracted
	var body []string
	language := ""
	inFence := false

	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(line, "```") {
			if inFence {
				body = append(body, line)
			}
			continue
		}
		if !inFence {
			// 开围栏：同一行反引号之后的首个字段是语言标签
			inFence = true
			language = ""
			body = nil
			if fields := strings.Fields(line[3:]); len(fields) > 0 {
				language = fields[0]
			}
			continue
		}
		// 闭围栏：产出当前块
		inFence = false
		if a, ok := fenceArtifact(language, body); ok {
			artifacts = append(artifacts, a)
		}
	}
	if inFence {
		if a, ok := fenceArtifact(language, body); ok {
			artifacts = append(artifacts, a)
		}
	}
	return artifacts
}

// fenceArtifact 将一个围栏块转换为代码产物
// 内容为空或仅含空白时不产出
func fenceArtifact(language string, body []string) (Extracted, bool) {
	content := strings.Join(body, "\n")
	if strings.TrimSpace(content) == "" {
		return Extracted{}, false
	}
	return Extracted{
		Kind:     KindCode,
		Name:     generatedBaseName + "." + ExtensionFor(language),
		Language: language,
		Content:  content,
	}, true
}

// ExtensionFor 返回语言标签对应的文件扩展名
// 空标签和无法作为扩展名的标签返回 txt
func ExtensionFor(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return "txt"
	}
	if ext, ok := languageExtensions[language]; ok {
		return ext
	}
	for _, r := range language {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return "txt"
		}
	}
	return language
}

// resolveCollisions 按策略解决同名产物的冲突
func resolveCollisions(artifacts []Extracted, policy CollisionPolicy) []Extracted {
	resolved := []Extracted{}
	index := map[string]int{}
	for _, a := range artifacts {
		pos, seen := index[a.Name]
		if !seen {
			index[a.Name] = len(resolved)
			resolved = append(resolved, a)
			continue
		}
		switch policy {
		case PolicyFirstWins:
			// 丢弃后来者
		case PolicyLastWins:
			resolved[pos] = a
		default:
			a.Name = suffixedName(a.Name, index)
			index[a.Name] = len(resolved)
			resolved = append(resolved, a)
		}
	}
	return resolved
}

// suffixedName 为冲突的文件名寻找第一个未占用的序号变体
// generated.py 的第二个实例变为 generated-2.py，依此类推
func suffixedName(name string, index map[string]int) string {
	base, ext := name, ""
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		base, ext = name[:dot], name[dot:]
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d%s", base, n, ext)
		if _, taken := index[candidate]; !taken {
			return candidate
		}
	}
}
