package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParse 测试TEMPLATE.md文件解析功能
func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		content    string
		wantName   string
		wantDesc   string
		wantMeta   map[string]string
		wantPrompt string
		wantErr    bool
	}{
		{
			name: "完整模板",
			content: `---
name: react-counter
description: A React counter app with increment and reset buttons.
metadata:
  author: example-org
  stack: "react"
---

Build a counter component with + and reset buttons.

Use functional components and hooks.
`,
			wantName:   "react-counter",
			wantDesc:   "A React counter app with increment and reset buttons.",
			wantMeta:   map[string]string{"author": "example-org", "stack": "react"},
			wantPrompt: "Build a counter component with + and reset buttons.\n\nUse functional components and hooks.",
		},
		{
			name: "最小模板",
			content: `---
name: todo-list
description: A todo list starter.
---

Build a todo list app.
`,
			wantName:   "todo-list",
			wantDesc:   "A todo list starter.",
			wantPrompt: "Build a todo list app.",
		},
		{
			name:    "无前置元数据",
			content: "Just a prompt.\nNo frontmatter here.",
			wantErr: true,
		},
		{
			name: "前置元数据未闭合",
			content: `---
name: broken
description: Never closed.
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// 将内容写入临时文件
			dir := t.TempDir()
			path := filepath.Join(dir, "TEMPLATE.md")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			tpl, err := Parse(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			require.Equal(t, tt.wantName, tpl.Name)
			require.Equal(t, tt.wantDesc, tpl.Description)
			if tt.wantMeta != nil {
				require.Equal(t, tt.wantMeta, tpl.Metadata)
			}
			require.Equal(t, tt.wantPrompt, tpl.Prompt)
			require.Equal(t, dir, tpl.Path)
			require.Equal(t, path, tpl.ManifestPath)
		})
	}
}

// TestTemplateValidate 测试模板验证功能
func TestTemplateValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tpl     Template
		wantErr bool
		errMsg  string
	}{
		{
			name: "有效模板",
			tpl: Template{
				Name:        "react-counter",
				Description: "A counter starter.",
				Prompt:      "Build a counter.",
				Path:        "/templates/react-counter",
			},
		},
		{
			name:    "缺少名称",
			tpl:     Template{Description: "Some description.", Prompt: "p"},
			wantErr: true,
			errMsg:  "名称是必填项",
		},
		{
			name:    "缺少描述",
			tpl:     Template{Name: "my-template", Prompt: "p", Path: "/templates/my-template"},
			wantErr: true,
			errMsg:  "描述是必填项",
		},
		{
			name:    "缺少提示词",
			tpl:     Template{Name: "my-template", Description: "desc", Path: "/templates/my-template"},
			wantErr: true,
			errMsg:  "正文提示词不能为空",
		},
		{
			name:    "名称过长",
			tpl:     Template{Name: strings.Repeat("a", 65), Description: "desc", Prompt: "p"},
			wantErr: true,
			errMsg:  "超过",
		},
		{
			name:    "无效名称 - 以连字符开头",
			tpl:     Template{Name: "-my-template", Description: "desc", Prompt: "p"},
			wantErr: true,
			errMsg:  "字母数字",
		},
		{
			name:    "名称与目录不匹配",
			tpl:     Template{Name: "my-template", Description: "desc", Prompt: "p", Path: "/templates/other"},
			wantErr: true,
			errMsg:  "必须与目录",
		},
		{
			name:    "远程模板无目录时跳过目录校验",
			tpl:     Template{Name: "remote-template", Description: "desc", Prompt: "p"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.tpl.Validate()
			if tt.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestDiscover 测试模板发现功能
func TestDiscover(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	// 创建有效模板1
	tpl1Dir := filepath.Join(tmpDir, "react-counter")
	require.NoError(t, os.MkdirAll(tpl1Dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tpl1Dir, "TEMPLATE.md"), []byte(`---
name: react-counter
description: First test template.
---
Build a counter.
`), 0o644))

	// 在嵌套目录中创建有效模板2
	tpl2Dir := filepath.Join(tmpDir, "nested", "todo-list")
	require.NoError(t, os.MkdirAll(tpl2Dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tpl2Dir, "TEMPLATE.md"), []byte(`---
name: todo-list
description: Second test template.
---
Build a todo list.
`), 0o644))

	// 创建无效模板（不会被包含）
	invalidDir := filepath.Join(tmpDir, "invalid-dir")
	require.NoError(t, os.MkdirAll(invalidDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(invalidDir, "TEMPLATE.md"), []byte(`---
name: wrong-name
description: Name doesn't match directory.
---
Prompt.
`), 0o644))

	templates := Discover([]string{tmpDir})
	require.Len(t, templates, 2)

	names := make(map[string]bool)
	for _, tpl := range templates {
		names[tpl.Name] = true
	}
	require.True(t, names["react-counter"])
	require.True(t, names["todo-list"])
}
