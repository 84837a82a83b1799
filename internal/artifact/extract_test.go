package artifact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestExtract 测试围栏代码块的产物提取
func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		html   string
		policy CollisionPolicy
		want   []Extracted
	}{
		{
			name: "单个代码块",
			text: "```python\nprint(1)\n```",
			want: []Extracted{
				{Kind: KindCode, Name: "generated.py", Language: "python", Content: "print(1)"},
			},
		},
		{
			name: "无语言标签回退为txt",
			text: "```\nhello\n```",
			want: []Extracted{
				{Kind: KindCode, Name: "generated.txt", Language: "", Content: "hello"},
			},
		},
		{
			name: "空白内容的代码块被丢弃",
			text: "```python\n   \n\t\n```",
			want: []Extracted{},
		},
		{
			name: "空内容的代码块被丢弃",
			text: "```sql\n```",
			want: []Extracted{},
		},
		{
			name: "围栏外的文本被忽略",
			text: "这是说明文字。\n```go\npackage main\n```\n收尾说明。",
			want: []Extracted{
				{Kind: KindCode, Name: "generated.go", Language: "go", Content: "package main"},
			},
		},
		{
			name: "未闭合的围栏取剩余内容",
			text: "```typescript\nconst x = 1\nconst y = 2",
			want: []Extracted{
				{Kind: KindCode, Name: "generated.ts", Language: "typescript", Content: "const x = 1\nconst y = 2"},
			},
		},
		{
			name: "结构化HTML优先产出固定命名产物",
			text: "```css\nbody {}\n```",
			html: "<html><body>app</body></html>",
			want: []Extracted{
				{Kind: KindMarkup, Name: "index.html", Language: "html", Content: "<html><body>app</body></html>"},
				{Kind: KindCode, Name: "generated.css", Language: "css", Content: "body {}"},
			},
		},
		{
			name: "仅结构化HTML",
			html: "<div>预览</div>",
			want: []Extracted{
				{Kind: KindMarkup, Name: "index.html", Language: "html", Content: "<div>预览</div>"},
			},
		},
		{
			name: "语言标签带额外字段时取首个",
			text: "```tsx App组件\nexport default function App() {}\n```",
			want: []Extracted{
				{Kind: KindCode, Name: "generated.tsx", Language: "tsx", Content: "export default function App() {}"},
			},
		},
		{
			name: "CRLF行尾",
			text: "```sql\r\nSELECT 1;\r\n```\r\n",
			want: []Extracted{
				{Kind: KindCode, Name: "generated.sql", Language: "sql", Content: "SELECT 1;"},
			},
		},
		{
			name:   "同名冲突默认追加序号后缀",
			text:   "```python\nprint(1)\n```\n\n```python\nprint(2)\n```",
			policy: PolicyAutoSuffix,
			want: []Extracted{
				{Kind: KindCode, Name: "generated.py", Language: "python", Content: "print(1)"},
				{Kind: KindCode, Name: "generated-2.py", Language: "python", Content: "print(2)"},
			},
		},
		{
			name:   "同名冲突保留先到者",
			text:   "```python\nprint(1)\n```\n\n```python\nprint(2)\n```",
			policy: PolicyFirstWins,
			want: []Extracted{
				{Kind: KindCode, Name: "generated.py", Language: "python", Content: "print(1)"},
			},
		},
		{
			name:   "同名冲突后到者覆盖",
			text:   "```python\nprint(1)\n```\n\n```python\nprint(2)\n```",
			policy: PolicyLastWins,
			want: []Extracted{
				{Kind: KindCode, Name: "generated.py", Language: "python", Content: "print(2)"},
			},
		},
		{
			name:   "三个同名块的序号递增",
			text:   "```js\na()\n```\n```js\nb()\n```\n```js\nc()\n```",
			policy: PolicyAutoSuffix,
			want: []Extracted{
				{Kind: KindCode, Name: "generated.js", Language: "js", Content: "a()"},
				{Kind: KindCode, Name: "generated-2.js", Language: "js", Content: "b()"},
				{Kind: KindCode, Name: "generated-3.js", Language: "js", Content: "c()"},
			},
		},
		{
			name: "不同语言的块互不冲突",
			text: "```sql\nCREATE TABLE t (id INTEGER);\n```\n```typescript\nexport {}\n```",
			want: []Extracted{
				{Kind: KindCode, Name: "generated.sql", Language: "sql", Content: "CREATE TABLE t (id INTEGER);"},
				{Kind: KindCode, Name: "generated.ts", Language: "typescript", Content: "export {}"},
			},
		},
		{
			name: "无围栏无HTML时结果为空",
			text: "纯文本回复，没有代码。",
			want: []Extracted{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			policy := tt.policy
			if policy == "" {
				policy = DefaultCollisionPolicy
			}
			got := Extract(tt.text, tt.html, policy)
			require.Equal(t, tt.want, got)
		})
	}
}

// TestExtract_确定性 测试同一输入多次提取结果一致
func TestExtract_确定性(t *testing.T) {
	t.Parallel()

	text := "```python\nprint(1)\n```\n```python\nprint(2)\n```"
	first := Extract(text, "", PolicyAutoSuffix)
	for range 5 {
		require.Equal(t, first, Extract(text, "", PolicyAutoSuffix))
	}
}

// TestExtensionFor 测试语言标签到扩展名的映射
func TestExtensionFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		language string
		want     string
	}{
		{"", "txt"},
		{"typescript", "ts"},
		{"TypeScript", "ts"},
		{"javascript", "js"},
		{"python", "py"},
		{"markdown", "md"},
		{"bash", "sh"},
		{"c++", "cpp"},
		{"sql", "sql"},
		{"html", "html"},
		{"rust", "rs"},
		{"go", "go"},
		{"未知语言", "txt"},
		{"objective-c", "txt"},
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ExtensionFor(tt.language))
		})
	}
}

// TestParseCollisionPolicy 测试冲突策略解析
func TestParseCollisionPolicy(t *testing.T) {
	t.Parallel()

	t.Run("空字符串返回默认策略", func(t *testing.T) {
		t.Parallel()
		policy, err := ParseCollisionPolicy("")
		require.NoError(t, err)
		require.Equal(t, DefaultCollisionPolicy, policy)
	})

	t.Run("合法策略", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"first-wins", "last-wins", "auto-suffix"} {
			policy, err := ParseCollisionPolicy(s)
			require.NoError(t, err)
			require.Equal(t, CollisionPolicy(s), policy)
		}
	})

	t.Run("未知策略返回错误", func(t *testing.T) {
		t.Parallel()
		_, err := ParseCollisionPolicy("rename-all")
		require.Error(t, err)
	})
}
