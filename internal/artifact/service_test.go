package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/purpose168/forge-cn/internal/db"
	"github.com/stretchr/testify/require"
)

// testService 创建带临时数据库的产物服务和一个测试项目
func testService(t *testing.T) (Service, string) {
	t.Helper()

	conn, err := db.Connect(t.Context(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
	})

	q := db.New(conn)
	project, err := q.CreateProject(t.Context(), db.CreateProjectParams{
		ID:   uuid.New().String(),
		Name: "测试项目",
	})
	require.NoError(t, err)

	return NewService(q, conn), project.ID
}

// TestCreateVersion 测试产物版本的创建与递增
func TestCreateVersion(t *testing.T) {
	t.Parallel()

	svc, projectID := testService(t)

	first, err := svc.CreateVersion(t.Context(), projectID, "", Extracted{
		Kind:     KindCode,
		Name:     "generated.py",
		Language: "python",
		Content:  "print(1)",
	})
	require.NoError(t, err)
	require.Equal(t, int64(InitialVersion), first.Version)
	require.Equal(t, "generated.py", first.Name)

	second, err := svc.CreateVersion(t.Context(), projectID, "", Extracted{
		Kind:     KindCode,
		Name:     "generated.py",
		Language: "python",
		Content:  "print(2)",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), second.Version)

	versions, err := svc.ListVersions(t.Context(), projectID, "generated.py")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	// 新版本在前
	require.Equal(t, int64(1), versions[0].Version)
	require.Equal(t, "print(2)", versions[0].Content)
	require.Equal(t, int64(0), versions[1].Version)
}

// TestCreateVersion_内容无变化 测试相同内容不产生新版本
func TestCreateVersion_内容无变化(t *testing.T) {
	t.Parallel()

	svc, projectID := testService(t)

	extracted := Extracted{Kind: KindCode, Name: "index.html", Language: "html", Content: "<div>app</div>"}

	first, err := svc.CreateVersion(t.Context(), projectID, "", extracted)
	require.NoError(t, err)

	again, err := svc.CreateVersion(t.Context(), projectID, "", extracted)
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
	require.Equal(t, first.Version, again.Version)

	versions, err := svc.ListVersions(t.Context(), projectID, "index.html")
	require.NoError(t, err)
	require.Len(t, versions, 1)
}

// TestGet 测试按名称和版本获取产物
func TestGet(t *testing.T) {
	t.Parallel()

	svc, projectID := testService(t)

	created, err := svc.CreateVersion(t.Context(), projectID, "msg-1", Extracted{
		Kind:     KindCode,
		Name:     "generated.sql",
		Language: "sql",
		Content:  "CREATE TABLE todos (id INTEGER);",
	})
	require.NoError(t, err)

	got, err := svc.Get(t.Context(), projectID, "generated.sql", created.Version)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, "msg-1", got.MessageID)
	require.Equal(t, "CREATE TABLE todos (id INTEGER);", got.Content)

	_, err = svc.Get(t.Context(), projectID, "generated.sql", 99)
	require.Error(t, err)
}

// TestListLatest 测试按项目列出每个产物的最新版本
func TestListLatest(t *testing.T) {
	t.Parallel()

	svc, projectID := testService(t)

	_, err := svc.CreateVersion(t.Context(), projectID, "", Extracted{Kind: KindCode, Name: "b.ts", Language: "typescript", Content: "v0"})
	require.NoError(t, err)
	_, err = svc.CreateVersion(t.Context(), projectID, "", Extracted{Kind: KindCode, Name: "b.ts", Language: "typescript", Content: "v1"})
	require.NoError(t, err)
	_, err = svc.CreateVersion(t.Context(), projectID, "", Extracted{Kind: KindCode, Name: "a.css", Language: "css", Content: "body {}"})
	require.NoError(t, err)

	latest, err := svc.ListLatest(t.Context(), projectID)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	// 按名称排序
	require.Equal(t, "a.css", latest[0].Name)
	require.Equal(t, int64(0), latest[0].Version)
	require.Equal(t, "b.ts", latest[1].Name)
	require.Equal(t, int64(1), latest[1].Version)
	require.Equal(t, "v1", latest[1].Content)
}

// TestDeleteProjectArtifacts 测试删除项目的所有产物
func TestDeleteProjectArtifacts(t *testing.T) {
	t.Parallel()

	svc, projectID := testService(t)

	_, err := svc.CreateVersion(t.Context(), projectID, "", Extracted{Kind: KindCode, Name: "generated.js", Language: "js", Content: "a()"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProjectArtifacts(t.Context(), projectID))

	latest, err := svc.ListLatest(t.Context(), projectID)
	require.NoError(t, err)
	require.Empty(t, latest)
}

// TestExport 测试将最新版本导出到目录
func TestExport(t *testing.T) {
	t.Parallel()

	svc, projectID := testService(t)

	_, err := svc.CreateVersion(t.Context(), projectID, "", Extracted{Kind: KindMarkup, Name: "index.html", Language: "html", Content: "<div>旧</div>"})
	require.NoError(t, err)
	_, err = svc.CreateVersion(t.Context(), projectID, "", Extracted{Kind: KindMarkup, Name: "index.html", Language: "html", Content: "<div>新</div>"})
	require.NoError(t, err)
	_, err = svc.CreateVersion(t.Context(), projectID, "", Extracted{Kind: KindCode, Name: "src/App.tsx", Language: "tsx", Content: "export default function App() {}"})
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, svc.Export(t.Context(), projectID, dir))

	html, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	require.Equal(t, "<div>新</div>", string(html))

	app, err := os.ReadFile(filepath.Join(dir, "src", "App.tsx"))
	require.NoError(t, err)
	require.Equal(t, "export default function App() {}", string(app))
}

// TestExport_越界名称 测试越出导出目录的产物名被拒绝
func TestExport_越界名称(t *testing.T) {
	t.Parallel()

	svc, projectID := testService(t)

	_, err := svc.CreateVersion(t.Context(), projectID, "", Extracted{Kind: KindCode, Name: "../escape.txt", Language: "", Content: "bad"})
	require.NoError(t, err)

	err = svc.Export(t.Context(), projectID, t.TempDir())
	require.Error(t, err)
}
