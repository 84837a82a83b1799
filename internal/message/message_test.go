package message

import (
	"testing"

	"github.com/google/uuid"
	"github.com/purpose168/forge-cn/internal/db"
	"github.com/stretchr/testify/require"
)

// testService 创建带临时数据库的消息服务和一个测试项目
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

	return NewService(q), project.ID
}

// TestCreateAndList 测试消息创建与按项目列出
func TestCreateAndList(t *testing.T) {
	t.Parallel()

	svc, projectID := testService(t)

	user, err := svc.Create(t.Context(), projectID, CreateMessageParams{
		Role:    User,
		Content: "做一个待办应用",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, projectID, user.ProjectID)
	require.False(t, user.IsStreaming)

	assistant, err := svc.Create(t.Context(), projectID, CreateMessageParams{
		Role:        Assistant,
		IsStreaming: true,
	})
	require.NoError(t, err)
	require.True(t, assistant.IsStreaming)

	// 按创建顺序排列
	messages, err := svc.List(t.Context(), projectID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, User, messages[0].Role)
	require.Equal(t, "做一个待办应用", messages[0].Content)
	require.Equal(t, Assistant, messages[1].Role)
	require.True(t, messages[1].IsStreaming)

	count, err := svc.Count(t.Context(), projectID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

// TestUpdate 测试占位消息的内容回填
func TestUpdate(t *testing.T) {
	t.Parallel()

	svc, projectID := testService(t)

	msg, err := svc.Create(t.Context(), projectID, CreateMessageParams{
		Role:        Assistant,
		IsStreaming: true,
	})
	require.NoError(t, err)

	msg.Content = "好的，这是待办应用的代码。"
	msg.IsStreaming = false
	require.NoError(t, svc.Update(t.Context(), msg))

	got, err := svc.Get(t.Context(), msg.ID)
	require.NoError(t, err)
	require.Equal(t, "好的，这是待办应用的代码。", got.Content)
	require.False(t, got.IsStreaming)
}

// TestDelete 测试删除单条消息
func TestDelete(t *testing.T) {
	t.Parallel()

	svc, projectID := testService(t)

	first, err := svc.Create(t.Context(), projectID, CreateMessageParams{Role: User, Content: "一"})
	require.NoError(t, err)
	_, err = svc.Create(t.Context(), projectID, CreateMessageParams{Role: Assistant, Content: "二"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(t.Context(), first.ID))

	_, err = svc.Get(t.Context(), first.ID)
	require.Error(t, err)

	messages, err := svc.List(t.Context(), projectID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, "二", messages[0].Content)

	// 删除不存在的消息报错
	require.Error(t, svc.Delete(t.Context(), "无此消息"))
}

// TestDeleteProjectMessages 测试清空项目的对话历史
func TestDeleteProjectMessages(t *testing.T) {
	t.Parallel()

	svc, projectID := testService(t)

	for _, content := range []string{"一", "二", "三"} {
		_, err := svc.Create(t.Context(), projectID, CreateMessageParams{Role: User, Content: content})
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteProjectMessages(t.Context(), projectID))

	count, err := svc.Count(t.Context(), projectID)
	require.NoError(t, err)
	require.Zero(t, count)
}
