// 由 sqlc 自动生成的代码。请勿编辑。
// 版本：
//   sqlc v1.30.0
// 源文件：messages.sql

package db

import (
	"context"
)

const countProjectMessages = `-- 名称: CountProjectMessages :one
-- 功能: 统计指定项目的消息数量
-- 说明: 返回 messages 表中指定 project_id 的消息条数
SELECT COUNT(*)
FROM messages
WHERE project_id = ?
`

// CountProjectMessages 统计指定项目的消息数量
// 参数: ctx - 上下文对象，projectID - 要统计的项目 ID
// 返回: 消息条数和可能的错误
func (q *Queries) CountProjectMessages(ctx context.Context, projectID string) (int64, error) {
	row := q.queryRow(ctx, q.countProjectMessagesStmt, countProjectMessages, projectID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createMessage = `-- 名称: CreateMessage :one
-- 功能: 创建新消息记录
-- 说明: 向 messages 表插入一条新消息，并返回完整的消息信息
INSERT INTO messages (
    id,
    project_id,
    role,
    content,
    is_streaming,
    created_at,
    updated_at
) VALUES (
    ?, ?, ?, ?, ?, strftime('%s', 'now'), strftime('%s', 'now')
)
RETURNING id, project_id, role, content, is_streaming, created_at, updated_at
`

// CreateMessageParams 创建消息的参数结构体
// 包含创建新消息所需的所有字段
type CreateMessageParams struct {
	ID          string `json:"id"`           // 消息唯一标识符
	ProjectID   string `json:"project_id"`   // 项目唯一标识符
	Role        string `json:"role"`         // 消息角色（user 或 assistant）
	Content     string `json:"content"`      // 消息文本内容
	IsStreaming int64  `json:"is_streaming"` // 是否仍在生成中（0: 否, 1: 是）
}

// CreateMessage 创建新消息
// 参数: ctx - 上下文对象，arg - 创建消息所需的参数
// 返回: 创建成功的 Message 对象和可能的错误
func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (Message, error) {
	row := q.queryRow(ctx, q.createMessageStmt, createMessage,
		arg.ID,
		arg.ProjectID,
		arg.Role,
		arg.Content,
		arg.IsStreaming,
	)
	var i Message
	err := row.Scan(
		&i.ID,
		&i.ProjectID,
		&i.Role,
		&i.Content,
		&i.IsStreaming,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteMessage = `-- 名称: DeleteMessage :exec
-- 功能: 根据消息 ID 删除消息
-- 说明: 从 messages 表中删除指定 ID 的消息记录
DELETE FROM messages
WHERE id = ?
`

// DeleteMessage 根据消息 ID 删除消息
// 参数: ctx - 上下文对象，id - 要删除的消息 ID
// 返回: 可能的错误
func (q *Queries) DeleteMessage(ctx context.Context, id string) error {
	_, err := q.exec(ctx, q.deleteMessageStmt, deleteMessage, id)
	return err
}

const deleteProjectMessages = `-- 名称: DeleteProjectMessages :exec
-- 功能: 删除指定项目的所有消息
-- 说明: 从 messages 表中删除指定 project_id 的所有消息记录
DELETE FROM messages
WHERE project_id = ?
`

// DeleteProjectMessages 删除指定项目的所有消息
// 参数: ctx - 上下文对象，projectID - 要删除消息的项目 ID
// 返回: 可能的错误
func (q *Queries) DeleteProjectMessages(ctx context.Context, projectID string) error {
	_, err := q.exec(ctx, q.deleteProjectMessagesStmt, deleteProjectMessages, projectID)
	return err
}

const getMessage = `-- 名称: GetMessage :one
-- 功能: 根据消息 ID 获取消息
-- 说明: 从 messages 表中查询指定 ID 的消息记录
SELECT id, project_id, role, content, is_streaming, created_at, updated_at
FROM messages
WHERE id = ? LIMIT 1
`

// GetMessage 根据消息 ID 获取消息
// 参数: ctx - 上下文对象，id - 要查询的消息 ID
// 返回: 查询到的 Message 对象和可能的错误
func (q *Queries) GetMessage(ctx context.Context, id string) (Message, error) {
	row := q.queryRow(ctx, q.getMessageStmt, getMessage, id)
	var i Message
	err := row.Scan(
		&i.ID,
		&i.ProjectID,
		&i.Role,
		&i.Content,
		&i.IsStreaming,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listMessagesByProject = `-- 名称: ListMessagesByProject :many
-- 功能: 获取指定项目的所有消息
-- 说明: 从 messages 表中查询指定 project_id 的所有消息，按创建时间正序排列
-- 时间戳只有秒级精度，同秒写入的消息按 rowid 保持插入顺序
SELECT id, project_id, role, content, is_streaming, created_at, updated_at
FROM messages
WHERE project_id = ?
ORDER BY created_at ASC, rowid ASC
`

// ListMessagesByProject 获取指定项目的所有消息
// 参数: ctx - 上下文对象，projectID - 要查询的项目 ID
// 返回: 该项目的所有消息的 Message 对象切片和可能的错误
func (q *Queries) ListMessagesByProject(ctx context.Context, projectID string) ([]Message, error) {
	rows, err := q.query(ctx, q.listMessagesByProjectStmt, listMessagesByProject, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Message{}
	for rows.Next() {
		var i Message
		if err := rows.Scan(
			&i.ID,
			&i.ProjectID,
			&i.Role,
			&i.Content,
			&i.IsStreaming,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateMessage = `-- 名称: UpdateMessage :exec
-- 功能: 更新消息内容
-- 说明: 更新指定 ID 消息的 content（内容）、is_streaming（生成状态）和 updated_at（更新时间）
UPDATE messages
SET
    content = ?,
    is_streaming = ?,
    updated_at = strftime('%s', 'now')
WHERE id = ?
`

// UpdateMessageParams 更新消息的参数结构体
// 包含更新消息所需的字段
type UpdateMessageParams struct {
	Content     string `json:"content"`      // 消息文本内容
	IsStreaming int64  `json:"is_streaming"` // 是否仍在生成中（0: 否, 1: 是）
	ID          string `json:"id"`           // 要更新的消息 ID
}

// UpdateMessage 更新消息内容
// 参数: ctx - 上下文对象，arg - 更新消息所需的参数
// 返回: 可能的错误
func (q *Queries) UpdateMessage(ctx context.Context, arg UpdateMessageParams) error {
	_, err := q.exec(ctx, q.updateMessageStmt, updateMessage, arg.Content, arg.IsStreaming, arg.ID)
	return err
}
