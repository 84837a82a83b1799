// 由 sqlc 自动生成的代码。请勿编辑。
// 版本：
//   sqlc v1.30.0
// 源文件：artifacts.sql

package db

import (
	"context"
	"database/sql"
)

const createArtifact = `-- 名称: CreateArtifact :one
-- 功能: 创建新产物版本记录
-- 说明: 向 artifacts 表插入一条产物版本，版本号取同名产物当前最大版本加一（首个版本为 0）
INSERT INTO artifacts (
    id,
    project_id,
    message_id,
    name,
    language,
    version,
    content,
    content_hash,
    created_at
) VALUES (
    ?, ?, ?, ?, ?,
    COALESCE(
        (SELECT MAX(version) + 1
         FROM artifacts
         WHERE project_id = ? AND name = ?),
        0
    ),
    ?, ?, strftime('%s', 'now')
)
RETURNING id, project_id, message_id, name, language, version, content, created_at, content_hash
`

// CreateArtifactParams 创建产物版本的参数结构体
// 包含创建新产物版本所需的所有字段
type CreateArtifactParams struct {
	ID          string         `json:"id"`           // 产物唯一标识符
	ProjectID   string         `json:"project_id"`   // 项目唯一标识符
	MessageID   sql.NullString `json:"message_id"`   // 来源消息的ID（可为空）
	Name        string         `json:"name"`         // 产物文件名
	Language    string         `json:"language"`     // 代码语言标签
	Content     string         `json:"content"`      // 产物内容
	ContentHash string         `json:"content_hash"` // 内容哈希
}

// CreateArtifact 创建新产物版本
// 参数: ctx - 上下文对象，arg - 创建产物版本所需的参数
// 返回: 创建成功的 Artifact 对象和可能的错误
func (q *Queries) CreateArtifact(ctx context.Context, arg CreateArtifactParams) (Artifact, error) {
	row := q.queryRow(ctx, q.createArtifactStmt, createArtifact,
		arg.ID,
		arg.ProjectID,
		arg.MessageID,
		arg.Name,
		arg.Language,
		arg.ProjectID,
		arg.Name,
		arg.Content,
		arg.ContentHash,
	)
	var i Artifact
	err := row.Scan(
		&i.ID,
		&i.ProjectID,
		&i.MessageID,
		&i.Name,
		&i.Language,
		&i.Version,
		&i.Content,
		&i.CreatedAt,
		&i.ContentHash,
	)
	return i, err
}

const deleteProjectArtifacts = `-- 名称: DeleteProjectArtifacts :exec
-- 功能: 删除指定项目的所有产物
-- 说明: 从 artifacts 表中删除指定 project_id 的所有产物记录
DELETE FROM artifacts
WHERE project_id = ?
`

// DeleteProjectArtifacts 删除指定项目的所有产物
// 参数: ctx - 上下文对象，projectID - 要删除产物的项目 ID
// 返回: 可能的错误
func (q *Queries) DeleteProjectArtifacts(ctx context.Context, projectID string) error {
	_, err := q.exec(ctx, q.deleteProjectArtifactsStmt, deleteProjectArtifacts, projectID)
	return err
}

const getArtifact = `-- 名称: GetArtifact :one
-- 功能: 根据项目、名称和版本获取产物
-- 说明: 从 artifacts 表中查询指定项目下指定名称和版本的产物记录
SELECT id, project_id, message_id, name, language, version, content, created_at, content_hash
FROM artifacts
WHERE project_id = ? AND name = ? AND version = ? LIMIT 1
`

// GetArtifactParams 获取产物的参数结构体
type GetArtifactParams struct {
	ProjectID string `json:"project_id"` // 项目唯一标识符
	Name      string `json:"name"`       // 产物文件名
	Version   int64  `json:"version"`    // 产物版本号
}

// GetArtifact 根据项目、名称和版本获取产物
// 参数: ctx - 上下文对象，arg - 查询产物所需的参数
// 返回: 查询到的 Artifact 对象和可能的错误
func (q *Queries) GetArtifact(ctx context.Context, arg GetArtifactParams) (Artifact, error) {
	row := q.queryRow(ctx, q.getArtifactStmt, getArtifact, arg.ProjectID, arg.Name, arg.Version)
	var i Artifact
	err := row.Scan(
		&i.ID,
		&i.ProjectID,
		&i.MessageID,
		&i.Name,
		&i.Language,
		&i.Version,
		&i.Content,
		&i.CreatedAt,
		&i.ContentHash,
	)
	return i, err
}

const listArtifactVersions = `-- 名称: ListArtifactVersions :many
-- 功能: 列出指定产物的全部历史版本
-- 说明: 从 artifacts 表中查询指定项目下指定名称的所有版本，按版本号倒序排列
SELECT id, project_id, message_id, name, language, version, content, created_at, content_hash
FROM artifacts
WHERE project_id = ? AND name = ?
ORDER BY version DESC
`

// ListArtifactVersionsParams 列出产物历史版本的参数结构体
type ListArtifactVersionsParams struct {
	ProjectID string `json:"project_id"` // 项目唯一标识符
	Name      string `json:"name"`       // 产物文件名
}

// ListArtifactVersions 列出指定产物的全部历史版本
// 参数: ctx - 上下文对象，arg - 查询所需的参数
// 返回: 该产物所有版本的 Artifact 对象切片和可能的错误
func (q *Queries) ListArtifactVersions(ctx context.Context, arg ListArtifactVersionsParams) ([]Artifact, error) {
	rows, err := q.query(ctx, q.listArtifactVersionsStmt, listArtifactVersions, arg.ProjectID, arg.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Artifact{}
	for rows.Next() {
		var i Artifact
		if err := rows.Scan(
			&i.ID,
			&i.ProjectID,
			&i.MessageID,
			&i.Name,
			&i.Language,
			&i.Version,
			&i.Content,
			&i.CreatedAt,
			&i.ContentHash,
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

const listLatestArtifacts = `-- 名称: ListLatestArtifacts :many
-- 功能: 列出指定项目中每个产物的最新版本
-- 说明: 从 artifacts 表中查询指定 project_id 下每个名称的最大版本记录，按名称正序排列
SELECT a.id, a.project_id, a.message_id, a.name, a.language, a.version, a.content, a.created_at, a.content_hash
FROM artifacts a
WHERE a.project_id = ?
  AND a.version = (
      SELECT MAX(b.version)
      FROM artifacts b
      WHERE b.project_id = a.project_id AND b.name = a.name
  )
ORDER BY a.name ASC
`

// ListLatestArtifacts 列出指定项目中每个产物的最新版本
// 参数: ctx - 上下文对象，projectID - 要查询的项目 ID
// 返回: 该项目每个产物最新版本的 Artifact 对象切片和可能的错误
func (q *Queries) ListLatestArtifacts(ctx context.Context, projectID string) ([]Artifact, error) {
	rows, err := q.query(ctx, q.listLatestArtifactsStmt, listLatestArtifacts, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Artifact{}
	for rows.Next() {
		var i Artifact
		if err := rows.Scan(
			&i.ID,
			&i.ProjectID,
			&i.MessageID,
			&i.Name,
			&i.Language,
			&i.Version,
			&i.Content,
			&i.CreatedAt,
			&i.ContentHash,
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
