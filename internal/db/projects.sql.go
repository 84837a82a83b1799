// 由 sqlc 自动生成的代码。请勿编辑。
// 版本：
//   sqlc v1.30.0
// 源文件：projects.sql

package db

import (
	"context"
)

const createProject = `-- 名称: CreateProject :one
-- 功能: 创建新项目记录
-- 说明: 向 projects 表插入一条新项目，并返回完整的项目信息
INSERT INTO projects (
    id,
    name,
    created_at,
    updated_at
) VALUES (
    ?, ?, strftime('%s', 'now'), strftime('%s', 'now')
)
RETURNING id, name, created_at, updated_at
`

// CreateProjectParams 创建项目的参数结构体
type CreateProjectParams struct {
	ID   string `json:"id"`   // 项目唯一标识符
	Name string `json:"name"` // 项目名称
}

// CreateProject 创建新项目
// 参数: ctx - 上下文对象，arg - 创建项目所需的参数
// 返回: 创建成功的 Project 对象和可能的错误
func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := q.queryRow(ctx, q.createProjectStmt, createProject, arg.ID, arg.Name)
	var i Project
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteProject = `-- 名称: DeleteProject :exec
-- 功能: 根据项目 ID 删除项目
-- 说明: 从 projects 表中删除指定 ID 的项目记录，级联删除其消息和产物
DELETE FROM projects
WHERE id = ?
`

// DeleteProject 根据项目 ID 删除项目
// 参数: ctx - 上下文对象，id - 要删除的项目 ID
// 返回: 可能的错误
func (q *Queries) DeleteProject(ctx context.Context, id string) error {
	_, err := q.exec(ctx, q.deleteProjectStmt, deleteProject, id)
	return err
}

const getProject = `-- 名称: GetProject :one
-- 功能: 根据项目 ID 获取项目
-- 说明: 从 projects 表中查询指定 ID 的项目记录
SELECT id, name, created_at, updated_at
FROM projects
WHERE id = ? LIMIT 1
`

// GetProject 根据项目 ID 获取项目
// 参数: ctx - 上下文对象，id - 要查询的项目 ID
// 返回: 查询到的 Project 对象和可能的错误
func (q *Queries) GetProject(ctx context.Context, id string) (Project, error) {
	row := q.queryRow(ctx, q.getProjectStmt, getProject, id)
	var i Project
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listProjects = `-- 名称: ListProjects :many
-- 功能: 获取所有项目
-- 说明: 从 projects 表中查询所有项目，按最近活动时间倒序排列
SELECT id, name, created_at, updated_at
FROM projects
ORDER BY updated_at DESC, rowid DESC
`

// ListProjects 获取所有项目
// 参数: ctx - 上下文对象
// 返回: 所有项目的 Project 对象切片和可能的错误
func (q *Queries) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := q.query(ctx, q.listProjectsStmt, listProjects)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Project{}
	for rows.Next() {
		var i Project
		if err := rows.Scan(
			&i.ID,
			&i.Name,
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

const touchProject = `-- 名称: TouchProject :exec
-- 功能: 刷新项目的最近活动时间
-- 说明: 将指定 ID 项目的 updated_at 更新为当前时间
UPDATE projects
SET updated_at = strftime('%s', 'now')
WHERE id = ?
`

// TouchProject 刷新项目的最近活动时间
// 参数: ctx - 上下文对象，id - 要刷新的项目 ID
// 返回: 可能的错误
func (q *Queries) TouchProject(ctx context.Context, id string) error {
	_, err := q.exec(ctx, q.touchProjectStmt, touchProject, id)
	return err
}
