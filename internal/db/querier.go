// 本文件由 sqlc 自动生成。请勿手动编辑。
// 版本信息:
//   sqlc v1.30.0

package db

import (
	"context"
)

// Querier 定义了数据库查询接口，包含所有数据库操作方法
type Querier interface {
	// CountProjectMessages 统计指定项目的消息数量
	CountProjectMessages(ctx context.Context, projectID string) (int64, error)
	// CreateArtifact 创建新产物版本记录
	CreateArtifact(ctx context.Context, arg CreateArtifactParams) (Artifact, error)
	// CreateMessage 创建新消息记录
	CreateMessage(ctx context.Context, arg CreateMessageParams) (Message, error)
	// CreateProject 创建新项目记录
	CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error)
	// DeleteMessage 根据ID删除消息记录
	DeleteMessage(ctx context.Context, id string) error
	// DeleteProject 根据ID删除项目记录
	DeleteProject(ctx context.Context, id string) error
	// DeleteProjectArtifacts 删除指定项目的所有产物
	DeleteProjectArtifacts(ctx context.Context, projectID string) error
	// DeleteProjectMessages 删除指定项目的所有消息
	DeleteProjectMessages(ctx context.Context, projectID string) error
	// GetArtifact 根据项目、名称和版本获取产物记录
	GetArtifact(ctx context.Context, arg GetArtifactParams) (Artifact, error)
	// GetMessage 根据ID获取消息记录
	GetMessage(ctx context.Context, id string) (Message, error)
	// GetProject 根据ID获取项目记录
	GetProject(ctx context.Context, id string) (Project, error)
	// ListArtifactVersions 列出指定产物的全部历史版本
	ListArtifactVersions(ctx context.Context, arg ListArtifactVersionsParams) ([]Artifact, error)
	// ListLatestArtifacts 列出指定项目中每个产物的最新版本
	ListLatestArtifacts(ctx context.Context, projectID string) ([]Artifact, error)
	// ListMessagesByProject 列出指定项目的所有消息
	ListMessagesByProject(ctx context.Context, projectID string) ([]Message, error)
	// ListProjects 列出所有项目
	ListProjects(ctx context.Context) ([]Project, error)
	// TouchProject 刷新项目的最近活动时间
	TouchProject(ctx context.Context, id string) error
	// UpdateMessage 更新消息记录
	UpdateMessage(ctx context.Context, arg UpdateMessageParams) error
}

// 确保 Queries 类型实现了 Querier 接口
var _ Querier = (*Queries)(nil)
