// Package project 提供项目管理服务
// 每个正在构建的应用对应一个项目，项目拥有独立的对话历史、产物集合和工作区目录
package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/purpose168/forge-cn/internal/db"
	"github.com/purpose168/forge-cn/internal/pubsub"
)

// Project 表示一个正在构建的应用项目
type Project struct {
	ID        string `json:"id"`         // 项目唯一标识符
	Name      string `json:"name"`       // 项目名称
	CreatedAt int64  `json:"created_at"` // 创建时间戳（Unix时间戳）
	UpdatedAt int64  `json:"updated_at"` // 最近活动时间戳（Unix时间戳）
}

// Service 项目服务接口，定义了项目管理的核心操作
type Service interface {
	pubsub.Subscriber[Project]
	// Create 创建新项目并初始化其工作区目录
	Create(ctx context.Context, name string) (Project, error)
	// Get 根据ID获取项目
	Get(ctx context.Context, id string) (Project, error)
	// List 列出所有项目，按最近活动时间降序排列
	List(ctx context.Context) ([]Project, error)
	// Touch 刷新项目的最近活动时间
	Touch(ctx context.Context, id string) error
	// Delete 删除项目及其工作区目录
	Delete(ctx context.Context, id string) error
	// WorkspaceDir 返回项目工作区目录的绝对路径
	WorkspaceDir(id string) string
	// SandboxDBPath 返回项目沙箱数据库文件的绝对路径
	SandboxDBPath(id string) string
}

// service 项目服务的具体实现
type service struct {
	*pubsub.Broker[Project]
	q       db.Querier
	dataDir string
}

// NewService 创建新的项目服务实例
// 参数 dataDir: 应用数据目录，各项目的工作区存放在其 projects 子目录下
func NewService(q db.Querier, dataDir string) Service {
	return &service{
		Broker:  pubsub.NewBroker[Project](),
		q:       q,
		dataDir: dataDir,
	}
}

// Create 创建新项目并初始化其工作区目录
// 名称为空时使用默认名称
func (s *service) Create(ctx context.Context, name string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "未命名项目"
	}
	dbProject, err := s.q.CreateProject(ctx, db.CreateProjectParams{
		ID:   uuid.New().String(),
		Name: name,
	})
	if err != nil {
		return Project{}, fmt.Errorf("创建项目失败: %w", err)
	}
	project := fromDBItem(dbProject)
	if err := os.MkdirAll(s.WorkspaceDir(project.ID), 0o755); err != nil {
		return Project{}, fmt.Errorf("创建项目工作区目录失败: %w", err)
	}
	s.Publish(pubsub.CreatedEvent, project)
	return project, nil
}

// Get 根据ID获取项目
func (s *service) Get(ctx context.Context, id string) (Project, error) {
	dbProject, err := s.q.GetProject(ctx, id)
	if err != nil {
		return Project{}, err
	}
	return fromDBItem(dbProject), nil
}

// List 列出所有项目，按最近活动时间降序排列
func (s *service) List(ctx context.Context) ([]Project, error) {
	dbProjects, err := s.q.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	projects := make([]Project, len(dbProjects))
	for i, dbProject := range dbProjects {
		projects[i] = fromDBItem(dbProject)
	}
	return projects, nil
}

// Touch 刷新项目的最近活动时间
func (s *service) Touch(ctx context.Context, id string) error {
	if err := s.q.TouchProject(ctx, id); err != nil {
		return err
	}
	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	s.Publish(pubsub.UpdatedEvent, project)
	return nil
}

// Delete 删除项目及其工作区目录
// 数据库中的消息和产物由外键级联删除
func (s *service) Delete(ctx context.Context, id string) error {
	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.q.DeleteProject(ctx, project.ID); err != nil {
		return err
	}
	if err := os.RemoveAll(s.projectDir(project.ID)); err != nil {
		return fmt.Errorf("删除项目目录失败: %w", err)
	}
	s.Publish(pubsub.DeletedEvent, project)
	return nil
}

// WorkspaceDir 返回项目工作区目录的绝对路径
// 工作区目录存放从产物导出的文件树
func (s *service) WorkspaceDir(id string) string {
	return filepath.Join(s.projectDir(id), "workspace")
}

// SandboxDBPath 返回项目沙箱数据库文件的绝对路径
// 沙箱数据库是应用预览环境执行 SQL 的目标
func (s *service) SandboxDBPath(id string) string {
	return filepath.Join(s.projectDir(id), "sandbox.db")
}

// projectDir 返回项目数据目录的绝对路径
func (s *service) projectDir(id string) string {
	return filepath.Join(s.dataDir, "projects", id)
}

// fromDBItem 将数据库记录转换为项目对象
func fromDBItem(item db.Project) Project {
	return Project{
		ID:        item.ID,
		Name:      item.Name,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
