package artifact

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/purpose168/forge-cn/internal/db"
	"github.com/purpose168/forge-cn/internal/filepathext"
	"github.com/purpose168/forge-cn/internal/pubsub"
	"github.com/zeebo/xxh3"
)

// 初始版本号常量
const (
	InitialVersion = 0
)

// Artifact 表示一个已持久化的产物版本
type Artifact struct {
	ID          string // 产物唯一标识符
	ProjectID   string // 所属项目ID
	MessageID   string // 来源消息ID（可为空）
	Name        string // 产物文件名
	Language    string // 语言标签
	Version     int64  // 版本号
	Content     string // 产物内容
	ContentHash string // 内容哈希
	CreatedAt   int64  // 创建时间戳
}

// Service 产物服务接口，管理项目产物的版本与历史记录
type Service interface {
	pubsub.Subscriber[Artifact]
	// CreateVersion 保存产物的新版本，版本号自动递增
	// 内容与最新版本相同时不产生新版本
	CreateVersion(ctx context.Context, projectID, messageID string, extracted Extracted) (Artifact, error)
	// Get 根据项目、名称和版本获取产物
	Get(ctx context.Context, projectID, name string, version int64) (Artifact, error)
	// ListVersions 列出指定产物的全部历史版本，新版本在前
	ListVersions(ctx context.Context, projectID, name string) ([]Artifact, error)
	// ListLatest 列出项目中每个产物的最新版本
	ListLatest(ctx context.Context, projectID string) ([]Artifact, error)
	// DeleteProjectArtifacts 删除指定项目的所有产物
	DeleteProjectArtifacts(ctx context.Context, projectID string) error
	// Export 将项目产物的最新版本写入指定目录
	Export(ctx context.Context, projectID, dir string) error
}

// service 产物服务实现结构体
type service struct {
	*pubsub.Broker[Artifact] // 发布订阅代理
	db *sql.DB               // 数据库连接
	q  *db.Queries           // 数据库查询对象
}

// NewService 创建新的产物服务实例
func NewService(q *db.Queries, db *sql.DB) Service {
	return &service{
		Broker: pubsub.NewBroker[Artifact](),
		q:      q,
		db:     db,
	}
}

// HashContent 计算产物内容的哈希，用于识别无变化的版本
func HashContent(content string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(content))
}

// CreateVersion 保存产物的新版本，版本号自动递增
// 若最新版本的内容哈希与新内容一致，直接返回最新版本而不写入
func (s *service) CreateVersion(ctx context.Context, projectID, messageID string, extracted Extracted) (Artifact, error) {
	hash := HashContent(extracted.Content)

	versions, err := s.ListVersions(ctx, projectID, extracted.Name)
	if err != nil {
		return Artifact{}, err
	}
	if len(versions) > 0 && versions[0].ContentHash == hash {
		// 内容无变化，跳过本次版本
		return versions[0], nil
	}

	// 版本号冲突的最大重试次数
	const maxRetries = 3
	var lastErr error

	// 并发写入同名产物时 UNIQUE 约束可能冲突，重试会重新计算版本号
	for attempt := range maxRetries {
		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return Artifact{}, fmt.Errorf("开启事务失败: %w", txErr)
		}

		qtx := s.q.WithTx(tx)

		dbArtifact, txErr := qtx.CreateArtifact(ctx, db.CreateArtifactParams{
			ID:          uuid.New().String(),
			ProjectID:   projectID,
			MessageID:   sql.NullString{String: messageID, Valid: messageID != ""},
			Name:        extracted.Name,
			Language:    extracted.Language,
			Content:     extracted.Content,
			ContentHash: hash,
		})
		if txErr != nil {
			tx.Rollback()

			if strings.Contains(txErr.Error(), "UNIQUE constraint failed") && attempt < maxRetries-1 {
				lastErr = txErr
				continue
			}
			return Artifact{}, txErr
		}

		if txErr = tx.Commit(); txErr != nil {
			return Artifact{}, fmt.Errorf("提交事务失败: %w", txErr)
		}

		artifact := fromDBItem(dbArtifact)
		s.Publish(pubsub.CreatedEvent, artifact)
		return artifact, nil
	}

	return Artifact{}, lastErr
}

// Get 根据项目、名称和版本获取产物
func (s *service) Get(ctx context.Context, projectID, name string, version int64) (Artifact, error) {
	dbArtifact, err := s.q.GetArtifact(ctx, db.GetArtifactParams{
		ProjectID: projectID,
		Name:      name,
		Version:   version,
	})
	if err != nil {
		return Artifact{}, err
	}
	return fromDBItem(dbArtifact), nil
}

// ListVersions 列出指定产物的全部历史版本，新版本在前
func (s *service) ListVersions(ctx context.Context, projectID, name string) ([]Artifact, error) {
	dbArtifacts, err := s.q.ListArtifactVersions(ctx, db.ListArtifactVersionsParams{
		ProjectID: projectID,
		Name:      name,
	})
	if err != nil {
		return nil, err
	}
	artifacts := make([]Artifact, len(dbArtifacts))
	for i, dbArtifact := range dbArtifacts {
		artifacts[i] = fromDBItem(dbArtifact)
	}
	return artifacts, nil
}

// ListLatest 列出项目中每个产物的最新版本，按名称排序
func (s *service) ListLatest(ctx context.Context, projectID string) ([]Artifact, error) {
	dbArtifacts, err := s.q.ListLatestArtifacts(ctx, projectID)
	if err != nil {
		return nil, err
	}
	artifacts := make([]Artifact, len(dbArtifacts))
	for i, dbArtifact := range dbArtifacts {
		artifacts[i] = fromDBItem(dbArtifact)
	}
	return artifacts, nil
}

// DeleteProjectArtifacts 删除指定项目的所有产物
func (s *service) DeleteProjectArtifacts(ctx context.Context, projectID string) error {
	artifacts, err := s.ListLatest(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.q.DeleteProjectArtifacts(ctx, projectID); err != nil {
		return err
	}
	for _, artifact := range artifacts {
		s.Publish(pubsub.DeletedEvent, artifact)
	}
	return nil
}

// Export 将项目产物的最新版本写入指定目录
// 产物名中的分隔符展开为子目录，越出目标目录的名称拒绝写入
func (s *service) Export(ctx context.Context, projectID, dir string) error {
	artifacts, err := s.ListLatest(ctx, projectID)
	if err != nil {
		return err
	}
	for _, artifact := range artifacts {
		target := filepathext.SmartJoin(dir, filepath.FromSlash(artifact.Name))
		rel, err := filepath.Rel(dir, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("产物名称 %q 越出导出目录", artifact.Name)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("创建导出目录失败: %w", err)
		}
		if err := os.WriteFile(target, []byte(artifact.Content), 0o644); err != nil {
			return fmt.Errorf("写入产物 %s 失败: %w", artifact.Name, err)
		}
	}
	return nil
}

// fromDBItem 将数据库产物模型转换为业务产物模型
func fromDBItem(item db.Artifact) Artifact {
	return Artifact{
		ID:          item.ID,
		ProjectID:   item.ProjectID,
		MessageID:   item.MessageID.String,
		Name:        item.Name,
		Language:    item.Language,
		Version:     item.Version,
		Content:     item.Content,
		ContentHash: item.ContentHash,
		CreatedAt:   item.CreatedAt,
	}
}
