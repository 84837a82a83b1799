// Package message 提供消息管理服务，包括消息的创建、更新、查询和删除功能
package message

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/purpose168/forge-cn/internal/db"
	"github.com/purpose168/forge-cn/internal/pubsub"
)

// MessageRole 消息角色类型
type MessageRole string

// 对话中合法的消息角色
const (
	User      MessageRole = "user"      // 用户消息
	Assistant MessageRole = "assistant" // 助手消息
)

// Message 表示项目对话中的一条消息
type Message struct {
	ID          string      // 消息唯一标识符
	ProjectID   string      // 所属项目的ID
	Role        MessageRole // 消息角色
	Content     string      // 消息文本内容
	IsStreaming bool        // 是否仍在生成中（占位的助手消息为 true）
	CreatedAt   int64       // 创建时间戳（Unix时间戳）
	UpdatedAt   int64       // 更新时间戳（Unix时间戳）
}

// CreateMessageParams 创建消息的参数结构体
type CreateMessageParams struct {
	Role        MessageRole // 消息角色（用户/助手）
	Content     string      // 消息文本内容
	IsStreaming bool        // 是否为生成中的占位消息
}

// Service 消息服务接口，定义了消息管理的核心操作
type Service interface {
	pubsub.Subscriber[Message]
	// Create 创建新消息
	Create(ctx context.Context, projectID string, params CreateMessageParams) (Message, error)
	// Update 更新消息内容
	Update(ctx context.Context, message Message) error
	// Get 根据ID获取消息
	Get(ctx context.Context, id string) (Message, error)
	// List 列出指定项目的所有消息
	List(ctx context.Context, projectID string) ([]Message, error)
	// Count 统计指定项目的消息数量
	Count(ctx context.Context, projectID string) (int64, error)
	// Delete 删除指定消息
	Delete(ctx context.Context, id string) error
	// DeleteProjectMessages 删除指定项目的所有消息
	DeleteProjectMessages(ctx context.Context, projectID string) error
}

// service 消息服务的具体实现
type service struct {
	*pubsub.Broker[Message]
	q db.Querier
}

// NewService 创建新的消息服务实例
func NewService(q db.Querier) Service {
	return &service{
		Broker: pubsub.NewBroker[Message](),
		q:      q,
	}
}

// Create 创建新消息并保存到数据库
func (s *service) Create(ctx context.Context, projectID string, params CreateMessageParams) (Message, error) {
	// 转换布尔值为整数标志
	isStreaming := int64(0)
	if params.IsStreaming {
		isStreaming = 1
	}
	dbMessage, err := s.q.CreateMessage(ctx, db.CreateMessageParams{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Role:        string(params.Role),
		Content:     params.Content,
		IsStreaming: isStreaming,
	})
	if err != nil {
		return Message{}, err
	}
	message := fromDBItem(dbMessage)
	s.Publish(pubsub.CreatedEvent, message)
	return message, nil
}

// Update 更新消息内容
func (s *service) Update(ctx context.Context, message Message) error {
	isStreaming := int64(0)
	if message.IsStreaming {
		isStreaming = 1
	}
	err := s.q.UpdateMessage(ctx, db.UpdateMessageParams{
		ID:          message.ID,
		Content:     message.Content,
		IsStreaming: isStreaming,
	})
	if err != nil {
		return err
	}
	message.UpdatedAt = time.Now().Unix()
	s.Publish(pubsub.UpdatedEvent, message)
	return nil
}

// Get 根据ID获取消息
func (s *service) Get(ctx context.Context, id string) (Message, error) {
	dbMessage, err := s.q.GetMessage(ctx, id)
	if err != nil {
		return Message{}, err
	}
	return fromDBItem(dbMessage), nil
}

// List 列出指定项目的所有消息，按创建时间正序排列
func (s *service) List(ctx context.Context, projectID string) ([]Message, error) {
	dbMessages, err := s.q.ListMessagesByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	messages := make([]Message, len(dbMessages))
	for i, dbMessage := range dbMessages {
		messages[i] = fromDBItem(dbMessage)
	}
	return messages, nil
}

// Count 统计指定项目的消息数量
func (s *service) Count(ctx context.Context, projectID string) (int64, error) {
	return s.q.CountProjectMessages(ctx, projectID)
}

// Delete 删除指定消息
func (s *service) Delete(ctx context.Context, id string) error {
	message, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.q.DeleteMessage(ctx, message.ID)
	if err != nil {
		return err
	}
	s.Publish(pubsub.DeletedEvent, message)
	return nil
}

// DeleteProjectMessages 删除指定项目的所有消息
func (s *service) DeleteProjectMessages(ctx context.Context, projectID string) error {
	messages, err := s.List(ctx, projectID)
	if err != nil {
		return err
	}
	// 逐条删除以便为每条消息发布删除事件
	for _, message := range messages {
		err = s.Delete(ctx, message.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

// fromDBItem 将数据库记录转换为消息对象
func fromDBItem(item db.Message) Message {
	return Message{
		ID:          item.ID,
		ProjectID:   item.ProjectID,
		Role:        MessageRole(item.Role),
		Content:     item.Content,
		IsStreaming: item.IsStreaming != 0,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
