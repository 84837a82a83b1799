// 由 sqlc 自动生成的代码。请勿手动编辑。
// 版本信息:
//   sqlc v1.30.0

package db

import (
	"database/sql"
)

// Artifact 表示产物版本记录的结构体
// 用于存储从助手回复中提取出的文件，同名产物按版本号递增保存
type Artifact struct {
	ID          string         `json:"id"`           // 产物唯一标识符
	ProjectID   string         `json:"project_id"`   // 所属项目的ID
	MessageID   sql.NullString `json:"message_id"`   // 来源消息的ID（可为空）
	Name        string         `json:"name"`         // 产物文件名（项目内相对路径）
	Language    string         `json:"language"`     // 代码语言标签
	Version     int64          `json:"version"`      // 产物版本号（从 0 开始）
	Content     string         `json:"content"`      // 产物内容
	CreatedAt   int64          `json:"created_at"`   // 创建时间戳（Unix时间戳）
	ContentHash string         `json:"content_hash"` // 内容哈希（用于跳过无变化的版本）
}

// Message 表示消息记录的结构体
// 用于存储项目对话中的消息信息，包括角色和内容
type Message struct {
	ID          string `json:"id"`           // 消息唯一标识符
	ProjectID   string `json:"project_id"`   // 所属项目的ID
	Role        string `json:"role"`         // 消息角色（user 或 assistant）
	Content     string `json:"content"`      // 消息文本内容
	IsStreaming int64  `json:"is_streaming"` // 是否仍在生成中（0：否，1：是）
	CreatedAt   int64  `json:"created_at"`   // 创建时间戳（Unix时间戳）
	UpdatedAt   int64  `json:"updated_at"`   // 更新时间戳（Unix时间戳）
}

// Project 表示项目记录的结构体
// 每个正在构建的应用对应一个项目
type Project struct {
	ID        string `json:"id"`         // 项目唯一标识符
	Name      string `json:"name"`       // 项目名称
	CreatedAt int64  `json:"created_at"` // 创建时间戳（Unix时间戳）
	UpdatedAt int64  `json:"updated_at"` // 更新时间戳（Unix时间戳）
}
