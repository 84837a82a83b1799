package schema

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/purpose168/forge-cn/internal/csync"
	"github.com/purpose168/forge-cn/internal/pubsub"
)

// maxPreviewRows 行预览的固定上限，永不取全表
const maxPreviewRows = 100

// listTablesStatement 枚举用户表的固定语句，系统表被排除
const listTablesStatement = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`

// ColumnDescriptor 描述一个表列
type ColumnDescriptor struct {
	Name       string `json:"name"`        // 列名
	Type       string `json:"type"`        // 声明类型
	NotNull    bool   `json:"not_null"`    // 是否非空
	PrimaryKey bool   `json:"primary_key"` // 是否主键成员
}

// TableDescriptor 描述一个用户表
// 每次刷新整体重建，不做增量比对
type TableDescriptor struct {
	Name     string             `json:"name"`      // 表名
	Columns  []ColumnDescriptor `json:"columns"`   // 列清单，按定义顺序
	RowCount int64              `json:"row_count"` // 当前行数
}

// QueryResult 一次即席语句执行的结果
// 引擎错误以人类可读的字符串附着在结果上，不作为结构化异常向外传播
type QueryResult struct {
	Statement    string    `json:"statement"`     // 执行的语句原文
	Columns      []string  `json:"columns"`       // 列名，按产出顺序
	Rows         [][]Value `json:"rows"`          // 行数据
	RowsAffected int64     `json:"rows_affected"` // 受影响的行数
	Err          string    `json:"err"`           // 错误文本，成功时为空
	ExecutedAt   time.Time `json:"executed_at"`   // 执行时间
}

// Event 结构检视器发布的事件
type Event struct {
	Tables []TableDescriptor // 刷新后的表清单（仅刷新事件携带）
	Result *QueryResult      // 执行结果（仅执行事件携带）
}

// Service 结构检视服务接口
type Service interface {
	pubsub.Subscriber[Event]
	// RefreshTables 重新枚举全部用户表及其列和行数
	RefreshTables(ctx context.Context) ([]TableDescriptor, error)
	// Tables 返回最近一次刷新的表清单快照
	Tables() []TableDescriptor
	// LoadRows 预览指定表的前若干行
	LoadRows(ctx context.Context, table string) QueryResult
	// Execute 执行任意语句并记入执行历史
	Execute(ctx context.Context, statement string) QueryResult
	// Results 返回执行历史快照，按执行顺序排列
	Results() []QueryResult
	// Close 关闭服务及底层数据库连接
	Close() error
}

// service 结构检视服务实现
type service struct {
	*pubsub.Broker[Event]
	runner  Runner
	mu      sync.RWMutex
	tables  []TableDescriptor
	results *csync.Slice[QueryResult]
}

// NewService 基于语句执行原语创建结构检视服务
func NewService(runner Runner) Service {
	return &service{
		Broker:  pubsub.NewBroker[Event](),
		runner:  runner,
		results: csync.NewSlice[QueryResult](),
	}
}

// IsSchemaMutating 判断语句是否可能改变表结构
// 只做小写子串匹配 create/drop/alter，不解析语句本身，
// 字符串字面量中的关键字同样会命中
func IsSchemaMutating(statement string) bool {
	lowered := strings.ToLower(statement)
	return strings.Contains(lowered, "create") ||
		strings.Contains(lowered, "drop") ||
		strings.Contains(lowered, "alter")
}

// RefreshTables 重新枚举全部用户表及其列和行数
// 先一条语句列出用户表，再逐表顺序取列信息和行数
func (s *service) RefreshTables(ctx context.Context) ([]TableDescriptor, error) {
	listed, err := s.runner.RunStatement(ctx, listTablesStatement)
	if err != nil {
		return nil, fmt.Errorf("枚举数据表失败: %w", err)
	}

	tables := []TableDescriptor{}
	for _, row := range listed.Rows {
		if len(row) == 0 {
			continue
		}
		name := row[0].Text
		descriptor, err := s.describeTable(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, descriptor)
	}

	s.mu.Lock()
	s.tables = tables
	s.mu.Unlock()

	s.Publish(pubsub.UpdatedEvent, Event{Tables: cloneTables(tables)})
	return cloneTables(tables), nil
}

// describeTable 获取单个表的列信息和行数
func (s *service) describeTable(ctx context.Context, name string) (TableDescriptor, error) {
	info, err := s.runner.RunStatement(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdent(name)))
	if err != nil {
		return TableDescriptor{}, fmt.Errorf("获取表 %s 的列信息失败: %w", name, err)
	}

	nameIdx := slices.Index(info.Columns, "name")
	typeIdx := slices.Index(info.Columns, "type")
	notNullIdx := slices.Index(info.Columns, "notnull")
	pkIdx := slices.Index(info.Columns, "pk")

	columns := make([]ColumnDescriptor, 0, len(info.Rows))
	for _, row := range info.Rows {
		column := ColumnDescriptor{}
		if nameIdx >= 0 && nameIdx < len(row) {
			column.Name = row[nameIdx].Text
		}
		if typeIdx >= 0 && typeIdx < len(row) {
			column.Type = row[typeIdx].Text
		}
		if notNullIdx >= 0 && notNullIdx < len(row) {
			column.NotNull = row[notNullIdx].Number != 0
		}
		if pkIdx >= 0 && pkIdx < len(row) {
			column.PrimaryKey = row[pkIdx].Number > 0
		}
		columns = append(columns, column)
	}

	counted, err := s.runner.RunStatement(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quoteIdent(name)))
	if err != nil {
		return TableDescriptor{}, fmt.Errorf("统计表 %s 的行数失败: %w", name, err)
	}
	var rowCount int64
	if len(counted.Rows) > 0 && len(counted.Rows[0]) > 0 {
		rowCount = int64(counted.Rows[0][0].Number)
	}

	return TableDescriptor{Name: name, Columns: columns, RowCount: rowCount}, nil
}

// Tables 返回最近一次刷新的表清单快照
func (s *service) Tables() []TableDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTables(s.tables)
}

// LoadRows 预览指定表的前若干行
// 引擎错误作为结果上的错误文本返回
func (s *service) LoadRows(ctx context.Context, table string) QueryResult {
	statement := fmt.Sprintf(`SELECT * FROM %s LIMIT %d`, quoteIdent(table), maxPreviewRows)
	return s.run(ctx, statement)
}

// Execute 执行任意语句并记入执行历史
// 语句文本命中结构变更启发式时，执行后自动触发一次表清单刷新
func (s *service) Execute(ctx context.Context, statement string) QueryResult {
	result := s.run(ctx, statement)
	s.results.Append(result)
	s.Publish(pubsub.CreatedEvent, Event{Result: &result})

	if IsSchemaMutating(statement) {
		if _, err := s.RefreshTables(ctx); err != nil {
			slog.Warn("语句执行后刷新表清单失败", "error", err)
		}
	}
	return result
}

// Results 返回执行历史快照，按执行顺序排列
func (s *service) Results() []QueryResult {
	return s.results.Copy()
}

// Close 关闭服务及底层数据库连接
func (s *service) Close() error {
	s.Shutdown()
	return s.runner.Close()
}

// run 执行语句并把引擎错误折叠为结果上的错误文本
func (s *service) run(ctx context.Context, statement string) QueryResult {
	result := QueryResult{
		Statement:  statement,
		ExecutedAt: time.Now(),
	}
	raw, err := s.runner.RunStatement(ctx, statement)
	if err != nil {
		result.Err = err.Error()
		return result
	}
	result.Columns = raw.Columns
	result.Rows = raw.Rows
	result.RowsAffected = raw.RowsAffected
	return result
}

// quoteIdent 将标识符包入双引号并转义内部引号
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// cloneTables 拷贝表清单快照，列切片一并复制
func cloneTables(tables []TableDescriptor) []TableDescriptor {
	out := make([]TableDescriptor, len(tables))
	for i, t := range tables {
		t.Columns = slices.Clone(t.Columns)
		out[i] = t
	}
	return out
}
