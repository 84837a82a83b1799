// 由 sqlc 自动生成的代码。请勿编辑。
// 版本信息:
//   sqlc v1.30.0

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX 定义数据库事务接口，封装了数据库操作的核心方法
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// New 创建并返回一个新的 Queries 实例
// 参数 db: 实现了 DBTX 接口的数据库连接对象
// 返回值: 初始化后的 Queries 指针
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Prepare 预编译所有 SQL 查询语句并返回 Queries 实例
// 该方法会预先准备所有数据库查询语句，以提高后续查询的性能
// 参数 ctx: 上下文对象，用于控制请求的生命周期
// 参数 db: 实现了 DBTX 接口的数据库连接对象
// 返回值: 初始化后的 Queries 指针和可能的错误
func Prepare(ctx context.Context, db DBTX) (*Queries, error) {
	q := Queries{db: db}
	var err error
	if q.countProjectMessagesStmt, err = db.PrepareContext(ctx, countProjectMessages); err != nil {
		return nil, fmt.Errorf("准备查询 CountProjectMessages 时出错: %w", err)
	}
	if q.createArtifactStmt, err = db.PrepareContext(ctx, createArtifact); err != nil {
		return nil, fmt.Errorf("准备查询 CreateArtifact 时出错: %w", err)
	}
	if q.createMessageStmt, err = db.PrepareContext(ctx, createMessage); err != nil {
		return nil, fmt.Errorf("准备查询 CreateMessage 时出错: %w", err)
	}
	if q.createProjectStmt, err = db.PrepareContext(ctx, createProject); err != nil {
		return nil, fmt.Errorf("准备查询 CreateProject 时出错: %w", err)
	}
	if q.deleteMessageStmt, err = db.PrepareContext(ctx, deleteMessage); err != nil {
		return nil, fmt.Errorf("准备查询 DeleteMessage 时出错: %w", err)
	}
	if q.deleteProjectStmt, err = db.PrepareContext(ctx, deleteProject); err != nil {
		return nil, fmt.Errorf("准备查询 DeleteProject 时出错: %w", err)
	}
	if q.deleteProjectArtifactsStmt, err = db.PrepareContext(ctx, deleteProjectArtifacts); err != nil {
		return nil, fmt.Errorf("准备查询 DeleteProjectArtifacts 时出错: %w", err)
	}
	if q.deleteProjectMessagesStmt, err = db.PrepareContext(ctx, deleteProjectMessages); err != nil {
		return nil, fmt.Errorf("准备查询 DeleteProjectMessages 时出错: %w", err)
	}
	if q.getArtifactStmt, err = db.PrepareContext(ctx, getArtifact); err != nil {
		return nil, fmt.Errorf("准备查询 GetArtifact 时出错: %w", err)
	}
	if q.getMessageStmt, err = db.PrepareContext(ctx, getMessage); err != nil {
		return nil, fmt.Errorf("准备查询 GetMessage 时出错: %w", err)
	}
	if q.getProjectStmt, err = db.PrepareContext(ctx, getProject); err != nil {
		return nil, fmt.Errorf("准备查询 GetProject 时出错: %w", err)
	}
	if q.listArtifactVersionsStmt, err = db.PrepareContext(ctx, listArtifactVersions); err != nil {
		return nil, fmt.Errorf("准备查询 ListArtifactVersions 时出错: %w", err)
	}
	if q.listLatestArtifactsStmt, err = db.PrepareContext(ctx, listLatestArtifacts); err != nil {
		return nil, fmt.Errorf("准备查询 ListLatestArtifacts 时出错: %w", err)
	}
	if q.listMessagesByProjectStmt, err = db.PrepareContext(ctx, listMessagesByProject); err != nil {
		return nil, fmt.Errorf("准备查询 ListMessagesByProject 时出错: %w", err)
	}
	if q.listProjectsStmt, err = db.PrepareContext(ctx, listProjects); err != nil {
		return nil, fmt.Errorf("准备查询 ListProjects 时出错: %w", err)
	}
	if q.touchProjectStmt, err = db.PrepareContext(ctx, touchProject); err != nil {
		return nil, fmt.Errorf("准备查询 TouchProject 时出错: %w", err)
	}
	if q.updateMessageStmt, err = db.PrepareContext(ctx, updateMessage); err != nil {
		return nil, fmt.Errorf("准备查询 UpdateMessage 时出错: %w", err)
	}
	return &q, nil
}

// Close 关闭所有预编译的 SQL 语句，释放相关资源
// 返回值: 关闭过程中遇到的第一个错误（如果有）
func (q *Queries) Close() error {
	var err error
	if q.countProjectMessagesStmt != nil {
		if cerr := q.countProjectMessagesStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 countProjectMessagesStmt 时出错: %w", cerr)
		}
	}
	if q.createArtifactStmt != nil {
		if cerr := q.createArtifactStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 createArtifactStmt 时出错: %w", cerr)
		}
	}
	if q.createMessageStmt != nil {
		if cerr := q.createMessageStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 createMessageStmt 时出错: %w", cerr)
		}
	}
	if q.createProjectStmt != nil {
		if cerr := q.createProjectStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 createProjectStmt 时出错: %w", cerr)
		}
	}
	if q.deleteMessageStmt != nil {
		if cerr := q.deleteMessageStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 deleteMessageStmt 时出错: %w", cerr)
		}
	}
	if q.deleteProjectStmt != nil {
		if cerr := q.deleteProjectStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 deleteProjectStmt 时出错: %w", cerr)
		}
	}
	if q.deleteProjectArtifactsStmt != nil {
		if cerr := q.deleteProjectArtifactsStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 deleteProjectArtifactsStmt 时出错: %w", cerr)
		}
	}
	if q.deleteProjectMessagesStmt != nil {
		if cerr := q.deleteProjectMessagesStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 deleteProjectMessagesStmt 时出错: %w", cerr)
		}
	}
	if q.getArtifactStmt != nil {
		if cerr := q.getArtifactStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 getArtifactStmt 时出错: %w", cerr)
		}
	}
	if q.getMessageStmt != nil {
		if cerr := q.getMessageStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 getMessageStmt 时出错: %w", cerr)
		}
	}
	if q.getProjectStmt != nil {
		if cerr := q.getProjectStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 getProjectStmt 时出错: %w", cerr)
		}
	}
	if q.listArtifactVersionsStmt != nil {
		if cerr := q.listArtifactVersionsStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 listArtifactVersionsStmt 时出错: %w", cerr)
		}
	}
	if q.listLatestArtifactsStmt != nil {
		if cerr := q.listLatestArtifactsStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 listLatestArtifactsStmt 时出错: %w", cerr)
		}
	}
	if q.listMessagesByProjectStmt != nil {
		if cerr := q.listMessagesByProjectStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 listMessagesByProjectStmt 时出错: %w", cerr)
		}
	}
	if q.listProjectsStmt != nil {
		if cerr := q.listProjectsStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 listProjectsStmt 时出错: %w", cerr)
		}
	}
	if q.touchProjectStmt != nil {
		if cerr := q.touchProjectStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 touchProjectStmt 时出错: %w", cerr)
		}
	}
	if q.updateMessageStmt != nil {
		if cerr := q.updateMessageStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 updateMessageStmt 时出错: %w", cerr)
		}
	}
	return err
}

// exec 执行 SQL 查询语句，根据是否在事务中使用预编译语句或直接执行
// 参数 ctx: 上下文对象
// 参数 stmt: 预编译的 SQL 语句（可能为 nil）
// 参数 query: SQL 查询字符串
// 参数 args: 查询参数
// 返回值: 执行结果和可能的错误
func (q *Queries) exec(ctx context.Context, stmt *sql.Stmt, query string, args ...interface{}) (sql.Result, error) {
	switch {
	case stmt != nil && q.tx != nil:
		return q.tx.StmtContext(ctx, stmt).ExecContext(ctx, args...)
	case stmt != nil:
		return stmt.ExecContext(ctx, args...)
	default:
		return q.db.ExecContext(ctx, query, args...)
	}
}

// query 执行 SQL 查询并返回多行结果，根据是否在事务中使用预编译语句或直接执行
// 参数 ctx: 上下文对象
// 参数 stmt: 预编译的 SQL 语句（可能为 nil）
// 参数 query: SQL 查询字符串
// 参数 args: 查询参数
// 返回值: 查询结果集和可能的错误
func (q *Queries) query(ctx context.Context, stmt *sql.Stmt, query string, args ...interface{}) (*sql.Rows, error) {
	switch {
	case stmt != nil && q.tx != nil:
		return q.tx.StmtContext(ctx, stmt).QueryContext(ctx, args...)
	case stmt != nil:
		return stmt.QueryContext(ctx, args...)
	default:
		return q.db.QueryContext(ctx, query, args...)
	}
}

// queryRow 执行 SQL 查询并返回单行结果，根据是否在事务中使用预编译语句或直接执行
// 参数 ctx: 上下文对象
// 参数 stmt: 预编译的 SQL 语句（可能为 nil）
// 参数 query: SQL 查询字符串
// 参数 args: 查询参数
// 返回值: 单行查询结果
func (q *Queries) queryRow(ctx context.Context, stmt *sql.Stmt, query string, args ...interface{}) *sql.Row {
	switch {
	case stmt != nil && q.tx != nil:
		return q.tx.StmtContext(ctx, stmt).QueryRowContext(ctx, args...)
	case stmt != nil:
		return stmt.QueryRowContext(ctx, args...)
	default:
		return q.db.QueryRowContext(ctx, query, args...)
	}
}

// Queries 结构体封装了所有数据库查询操作
// 包含数据库连接、事务对象以及所有预编译的 SQL 语句
type Queries struct {
	db                         DBTX      // 数据库连接对象，实现了 DBTX 接口
	tx                         *sql.Tx   // 数据库事务对象（可选）
	countProjectMessagesStmt   *sql.Stmt // 统计项目消息数量的预编译语句
	createArtifactStmt         *sql.Stmt // 创建产物版本的预编译语句
	createMessageStmt          *sql.Stmt // 创建消息的预编译语句
	createProjectStmt          *sql.Stmt // 创建项目的预编译语句
	deleteMessageStmt          *sql.Stmt // 删除消息的预编译语句
	deleteProjectStmt          *sql.Stmt // 删除项目的预编译语句
	deleteProjectArtifactsStmt *sql.Stmt // 删除项目产物的预编译语句
	deleteProjectMessagesStmt  *sql.Stmt // 删除项目消息的预编译语句
	getArtifactStmt            *sql.Stmt // 获取产物版本的预编译语句
	getMessageStmt             *sql.Stmt // 获取消息的预编译语句
	getProjectStmt             *sql.Stmt // 获取项目的预编译语句
	listArtifactVersionsStmt   *sql.Stmt // 列出产物历史版本的预编译语句
	listLatestArtifactsStmt    *sql.Stmt // 列出产物最新版本的预编译语句
	listMessagesByProjectStmt  *sql.Stmt // 按项目列出消息的预编译语句
	listProjectsStmt           *sql.Stmt // 列出项目的预编译语句
	touchProjectStmt           *sql.Stmt // 刷新项目活动时间的预编译语句
	updateMessageStmt          *sql.Stmt // 更新消息的预编译语句
}

// WithTx 创建并返回一个与指定事务关联的新的 Queries 实例
// 该方法允许在事务上下文中执行所有数据库操作
// 参数 tx: 数据库事务对象
// 返回值: 与事务关联的新的 Queries 实例
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{
		db:                         tx,
		tx:                         tx,
		countProjectMessagesStmt:   q.countProjectMessagesStmt,
		createArtifactStmt:         q.createArtifactStmt,
		createMessageStmt:          q.createMessageStmt,
		createProjectStmt:          q.createProjectStmt,
		deleteMessageStmt:          q.deleteMessageStmt,
		deleteProjectStmt:          q.deleteProjectStmt,
		deleteProjectArtifactsStmt: q.deleteProjectArtifactsStmt,
		deleteProjectMessagesStmt:  q.deleteProjectMessagesStmt,
		getArtifactStmt:            q.getArtifactStmt,
		getMessageStmt:             q.getMessageStmt,
		getProjectStmt:             q.getProjectStmt,
		listArtifactVersionsStmt:   q.listArtifactVersionsStmt,
		listLatestArtifactsStmt:    q.listLatestArtifactsStmt,
		listMessagesByProjectStmt:  q.listMessagesByProjectStmt,
		listProjectsStmt:           q.listProjectsStmt,
		touchProjectStmt:           q.touchProjectStmt,
		updateMessageStmt:          q.updateMessageStmt,
	}
}
