package schema

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/purpose168/forge-cn/internal/db"
)

// Result 一次语句执行的原始结果
type Result struct {
	Columns      []string  // 列名，按语句产出的顺序排列
	Rows         [][]Value // 行数据，与 Columns 对齐
	RowsAffected int64     // 受影响的行数（仅无结果集的语句）
}

// Runner 通用的语句执行原语
// 结构检视和即席查询全部建立在这一个原语之上
type Runner interface {
	RunStatement(ctx context.Context, statement string) (Result, error)
	Close() error
}

// sqliteRunner 基于项目沙箱数据库文件的 Runner 实现
type sqliteRunner struct {
	conn *sql.DB
}

// NewSQLiteRunner 打开沙箱数据库文件并返回 Runner
// 文件不存在时创建空数据库
func NewSQLiteRunner(dbPath string) (Runner, error) {
	conn, err := db.OpenFile(dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开沙箱数据库失败: %w", err)
	}
	return &sqliteRunner{conn: conn}, nil
}

// RunStatement 在固定的单个连接上执行语句
// 产生结果集的语句返回列和行；其余语句返回受影响的行数
func (r *sqliteRunner) RunStatement(ctx context.Context, statement string) (Result, error) {
	// 固定到单个连接，保证 changes() 统计的是本条语句
	conn, err := r.conn.Conn(ctx)
	if err != nil {
		return Result{}, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, statement)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, err
	}

	result := Result{Columns: columns}
	if len(columns) == 0 {
		// 无结果集的语句已经执行完毕，补查受影响的行数
		if err := rows.Close(); err != nil {
			return Result{}, err
		}
		var affected int64
		if err := conn.QueryRowContext(ctx, "SELECT changes()").Scan(&affected); err != nil {
			return Result{}, err
		}
		result.RowsAffected = affected
		return result, nil
	}

	raw := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, err
		}
		row := make([]Value, len(columns))
		for i, v := range raw {
			row[i] = valueOf(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Result{}, err
	}
	return result, nil
}

// Close 关闭底层数据库连接
func (r *sqliteRunner) Close() error {
	return r.conn.Close()
}
