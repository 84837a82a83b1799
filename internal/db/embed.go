// Package db 提供数据持久化相关的功能
// 迁移 SQL 文件通过 embed 指令嵌入二进制，运行时不依赖外部文件系统
package db

import "embed"

// FS 嵌入的文件系统，包含全部数据库迁移 SQL 文件
//
//go:embed migrations/*.sql
var FS embed.FS
