// Package event 提供应用程序遥测事件的记录功能
// 本文件定义各业务动作对应的事件记录函数
package event

import (
	"time"
)

// appStartTime 记录应用程序启动时间
var appStartTime time.Time

// AppInitialized 记录应用程序初始化完成事件
func AppInitialized() {
	appStartTime = time.Now()
	send("应用已初始化")
}

// AppExited 记录应用程序退出事件，附带本次运行时长
func AppExited() {
	duration := time.Since(appStartTime).Truncate(time.Second)
	send(
		"应用已退出",
		"应用运行时长（可读格式）", duration.String(),
		"应用运行时长（秒）", int64(duration.Seconds()),
	)
	Flush()
}

// ProjectCreated 记录项目创建事件
func ProjectCreated() {
	send("项目已创建")
}

// ProjectDeleted 记录项目删除事件
func ProjectDeleted() {
	send("项目已删除")
}

// PromptSent 记录提示发送事件
// props: 附加的事件属性，以键值对形式传入
func PromptSent(props ...any) {
	send(
		"提示已发送",
		props...,
	)
}

// PromptResponded 记录提示得到响应的事件
// props: 附加的事件属性，以键值对形式传入
func PromptResponded(props ...any) {
	send(
		"提示已响应",
		props...,
	)
}

// ArtifactExtracted 记录从响应中提取出工件的事件
func ArtifactExtracted(props ...any) {
	send(
		"工件已提取",
		props...,
	)
}

// StatementExecuted 记录沙盒数据库语句执行事件
func StatementExecuted(props ...any) {
	send(
		"语句已执行",
		props...,
	)
}

// TablesRefreshed 记录数据表结构刷新事件
func TablesRefreshed() {
	send("数据表已刷新")
}

// TemplateApplied 记录启动模板被应用的事件
func TemplateApplied(props ...any) {
	send(
		"模板已应用",
		props...,
	)
}

// LoggedIn 记录用户登录事件
func LoggedIn() {
	send("用户已登录")
}

// LoggedOut 记录用户退出登录事件
func LoggedOut() {
	send("用户已退出登录")
}
