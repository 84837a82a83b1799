// Package app 负责连接服务并管理应用程序生命周期。
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/purpose168/forge-cn/internal/artifact"
	"github.com/purpose168/forge-cn/internal/auth"
	"github.com/purpose168/forge-cn/internal/chat"
	"github.com/purpose168/forge-cn/internal/config"
	"github.com/purpose168/forge-cn/internal/csync"
	"github.com/purpose168/forge-cn/internal/db"
	"github.com/purpose168/forge-cn/internal/event"
	"github.com/purpose168/forge-cn/internal/inference"
	"github.com/purpose168/forge-cn/internal/message"
	"github.com/purpose168/forge-cn/internal/project"
	"github.com/purpose168/forge-cn/internal/pubsub"
	"github.com/purpose168/forge-cn/internal/schema"
	"github.com/purpose168/forge-cn/internal/template"
	"github.com/purpose168/forge-cn/internal/update"
	"github.com/purpose168/forge-cn/internal/version"
	"github.com/purpose168/forge-cn/internal/workspace"
)

// UpdateAvailableMsg 在有新版本可用时发送。
type UpdateAvailableMsg struct {
	CurrentVersion string
	LatestVersion  string
	IsDevelopment  bool
}

// RunResult 一次提示词往返的完整产出。
type RunResult struct {
	Reply     chat.Reply          // 助手的定稿回复
	Artifacts []artifact.Artifact // 本次往返持久化的产物版本
	AutoOpen  string              // 自动打开的工作区文件，未打开时为空
}

type App struct {
	Projects  project.Service
	Messages  message.Service
	Artifacts artifact.Service
	Auth      auth.Service

	config *config.Config
	client inference.Client
	stage  *template.Stage

	templatesOnce sync.Once
	templates     []template.Template

	// 按项目惰性创建的引擎句柄
	chats      *csync.Map[string, chat.Service]
	schemas    *csync.Map[string, schema.Service]
	workspaces *csync.Map[string, *workspace.Model]

	serviceEventsWG *sync.WaitGroup
	eventsCtx       context.Context
	events          chan any

	// global context and cleanup functions
	globalCtx    context.Context
	cleanupFuncs []func(context.Context) error
}

// New 初始化一个新的应用程序实例。
func New(ctx context.Context, conn *sql.DB, cfg *config.Config) (*App, error) {
	q := db.New(conn)
	dataDir := cfg.Options.DataDirectory
	auths := auth.NewService(dataDir)

	endpoint, err := cfg.InferenceBaseURL()
	if err != nil {
		return nil, err
	}
	token := func() string {
		state := auths.Current()
		if !state.Authenticated() {
			return ""
		}
		return state.Token.AccessToken
	}

	app := &App{
		Projects:  project.NewService(q, dataDir),
		Messages:  message.NewService(q),
		Artifacts: artifact.NewService(q, conn),
		Auth:      auths,

		config: cfg,
		client: inference.NewClient(endpoint, token, cfg.Options.Debug),
		stage:  template.NewStage(),

		chats:      csync.NewMap[string, chat.Service](),
		schemas:    csync.NewMap[string, schema.Service](),
		workspaces: csync.NewMap[string, *workspace.Model](),

		globalCtx: ctx,

		events:          make(chan any, 100),
		serviceEventsWG: &sync.WaitGroup{},
	}

	app.setupEvents()

	// 在后台检查更新。
	if !cfg.Options.DisableUpdateCheck {
		go app.checkForUpdates(ctx)
	}

	// 应用关闭时回收数据库与沙箱连接
	app.cleanupFuncs = append(
		app.cleanupFuncs,
		func(context.Context) error { return conn.Close() },
		app.closeSchemas,
	)

	return app, nil
}

// Config 返回应用程序的配置。
func (app *App) Config() *config.Config {
	return app.config
}

// Events 返回全部服务事件汇聚成的单一通道。
func (app *App) Events() <-chan any {
	return app.events
}

// Templates 返回全部可用的起步模板，首次调用时加载。
// 本地模板目录与远程模板目录在加载时合并，远程失败不阻断本地。
func (app *App) Templates(ctx context.Context) []template.Template {
	app.templatesOnce.Do(func() {
		var dirs []string
		if app.config.Templates != nil {
			dirs = app.config.Templates.Dirs
		}
		app.templates = template.Load(ctx, dirs, app.config.TemplateCatalogURL(), app.config.TemplateCachePath())
	})
	return app.templates
}

// StageTemplate 暂存一条起步移交，供下一次发送消费。
// prompt 为空时使用模板自带的起步提示词。
func (app *App) StageTemplate(ctx context.Context, name, prompt string) (template.Template, error) {
	tpl, ok := template.Find(app.Templates(ctx), name)
	if !ok {
		return template.Template{}, fmt.Errorf("未找到模板 %q", name)
	}
	if prompt == "" {
		prompt = tpl.Prompt
	}
	app.stage.Set(template.Handoff{Template: tpl.Name, Prompt: prompt})
	event.TemplateApplied("模板名称", tpl.Name)
	return tpl, nil
}

// Chat 返回项目的会话引擎，按需创建。
func (app *App) Chat(projectID string) chat.Service {
	return app.chats.GetOrSet(projectID, func() chat.Service {
		svc := chat.NewService(projectID, app.Messages, app.client, app.Auth, app.stage)
		setupSubscriber(app.eventsCtx, app.serviceEventsWG, "chat:"+projectID, svc.Subscribe, app.events)
		return svc
	})
}

// Workspace 返回项目的工作区模型，按需创建。
func (app *App) Workspace(projectID string) *workspace.Model {
	return app.workspaces.GetOrSet(projectID, workspace.NewModel)
}

// Schema 返回项目的结构检视服务，按需打开项目的沙箱数据库。
func (app *App) Schema(projectID string) (schema.Service, error) {
	if svc, ok := app.schemas.Get(projectID); ok {
		return svc, nil
	}
	runner, err := schema.NewSQLiteRunner(app.Projects.SandboxDBPath(projectID))
	if err != nil {
		return nil, fmt.Errorf("打开项目沙箱数据库失败: %w", err)
	}
	svc := schema.NewService(runner)
	// 并发打开同一项目时保留先创建的实例
	final := app.schemas.GetOrSet(projectID, func() schema.Service { return svc })
	if final != svc {
		svc.Close()
		return final, nil
	}
	setupSubscriber(app.eventsCtx, app.serviceEventsWG, "schema:"+projectID, svc.Subscribe, app.events)
	return final, nil
}

// CreateProject 创建新项目。
func (app *App) CreateProject(ctx context.Context, name string) (project.Project, error) {
	p, err := app.Projects.Create(ctx, name)
	if err != nil {
		return project.Project{}, err
	}
	event.ProjectCreated()
	return p, nil
}

// DeleteProject 删除项目、其全部数据与在内存中的引擎句柄。
func (app *App) DeleteProject(ctx context.Context, id string) error {
	if svc, ok := app.schemas.Take(id); ok {
		if err := svc.Close(); err != nil {
			slog.Warn("关闭沙箱数据库失败", "project_id", id, "error", err)
		}
	}
	app.chats.Del(id)
	app.workspaces.Del(id)
	if err := app.Projects.Delete(ctx, id); err != nil {
		return err
	}
	event.ProjectDeleted()
	return nil
}

// RunPrompt 执行一次完整的提示词往返。
// 发送提示词，从回复中提取产物并入库，再把产物同步进项目工作区。
// 暂存的起步移交由引擎在发送时消费，模板名称随推理请求上报。
func (app *App) RunPrompt(ctx context.Context, projectID, prompt string) (*RunResult, error) {
	engine := app.Chat(projectID)

	event.PromptSent("项目ID", projectID)
	reply, err := engine.Send(ctx, prompt)
	if err != nil {
		return nil, err
	}
	event.PromptResponded("回复字符数", len(reply.Message.Content))

	if err := app.Projects.Touch(ctx, projectID); err != nil {
		slog.Warn("刷新项目活动时间失败", "project_id", projectID, "error", err)
	}

	extracted := artifact.Extract(reply.Message.Content, reply.HTML, app.config.CollisionPolicy())
	ws := app.Workspace(projectID)
	result := &RunResult{Reply: reply}
	for _, ex := range extracted {
		saved, err := app.Artifacts.CreateVersion(ctx, projectID, reply.Message.ID, ex)
		if err != nil {
			slog.Error("保存产物版本失败", "project_id", projectID, "name", ex.Name, "error", err)
			continue
		}
		ws.UpsertFile(ex.Name, ex.Content, ex.Language)
		result.Artifacts = append(result.Artifacts, saved)
	}
	if len(extracted) > 0 {
		event.ArtifactExtracted("产物数量", len(extracted))
	}

	if path, ok := ws.AutoOpen(); ok {
		result.AutoOpen = path
	}
	return result, nil
}

func (app *App) setupEvents() {
	ctx, cancel := context.WithCancel(app.globalCtx)
	app.eventsCtx = ctx
	setupSubscriber(ctx, app.serviceEventsWG, "projects", app.Projects.Subscribe, app.events)
	setupSubscriber(ctx, app.serviceEventsWG, "messages", app.Messages.Subscribe, app.events)
	setupSubscriber(ctx, app.serviceEventsWG, "artifacts", app.Artifacts.Subscribe, app.events)
	setupSubscriber(ctx, app.serviceEventsWG, "auth", app.Auth.Subscribe, app.events)
	cleanupFunc := func(context.Context) error {
		cancel()
		app.serviceEventsWG.Wait()
		return nil
	}
	app.cleanupFuncs = append(app.cleanupFuncs, cleanupFunc)
}

const subscriberSendTimeout = 2 * time.Second

func setupSubscriber[T any](
	ctx context.Context,
	wg *sync.WaitGroup,
	name string,
	subscriber func(context.Context) <-chan pubsub.Event[T],
	outputCh chan<- any,
) {
	wg.Go(func() {
		subCh := subscriber(ctx)
		sendTimer := time.NewTimer(0)
		<-sendTimer.C
		defer sendTimer.Stop()

		for {
			select {
			case event, ok := <-subCh:
				if !ok {
					slog.Debug("订阅通道已关闭", "name", name)
					return
				}
				var msg any = event
				if !sendTimer.Stop() {
					select {
					case <-sendTimer.C:
					default:
					}
				}
				sendTimer.Reset(subscriberSendTimeout)

				select {
				case outputCh <- msg:
				case <-sendTimer.C:
					slog.Debug("消息因消费者缓慢而丢弃", "name", name)
				case <-ctx.Done():
					slog.Debug("订阅已取消", "name", name)
					return
				}
			case <-ctx.Done():
				slog.Debug("订阅已取消", "name", name)
				return
			}
		}
	})
}

// closeSchemas 关闭全部已打开的沙箱数据库。
func (app *App) closeSchemas(context.Context) error {
	var errs []error
	for id, svc := range app.schemas.Seq2() {
		if err := svc.Close(); err != nil {
			errs = append(errs, fmt.Errorf("关闭项目 %s 的沙箱数据库失败: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Shutdown 执行应用程序的优雅关闭。
func (app *App) Shutdown() {
	start := time.Now()
	defer func() { slog.Debug("关闭耗时 " + time.Since(start).String()) }()

	var wg sync.WaitGroup

	// 所有有超时限制的清理任务共享的关闭上下文。
	shutdownCtx, cancel := context.WithTimeout(app.globalCtx, 5*time.Second)
	defer cancel()

	// 发送退出事件
	wg.Go(func() {
		event.AppExited()
	})

	// 调用所有清理函数。
	for _, cleanup := range app.cleanupFuncs {
		if cleanup != nil {
			wg.Go(func() {
				if err := cleanup(shutdownCtx); err != nil {
					slog.Error("应用程序关闭时清理失败", "error", err)
				}
			})
		}
	}
	wg.Wait()
}

// checkForUpdates 检查可用更新。
func (app *App) checkForUpdates(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	info, err := update.Check(checkCtx, version.Version, update.Default)
	if err != nil || !info.Available() {
		return
	}
	app.events <- UpdateAvailableMsg{
		CurrentVersion: info.Current,
		LatestVersion:  info.Latest,
		IsDevelopment:  info.IsDevelopment(),
	}
}
