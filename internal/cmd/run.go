package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"charm.land/log/v2"
	"github.com/purpose168/forge-cn/internal/event"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [prompt...]",
	Short: "发送单个提示并提取产物",
	Long: `发送单个提示并退出。
提示可以作为参数提供或从标准输入管道传输。
未指定项目时会创建一个新项目；回复中的代码块被提取为产物并入库。`,
	Example: `
# 发送提示并创建新项目
forge run "做一个带拖拽的看板应用"

# 在已有项目中继续对话
forge run -p 3f2a… "给卡片加上截止日期"

# 从起步模板开始，使用模板自带的起步提示
forge run -t todo-app

# 从标准输入管道输入
cat 需求.md | forge run "按这份需求搭一个原型"

# 把最新产物导出到目录
forge run --export-dir ./out "做一个计时器"

# 在安静模式下运行（只输出回复正文）
forge run -q "做一个计时器"
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		verbose, _ := cmd.Flags().GetBool("verbose")
		projectID, _ := cmd.Flags().GetString("project")
		templateName, _ := cmd.Flags().GetString("template")
		exportDir, _ := cmd.Flags().GetString("export-dir")

		// 在 SIGINT 或 SIGTERM 信号时取消。
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
		defer cancel()

		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		if verbose {
			slog.SetDefault(slog.New(log.New(os.Stderr)))
		}

		prompt := strings.Join(args, " ")

		prompt, err = MaybePrependStdin(prompt)
		if err != nil {
			slog.Error("从标准输入读取失败", "error", err)
			return err
		}

		event.AppInitialized()

		// 选择模板时暂存一条起步移交，发送时一并消费
		if templateName != "" {
			tpl, err := app.StageTemplate(ctx, templateName, prompt)
			if err != nil {
				return err
			}
			if prompt == "" {
				prompt = tpl.Prompt
			}
		}

		if prompt == "" {
			return fmt.Errorf("未提供提示")
		}

		if projectID == "" {
			project, err := app.CreateProject(ctx, deriveProjectName(prompt))
			if err != nil {
				return err
			}
			projectID = project.ID
			if !quiet {
				cmd.Printf("已创建项目 %s（%s）\n\n", project.Name, project.ID)
			}
		} else if _, err := app.Projects.Get(ctx, projectID); err != nil {
			return fmt.Errorf("项目 %s 不存在: %w", projectID, err)
		}

		result, err := app.RunPrompt(ctx, projectID, prompt)
		if err != nil {
			event.Error(err)
			return err
		}

		cmd.Println(strings.TrimSpace(result.Reply.Message.Content))

		if !quiet && len(result.Artifacts) > 0 {
			cmd.Println()
			for _, a := range result.Artifacts {
				cmd.Printf("产物 %s（版本 %d，%d 字节）\n", a.Name, a.Version, len(a.Content))
			}
		}
		if !quiet && result.AutoOpen != "" {
			cmd.Printf("已打开 %s\n", result.AutoOpen)
		}

		if exportDir != "" {
			if err := app.Artifacts.Export(ctx, projectID, exportDir); err != nil {
				return fmt.Errorf("导出产物失败: %w", err)
			}
			if !quiet {
				cmd.Printf("产物已导出到 %s\n", exportDir)
			}
		}
		return nil
	},
	PostRun: func(cmd *cobra.Command, args []string) {
		event.AppExited()
	},
}

// deriveProjectName 从提示词截取一个适合展示的项目名称
func deriveProjectName(prompt string) string {
	name := strings.Join(strings.Fields(prompt), " ")
	const maxNameLength = 40
	if runes := []rune(name); len(runes) > maxNameLength {
		name = string(runes[:maxNameLength]) + "…"
	}
	return name
}

func init() {
	runCmd.Flags().StringP("project", "p", "", "目标项目ID，缺省时创建新项目")
	runCmd.Flags().StringP("template", "t", "", "起步模板名称")
	runCmd.Flags().String("export-dir", "", "运行结束后把最新产物导出到该目录")
	runCmd.Flags().BoolP("quiet", "q", false, "只输出回复正文")
	runCmd.Flags().BoolP("verbose", "v", false, "显示日志")
}
