// Package cmd 定义 forge 的命令行入口。
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/purpose168/forge-cn/internal/app"
	"github.com/purpose168/forge-cn/internal/config"
	"github.com/purpose168/forge-cn/internal/db"
	"github.com/purpose168/forge-cn/internal/event"
	"github.com/purpose168/forge-cn/internal/version"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "当前工作目录")
	rootCmd.PersistentFlags().StringP("data-dir", "D", "", "自定义 forge 数据目录")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "调试")
	rootCmd.Flags().BoolP("help", "h", false, "帮助")

	rootCmd.AddCommand(
		runCmd,
		projectsCmd,
		artifactsCmd,
		tablesCmd,
		sqlCmd,
		templatesCmd,
		logsCmd,
		dirsCmd,
		schemaCmd,
		configCmd,
		loginCmd,
		logoutCmd,
	)
}

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "对话式应用构建器",
	Long:  "通过与推理后端对话来构建应用：回复中的代码被提取为产物，汇入项目工作区，并可在项目的沙箱数据库中执行 SQL",
	Example: `
# 发送单个提示并创建新项目
forge run "做一个看板应用"

# 在已有项目中继续对话
forge run -p <项目ID> "给卡片加上截止日期"

# 从起步模板开始
forge run -t todo-app

# 列出全部项目
forge projects

# 查看项目沙箱数据库的表结构
forge tables -p <项目ID>

# 打印版本
forge -v
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var heartbit = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6")).SetString(`
   ▄▄▄▄▄▄▄▄▄▄▄▄▄▄▄▄▄▄
  ████████████████████
  ████▀▀▀▀▀▀▀▀▀▀▀▀████
  ████ ▄▄▄▄▄▄▄▄▄▄ ████
  ████ ██████████ ████
  ████ ▀▀▀▀▀▀▀▀▀▀ ████
  ████▄▄▄▄▄▄▄▄▄▄▄▄████
   ▀▀▀▀▀██████▀▀▀▀▀
        ██████
        ▀▀▀▀▀▀
`)

// copied from cobra:
const defaultVersionTemplate = `{{with .DisplayName}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`

func Execute() {
	// 注意：cobra 没有提供设置版本打印函数的入口，PreRunE 又在版本
	// 已被处理之后才运行，所以这里通过 colorprofile 写入器把彩色
	// 图标渲染进缓冲区，再前置到版本模板中。
	if term.IsTerminal(os.Stdout.Fd()) {
		var b bytes.Buffer
		w := colorprofile.NewWriter(os.Stdout, os.Environ())
		w.Forward = &b
		_, _ = w.WriteString(heartbit.String())
		rootCmd.SetVersionTemplate(b.String() + "\n" + defaultVersionTemplate)
	}
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// setupApp 处理各子命令共用的初始化逻辑。
func setupApp(cmd *cobra.Command) (*app.App, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	ctx := cmd.Context()

	cwd, err := ResolveCwd(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(cwd, dataDir, debug)
	if err != nil {
		return nil, err
	}

	if err := createDataDir(cfg.Options.DataDirectory); err != nil {
		return nil, err
	}

	// 连接到数据库；这也会运行迁移。
	conn, err := db.Connect(ctx, cfg.Options.DataDirectory)
	if err != nil {
		return nil, err
	}

	appInstance, err := app.New(ctx, conn, cfg)
	if err != nil {
		slog.Error("创建应用实例失败", "error", err)
		return nil, err
	}

	if shouldEnableMetrics(cfg) {
		event.Init()
	}

	return appInstance, nil
}

func shouldEnableMetrics(cfg *config.Config) bool {
	if v, _ := strconv.ParseBool(os.Getenv("FORGE_DISABLE_METRICS")); v {
		return false
	}
	if v, _ := strconv.ParseBool(os.Getenv("DO_NOT_TRACK")); v {
		return false
	}
	if cfg.Options.DisableMetrics {
		return false
	}
	return true
}

func MaybePrependStdin(prompt string) (string, error) {
	if term.IsTerminal(os.Stdin.Fd()) {
		return prompt, nil
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return prompt, err
	}
	// 检查标准输入是否为命名管道（|）或常规文件（<）。
	if fi.Mode()&os.ModeNamedPipe == 0 && !fi.Mode().IsRegular() {
		return prompt, nil
	}
	bts, err := io.ReadAll(os.Stdin)
	if err != nil {
		return prompt, err
	}
	return string(bts) + "\n\n" + prompt, nil
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("切换目录失败: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("获取当前工作目录失败: %v", err)
	}
	return cwd, nil
}

func createDataDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("创建数据目录失败: %q %w", dir, err)
	}

	gitIgnorePath := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(gitIgnorePath); os.IsNotExist(err) {
		if err := os.WriteFile(gitIgnorePath, []byte("*\n"), 0o644); err != nil {
			return fmt.Errorf("创建 .gitignore 文件失败: %q %w", gitIgnorePath, err)
		}
	}

	return nil
}
