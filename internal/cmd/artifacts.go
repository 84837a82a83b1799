package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/x/term"
	"github.com/dustin/go-humanize"
	"github.com/purpose168/forge-cn/internal/artifact"
	"github.com/purpose168/forge-cn/internal/stringext"
	"github.com/spf13/cobra"
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "查看项目产物",
	Long:  "列出项目产物的最新版本，查看、对比或导出历史版本",
	Example: `
# 列出项目产物
forge artifacts -p <项目ID>

# 查看产物内容（默认最新版本）
forge artifacts show generated.tsx -p <项目ID>

# 查看指定版本
forge artifacts show generated.tsx -p <项目ID> --version 2

# 对比两个版本
forge artifacts diff generated.tsx 0 3 -p <项目ID>

# 导出全部产物的最新版本
forge artifacts export -p <项目ID> --dir ./out
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := requireProject(cmd)
		if err != nil {
			return err
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")

		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		latest, err := app.Artifacts.ListLatest(cmd.Context(), projectID)
		if err != nil {
			return err
		}

		if jsonOutput {
			output := struct {
				Artifacts []artifact.Artifact `json:"artifacts"`
			}{Artifacts: latest}
			data, err := json.Marshal(output)
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		}

		if len(latest) == 0 {
			cmd.Println("该项目还没有任何产物。")
			return nil
		}

		if term.IsTerminal(os.Stdout.Fd()) {
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				StyleFunc(func(row, col int) lipgloss.Style {
					return lipgloss.NewStyle().Padding(0, 2)
				}).
				Headers("名称", "语言", "版本", "大小", "更新时间")

			for _, a := range latest {
				t.Row(
					a.Name,
					stringext.Capitalize(a.Language),
					strconv.FormatInt(a.Version, 10),
					humanize.Bytes(uint64(len(a.Content))),
					humanize.Time(time.Unix(a.CreatedAt, 0)),
				)
			}
			lipgloss.Println(t)
			return nil
		}

		for _, a := range latest {
			cmd.Printf("%s\t%s\t%d\t%d\n", a.Name, a.Language, a.Version, len(a.Content))
		}
		return nil
	},
}

var artifactsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "查看产物内容",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := requireProject(cmd)
		if err != nil {
			return err
		}
		version, _ := cmd.Flags().GetInt64("version")

		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		a, err := resolveArtifact(cmd, app.Artifacts, projectID, args[0], version)
		if err != nil {
			return err
		}

		if term.IsTerminal(os.Stdout.Fd()) {
			highlighted, err := syntaxHighlight(a.Content, a.Name)
			if err == nil {
				cmd.Print(highlighted)
				return nil
			}
		}
		cmd.Print(a.Content)
		return nil
	},
}

var artifactsDiffCmd = &cobra.Command{
	Use:   "diff <name> <version> <version>",
	Short: "对比产物的两个版本",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := requireProject(cmd)
		if err != nil {
			return err
		}

		oldVersion, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("无效的版本号 %q: %w", args[1], err)
		}
		newVersion, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("无效的版本号 %q: %w", args[2], err)
		}

		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		name := args[0]
		older, err := app.Artifacts.Get(cmd.Context(), projectID, name, oldVersion)
		if err != nil {
			return fmt.Errorf("获取 %s 版本 %d 失败: %w", name, oldVersion, err)
		}
		newer, err := app.Artifacts.Get(cmd.Context(), projectID, name, newVersion)
		if err != nil {
			return fmt.Errorf("获取 %s 版本 %d 失败: %w", name, newVersion, err)
		}

		diff := udiff.Unified(
			fmt.Sprintf("%s@%d", name, older.Version),
			fmt.Sprintf("%s@%d", name, newer.Version),
			older.Content,
			newer.Content,
		)
		if diff == "" {
			cmd.Println("两个版本内容一致。")
			return nil
		}
		cmd.Print(diff)
		return nil
	},
}

var artifactsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "把全部产物的最新版本导出到目录",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := requireProject(cmd)
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			return fmt.Errorf("必须通过 --dir 指定导出目录")
		}

		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		if err := app.Artifacts.Export(cmd.Context(), projectID, dir); err != nil {
			return fmt.Errorf("导出产物失败: %w", err)
		}
		cmd.Printf("产物已导出到 %s\n", dir)
		return nil
	},
}

// requireProject 读取并校验 --project 标志
func requireProject(cmd *cobra.Command) (string, error) {
	projectID, _ := cmd.Flags().GetString("project")
	if projectID == "" {
		return "", fmt.Errorf("必须通过 --project 指定项目ID，可用 forge projects 查询")
	}
	return projectID, nil
}

// resolveArtifact 按名称取产物，version 为负时取最新版本
func resolveArtifact(cmd *cobra.Command, svc artifact.Service, projectID, name string, version int64) (artifact.Artifact, error) {
	if version >= 0 {
		a, err := svc.Get(cmd.Context(), projectID, name, version)
		if err != nil {
			return artifact.Artifact{}, fmt.Errorf("获取 %s 版本 %d 失败: %w", name, version, err)
		}
		return a, nil
	}
	versions, err := svc.ListVersions(cmd.Context(), projectID, name)
	if err != nil {
		return artifact.Artifact{}, err
	}
	if len(versions) == 0 {
		return artifact.Artifact{}, fmt.Errorf("产物 %s 不存在", name)
	}
	return versions[0], nil
}

// syntaxHighlight 按文件名推断语言并为终端输出着色
func syntaxHighlight(source, fileName string) (string, error) {
	l := lexers.Match(fileName)
	if l == nil {
		l = lexers.Analyse(source)
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	f := formatters.Get("terminal16m")
	if f == nil {
		f = formatters.Fallback
	}

	s := chromastyles.Get("monokai")
	if s == nil {
		s = chromastyles.Fallback
	}

	it, err := l.Tokenise(nil, source)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = f.Format(&buf, s, it)
	return buf.String(), err
}

func init() {
	artifactsCmd.PersistentFlags().StringP("project", "p", "", "项目ID")
	artifactsCmd.Flags().Bool("json", false, "以 JSON 格式输出")
	artifactsShowCmd.Flags().Int64("version", -1, "产物版本号，缺省为最新版本")
	artifactsExportCmd.Flags().String("dir", "", "导出目录")
	artifactsCmd.AddCommand(artifactsShowCmd, artifactsDiffCmd, artifactsExportCmd)
}
