package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/x/term"
	"github.com/dustin/go-humanize"
	"github.com/purpose168/forge-cn/internal/project"
	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "列出全部项目",
	Long:  "列出全部项目，按最近活动时间降序排列",
	Example: `
# 以表格形式列出所有项目
forge projects

# 以 JSON 格式输出项目数据
forge projects --json

# 创建一个空项目
forge projects create "我的看板"

# 删除项目及其全部数据
forge projects delete <项目ID>
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		projectList, err := app.Projects.List(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			output := struct {
				Projects []project.Project `json:"projects"`
			}{Projects: projectList}

			data, err := json.Marshal(output)
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		}

		if len(projectList) == 0 {
			cmd.Println("还没有任何项目。用 forge run 发送第一个提示吧。")
			return nil
		}

		if term.IsTerminal(os.Stdout.Fd()) {
			// 我们在 TTY 中：美化输出
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				StyleFunc(func(row, col int) lipgloss.Style {
					return lipgloss.NewStyle().Padding(0, 2)
				}).
				Headers("名称", "ID", "最近活动")

			for _, p := range projectList {
				t.Row(p.Name, p.ID, humanize.Time(time.Unix(p.UpdatedAt, 0)))
			}
			lipgloss.Println(t)
			return nil
		}

		// 非 TTY 环境：普通输出
		for _, p := range projectList {
			cmd.Printf("%s\t%s\t%s\n", p.ID, p.Name, time.Unix(p.UpdatedAt, 0).Format(time.RFC3339))
		}
		return nil
	},
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "创建一个空项目",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		var name string
		if len(args) > 0 {
			name = args[0]
		}
		p, err := app.CreateProject(cmd.Context(), name)
		if err != nil {
			return err
		}
		cmd.Printf("已创建项目 %s（%s）\n", p.Name, p.ID)
		return nil
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "删除项目及其全部消息、产物与沙箱数据库",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		p, err := app.Projects.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("项目 %s 不存在: %w", args[0], err)
		}
		if err := app.DeleteProject(cmd.Context(), p.ID); err != nil {
			return err
		}
		cmd.Printf("已删除项目 %s（%s）\n", p.Name, p.ID)
		return nil
	},
}

func init() {
	projectsCmd.Flags().Bool("json", false, "以 JSON 格式输出")
	projectsCmd.AddCommand(projectsCreateCmd, projectsDeleteCmd)
}
