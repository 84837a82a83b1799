package cmd

import (
	"fmt"
	"strings"

	"github.com/purpose168/forge-cn/internal/event"
	"github.com/purpose168/forge-cn/internal/stringext"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <statement...>",
	Short: "在项目沙箱数据库中执行 SQL 语句",
	Long: `在项目沙箱数据库中执行任意 SQL 语句并打印结果。
语句命中建表、删表或改表关键字时会自动刷新表清单。`,
	Example: `
# 建表
forge sql -p <项目ID> "CREATE TABLE todos (id INTEGER PRIMARY KEY, title TEXT)"

# 查询
forge sql -p <项目ID> "SELECT * FROM todos"

# 以 JSON 格式输出查询结果
forge sql -p <项目ID> --json "SELECT count(*) FROM todos"
  `,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := requireProject(cmd)
		if err != nil {
			return err
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")

		statement := stringext.NormalizeSpace(strings.Join(args, " "))
		if statement == "" {
			return fmt.Errorf("未提供 SQL 语句")
		}

		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		svc, err := app.Schema(projectID)
		if err != nil {
			return err
		}

		result := svc.Execute(cmd.Context(), statement)
		event.StatementExecuted("语句长度", len(statement))
		if result.Err != "" {
			return fmt.Errorf("执行语句失败: %s", result.Err)
		}

		printQueryResult(cmd, result, jsonOutput)
		return nil
	},
}

func init() {
	sqlCmd.Flags().StringP("project", "p", "", "项目ID")
	sqlCmd.Flags().Bool("json", false, "以 JSON 格式输出")
}
