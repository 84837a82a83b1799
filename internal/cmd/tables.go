package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/x/term"
	"github.com/dustin/go-humanize"
	"github.com/purpose168/forge-cn/internal/event"
	"github.com/purpose168/forge-cn/internal/schema"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables [table]",
	Short: "查看项目沙箱数据库的表结构",
	Long: `枚举项目沙箱数据库中的全部用户表及其列和行数。
给出表名时预览该表的前若干行。`,
	Example: `
# 列出全部表
forge tables -p <项目ID>

# 预览 todos 表的数据
forge tables todos -p <项目ID>
  `,
	Args: cobra.MaximumNArgs(1),
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

		svc, err := app.Schema(projectID)
		if err != nil {
			return err
		}

		tables, err := svc.RefreshTables(cmd.Context())
		if err != nil {
			return fmt.Errorf("枚举数据表失败: %w", err)
		}
		event.TablesRefreshed()

		if len(args) > 0 {
			result := svc.LoadRows(cmd.Context(), args[0])
			if result.Err != "" {
				return fmt.Errorf("预览表 %s 失败: %s", args[0], result.Err)
			}
			printQueryResult(cmd, result, jsonOutput)
			return nil
		}

		if jsonOutput {
			output := struct {
				Tables []schema.TableDescriptor `json:"tables"`
			}{Tables: tables}
			data, err := json.Marshal(output)
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		}

		if len(tables) == 0 {
			cmd.Println("沙箱数据库中还没有任何表。")
			return nil
		}

		if term.IsTerminal(os.Stdout.Fd()) {
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				StyleFunc(func(row, col int) lipgloss.Style {
					return lipgloss.NewStyle().Padding(0, 2)
				}).
				Headers("表名", "列", "行数")

			for _, td := range tables {
				t.Row(td.Name, describeColumns(td.Columns), humanize.Comma(td.RowCount))
			}
			lipgloss.Println(t)
			return nil
		}

		for _, td := range tables {
			cmd.Printf("%s\t%d 列\t%d 行\n", td.Name, len(td.Columns), td.RowCount)
		}
		return nil
	},
}

// describeColumns 把列清单折叠为一行摘要，主键列加星号标记
func describeColumns(columns []schema.ColumnDescriptor) string {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		part := c.Name
		if c.Type != "" {
			part += " " + strings.ToUpper(c.Type)
		}
		if c.PrimaryKey {
			part += " *"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "\n")
}

// printQueryResult 打印一次语句执行的结果
func printQueryResult(cmd *cobra.Command, result schema.QueryResult, jsonOutput bool) {
	if jsonOutput {
		data, err := json.Marshal(result)
		if err == nil {
			cmd.Println(string(data))
		}
		return
	}

	if len(result.Columns) == 0 {
		cmd.Printf("完成，%d 行受影响\n", result.RowsAffected)
		return
	}

	if term.IsTerminal(os.Stdout.Fd()) {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				return lipgloss.NewStyle().Padding(0, 1)
			}).
			Headers(result.Columns...)
		for _, row := range result.Rows {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = v.String()
			}
			t.Row(cells...)
		}
		lipgloss.Println(t)
	} else {
		cmd.Println(strings.Join(result.Columns, "\t"))
		for _, row := range result.Rows {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = v.String()
			}
			cmd.Println(strings.Join(cells, "\t"))
		}
	}
	cmd.Printf("共 %s 行\n", strconv.Itoa(len(result.Rows)))
}

func init() {
	tablesCmd.Flags().StringP("project", "p", "", "项目ID")
	tablesCmd.Flags().Bool("json", false, "以 JSON 格式输出")
}
