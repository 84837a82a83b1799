package cmd

import (
	"encoding/json"
	"os"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/x/term"
	"github.com/purpose168/forge-cn/internal/template"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "列出可用的起步模板",
	Long:  "列出本地模板目录与远程模板目录中的全部起步模板",
	Example: `
# 列出全部模板
forge templates

# 以 JSON 格式输出模板数据
forge templates --json
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		templates := app.Templates(cmd.Context())

		if jsonOutput {
			output := struct {
				Templates []template.Template `json:"templates"`
			}{Templates: templates}
			data, err := json.Marshal(output)
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		}

		if len(templates) == 0 {
			cmd.Println("没有找到任何模板。")
			return nil
		}

		if term.IsTerminal(os.Stdout.Fd()) {
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				StyleFunc(func(row, col int) lipgloss.Style {
					return lipgloss.NewStyle().Padding(0, 2)
				}).
				Headers("名称", "描述")

			for _, tpl := range templates {
				t.Row(tpl.Name, tpl.Description)
			}
			lipgloss.Println(t)
			return nil
		}

		for _, tpl := range templates {
			cmd.Printf("%s\t%s\n", tpl.Name, tpl.Description)
		}
		return nil
	},
}

func init() {
	templatesCmd.Flags().Bool("json", false, "以 JSON 格式输出")
}
