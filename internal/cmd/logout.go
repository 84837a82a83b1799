package cmd

import (
	"fmt"

	"github.com/purpose168/forge-cn/internal/event"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "退出登录",
	Long:  `退出当前 forge 账户，并删除本地保存的访问令牌。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		state := app.Auth.Current()
		if !state.Authenticated() {
			fmt.Println("当前未登录。")
			return nil
		}

		if err := app.Auth.Clear(); err != nil {
			return err
		}
		event.LoggedOut()

		fmt.Printf("已退出 %s 的登录。\n", state.Account.Email)
		return nil
	},
}
