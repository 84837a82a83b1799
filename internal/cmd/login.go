package cmd

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/pkg/browser"
	"github.com/purpose168/forge-cn/internal/auth"
	"github.com/purpose168/forge-cn/internal/event"
	"github.com/spf13/cobra"
)

// defaultTokenTTL 控制台令牌未携带有效期信息时采用的本地有效期
const defaultTokenTTL = 30 * 24 * time.Hour

var loginCmd = &cobra.Command{
	Aliases: []string{"auth"},
	Use:     "login",
	Short:   "登录 forge 账户",
	Long: `登录 forge 账户。
在控制台生成访问令牌并粘贴到这里，令牌保存在本地数据目录中。`,
	Example: `
# 登录
forge login

# 退出登录
forge logout
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		if state := app.Auth.Current(); state.Authenticated() {
			fmt.Printf("您已经以 %s 的身份登录。如需切换账户，请先运行 forge logout。\n", state.Account.Email)
			return nil
		}

		tokenURL := auth.ConsoleTokenURL()
		fmt.Println("按回车键打开控制台的令牌页面，在那里生成一个访问令牌:")
		fmt.Println()
		fmt.Println(lipgloss.NewStyle().Hyperlink(tokenURL, "id=console").Render(tokenURL))
		fmt.Println()
		waitEnter()
		if err := browser.OpenURL(tokenURL); err != nil {
			fmt.Println("无法打开 URL。您需要手动在浏览器中打开该 URL。")
		}

		fmt.Print("粘贴访问令牌: ")
		var accessToken string
		_, _ = fmt.Scanln(&accessToken)
		accessToken = strings.TrimSpace(accessToken)
		if accessToken == "" {
			return fmt.Errorf("未输入访问令牌")
		}

		fmt.Println("正在验证访问令牌...")
		account, err := auth.VerifyToken(cmd.Context(), auth.ConsoleBaseURL(), accessToken)
		if err != nil {
			return err
		}

		if err := app.Auth.SetToken(account, auth.Token{
			AccessToken: accessToken,
			ExpiresIn:   int(defaultTokenTTL.Seconds()),
		}); err != nil {
			return err
		}

		event.Alias(account.UserID)
		event.LoggedIn()

		fmt.Println()
		fmt.Printf("您现在已以 %s 的身份登录 forge!\n", account.Email)
		return nil
	},
}

func waitEnter() {
	_, _ = fmt.Scanln()
}
