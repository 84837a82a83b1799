package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/purpose168/forge-cn/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "管理 forge 配置",
	Long: `读取和修改 forge 的配置字段。
修改写入数据目录中的配置文件，不会改动全局配置和项目配置。`,
	Example: `
# 打印合并后生效的配置
forge config

# 读取单个字段
forge config get artifacts.collision_policy

# 设置字段，值按 JSON 解析，解析失败时按字符串处理
forge config set options.debug true
forge config set inference.base_url https://forge.internal/api/generate

# 删除字段
forge config rm options.debug
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		bts, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("无法序列化配置: %w", err)
		}
		cmd.Println(string(bts))
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <字段路径>",
	Short: "读取配置字段",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		value, ok := cfg.GetConfigField(args[0])
		if !ok {
			return fmt.Errorf("配置字段 %s 不存在", args[0])
		}
		cmd.Println(value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <字段路径> <值>",
	Short: "设置配置字段",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// 能按 JSON 解析的值保留类型，其余按字符串写入
		var value any = args[1]
		var parsed any
		if err := json.Unmarshal([]byte(args[1]), &parsed); err == nil {
			value = parsed
		}
		if err := cfg.SetConfigField(args[0], value); err != nil {
			return err
		}
		cmd.Printf("已设置 %s\n", args[0])
		return nil
	},
}

var configRmCmd = &cobra.Command{
	Aliases: []string{"unset"},
	Use:     "rm <字段路径>",
	Short:   "删除配置字段",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !cfg.HasConfigField(args[0]) {
			return fmt.Errorf("配置字段 %s 不存在", args[0])
		}
		if err := cfg.RemoveConfigField(args[0]); err != nil {
			return err
		}
		cmd.Printf("已删除 %s\n", args[0])
		return nil
	},
}

// loadConfig 只加载配置，供不需要完整应用实例的子命令使用。
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cwd, err := ResolveCwd(cmd)
	if err != nil {
		return nil, err
	}
	dataDir, _ := cmd.Flags().GetString("data-dir")
	debug, _ := cmd.Flags().GetBool("debug")
	return config.Load(cwd, dataDir, debug)
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configRmCmd)
}
