package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestConfigSetGetRm 测试配置字段的写入、读取与删除
func TestConfigSetGetRm(t *testing.T) {
	t.Setenv("FORGE_GLOBAL_CONFIG", t.TempDir())
	t.Setenv("FORGE_GLOBAL_DATA", t.TempDir())
	dataDir := t.TempDir()

	// 通过根命令执行，让持久化标志参与解析
	execute := func(args ...string) (string, error) {
		var b bytes.Buffer
		rootCmd.SetOut(&b)
		rootCmd.SetErr(&b)
		rootCmd.SetArgs(append(args, "-D", dataDir))
		err := rootCmd.Execute()
		return b.String(), err
	}

	_, err := execute("config", "set", "artifacts.collision_policy", "last-wins")
	require.NoError(t, err)

	out, err := execute("config", "get", "artifacts.collision_policy")
	require.NoError(t, err)
	require.Equal(t, "last-wins\n", out)

	// 值按 JSON 解析，布尔字段保留类型
	_, err = execute("config", "set", "options.debug", "true")
	require.NoError(t, err)
	out, err = execute("config", "get", "options.debug")
	require.NoError(t, err)
	require.Equal(t, "true\n", out)

	_, err = execute("config", "rm", "options.debug")
	require.NoError(t, err)

	// 删除不存在的字段报错
	_, err = execute("config", "rm", "options.debug")
	require.Error(t, err)

	// 未知字段读取报错
	_, err = execute("config", "get", "no.such.field")
	require.Error(t, err)
}
