package home

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShort(t *testing.T) {
	if homedir == "" {
		t.Skip("当前环境没有主目录")
	}

	// 主目录下的路径应该被缩写
	p := filepath.Join(homedir, "projects", "demo")
	require.Equal(t, filepath.Join("~", "projects", "demo"), Short(p))

	// 主目录之外的路径保持不变
	require.Equal(t, "/tmp/forge", Short("/tmp/forge"))
}

func TestLong(t *testing.T) {
	if homedir == "" {
		t.Skip("当前环境没有主目录")
	}

	require.Equal(t, filepath.Join(homedir, "projects"), Long(filepath.Join("~", "projects")))

	// 不以 ~ 开头的路径保持不变
	require.Equal(t, "/etc/hosts", Long("/etc/hosts"))
}

func TestShortLongRoundTrip(t *testing.T) {
	if homedir == "" {
		t.Skip("当前环境没有主目录")
	}

	p := filepath.Join(homedir, ".local", "share", "forge")
	require.Equal(t, p, Long(Short(p)))
}
