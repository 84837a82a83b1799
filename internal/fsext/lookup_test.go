package fsext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupClosest(t *testing.T) {
	t.Run("在起始目录中找到目标", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "forge.json")
		require.NoError(t, os.WriteFile(target, []byte("{}"), 0o644))

		found, ok := LookupClosest(dir, "forge.json")
		require.True(t, ok)
		require.Equal(t, target, found)
	})

	t.Run("在上级目录中找到目标", func(t *testing.T) {
		dir := t.TempDir()
		sub := filepath.Join(dir, "a", "b")
		require.NoError(t, os.MkdirAll(sub, 0o755))

		target := filepath.Join(dir, "forge.json")
		require.NoError(t, os.WriteFile(target, []byte("{}"), 0o644))

		found, ok := LookupClosest(sub, "forge.json")
		require.True(t, ok)
		require.Equal(t, target, found)
	})

	t.Run("目标不存在时返回false", func(t *testing.T) {
		_, ok := LookupClosest(t.TempDir(), "这个文件不存在.json")
		require.False(t, ok)
	})
}

func TestLookup(t *testing.T) {
	t.Run("收集路径上的所有命中", func(t *testing.T) {
		dir := t.TempDir()
		sub := filepath.Join(dir, "nested")
		require.NoError(t, os.MkdirAll(sub, 0o755))

		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(sub, ".env"), nil, 0o644))

		found, err := Lookup(sub, ".env")
		require.NoError(t, err)
		require.Contains(t, found, filepath.Join(sub, ".env"))
		require.Contains(t, found, filepath.Join(dir, ".env"))
	})

	t.Run("没有目标时返回nil", func(t *testing.T) {
		found, err := Lookup(t.TempDir())
		require.NoError(t, err)
		require.Nil(t, found)
	})
}
