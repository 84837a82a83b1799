package csync

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionedMapVersionIncrements(t *testing.T) {
	t.Parallel()

	m := NewVersionedMap[string, int]()
	require.Equal(t, uint64(0), m.Version())

	m.Set("a", 1)
	require.Equal(t, uint64(1), m.Version())

	m.Set("a", 2)
	require.Equal(t, uint64(2), m.Version())

	m.Del("a")
	require.Equal(t, uint64(3), m.Version())

	// 读取不改变版本号
	_, _ = m.Get("a")
	require.Equal(t, uint64(3), m.Version())
}

func TestVersionedMapBasicOperations(t *testing.T) {
	t.Parallel()

	m := NewVersionedMap[string, string]()
	m.Set("k1", "v1")
	m.Set("k2", "v2")
	require.Equal(t, 2, m.Len())

	v, ok := m.Get("k1")
	require.True(t, ok)
	require.Equal(t, "v1", v)

	cp := m.Copy()
	require.Len(t, cp, 2)
	require.Equal(t, "v2", cp["k2"])

	seen := map[string]string{}
	for k, v := range m.Seq2() {
		seen[k] = v
	}
	require.Equal(t, cp, seen)
}
