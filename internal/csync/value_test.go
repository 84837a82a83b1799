package csync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueGetSet(t *testing.T) {
	t.Parallel()

	v := NewValue("初始值")
	require.Equal(t, "初始值", v.Get())

	v.Set("新值")
	require.Equal(t, "新值", v.Get())
}

func TestValueStructType(t *testing.T) {
	t.Parallel()

	type state struct {
		Name  string
		Count int
	}

	v := NewValue(state{Name: "a"})
	v.Set(state{Name: "b", Count: 2})

	got := v.Get()
	require.Equal(t, "b", got.Name)
	require.Equal(t, 2, got.Count)
}

func TestValueRejectsUnsupportedKinds(t *testing.T) {
	t.Parallel()

	// 指针、切片和映射类型应该在构造时 panic
	require.Panics(t, func() {
		x := 1
		NewValue(&x)
	})
	require.Panics(t, func() {
		NewValue([]int{1})
	})
	require.Panics(t, func() {
		NewValue(map[string]int{})
	})
}

func TestValueConcurrentAccess(t *testing.T) {
	t.Parallel()

	v := NewValue(0)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Go(func() {
			v.Set(i)
		})
		wg.Go(func() {
			_ = v.Get()
		})
	}
	wg.Wait()

	// 最终值必须是写入过的值之一
	require.GreaterOrEqual(t, v.Get(), 0)
	require.Less(t, v.Get(), 20)
}
