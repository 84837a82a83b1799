package template

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestStage 测试一次性暂存区的存取语义
func TestStage(t *testing.T) {
	t.Parallel()

	t.Run("取出后即清空", func(t *testing.T) {
		t.Parallel()

		stage := NewStage()
		require.False(t, stage.Pending())

		stage.Set(Handoff{Template: "react-counter", Prompt: "Build a counter."})
		require.True(t, stage.Pending())

		h, ok := stage.Take()
		require.True(t, ok)
		require.Equal(t, "react-counter", h.Template)
		require.Equal(t, "Build a counter.", h.Prompt)

		// 第二次取出为空
		_, ok = stage.Take()
		require.False(t, ok)
		require.False(t, stage.Pending())
	})

	t.Run("覆盖未消费的旧内容", func(t *testing.T) {
		t.Parallel()

		stage := NewStage()
		stage.Set(Handoff{Template: "old"})
		stage.Set(Handoff{Template: "new"})

		h, ok := stage.Take()
		require.True(t, ok)
		require.Equal(t, "new", h.Template)
	})

	t.Run("并发取出恰好一人成功", func(t *testing.T) {
		t.Parallel()

		stage := NewStage()
		stage.Set(Handoff{Template: "react-counter"})

		const workers = 16
		var wg sync.WaitGroup
		got := make(chan Handoff, workers)
		for range workers {
			wg.Go(func() {
				if h, ok := stage.Take(); ok {
					got <- h
				}
			})
		}
		wg.Wait()
		close(got)

		var taken []Handoff
		for h := range got {
			taken = append(taken, h)
		}
		require.Len(t, taken, 1)
		require.Equal(t, "react-counter", taken[0].Template)
	})
}
