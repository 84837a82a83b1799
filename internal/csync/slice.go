package csync

import (
	"iter"
	"sync"
)

// Slice 是一个线程安全的切片。
type Slice[T any] struct {
	mu    sync.RWMutex
	inner []T
}

// NewSlice 创建一个新的线程安全切片。
func NewSlice[T any]() *Slice[T] {
	return &Slice[T]{
		inner: make([]T, 0),
	}
}

// NewSliceFrom 从现有切片创建一个新的线程安全切片。
func NewSliceFrom[T any](s []T) *Slice[T] {
	inner := make([]T, len(s))
	copy(inner, s)
	return &Slice[T]{inner: inner}
}

// Append 在切片末尾追加一个或多个元素。
func (s *Slice[T]) Append(items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner = append(s.inner, items...)
}

// Get 返回指定索引位置的元素。
func (s *Slice[T]) Get(index int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero T
	if index < 0 || index >= len(s.inner) {
		return zero, false
	}
	return s.inner[index], true
}

// Len 返回切片中元素的数量。
func (s *Slice[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inner)
}

// SetSlice 用给定内容替换整个切片。
func (s *Slice[T]) SetSlice(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner = make([]T, len(items))
	copy(s.inner, items)
}

// Copy 返回内部切片的副本。
func (s *Slice[T]) Copy() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]T, len(s.inner))
	copy(items, s.inner)
	return items
}

// Seq 返回产出元素的迭代器，基于调用时的快照。
func (s *Slice[T]) Seq() iter.Seq[T] {
	items := s.Copy()
	return func(yield func(T) bool) {
		for _, v := range items {
			if !yield(v) {
				return
			}
		}
	}
}

// LazySlice 是一个延迟填充的线程安全切片。
// 填充函数在后台 goroutine 中执行，读取方会等待填充完成。
type LazySlice[T any] struct {
	wg    sync.WaitGroup
	inner []T
}

// NewLazySlice 创建一个新的延迟切片，并在后台运行 load 来填充它。
func NewLazySlice[T any](load func() []T) *LazySlice[T] {
	s := &LazySlice[T]{}
	s.wg.Go(func() {
		s.inner = load()
	})
	return s
}

// Seq 等待填充完成后返回产出元素的迭代器。
func (s *LazySlice[T]) Seq() iter.Seq[T] {
	s.wg.Wait()
	return func(yield func(T) bool) {
		for _, v := range s.inner {
			if !yield(v) {
				return
			}
		}
	}
}
