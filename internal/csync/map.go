// Package csync 提供一组线程安全的泛型容器。
package csync

import (
	"iter"
	"maps"
	"sync"
)

// Map 是一个线程安全的映射。
type Map[K comparable, V any] struct {
	mu    sync.RWMutex
	inner map[K]V
}

// NewMap 创建一个新的线程安全映射。
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		inner: make(map[K]V),
	}
}

// Set 为指定的键设置值。
func (m *Map[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inner[key] = value
}

// Get 获取指定键的值。
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.inner[key]
	return v, ok
}

// Del 删除指定的键。
func (m *Map[K, V]) Del(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inner, key)
}

// Len 返回映射中的条目数量。
func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.inner)
}

// GetOrSet 返回已存在的值；键不存在时执行 fn，存入其返回值并返回。
// fn 在锁内执行，重复调用不会产生两个值。
func (m *Map[K, V]) GetOrSet(key K, fn func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	if got, ok := m.inner[key]; ok {
		return got
	}
	value := fn()
	m.inner[key] = value
	return value
}

// Take 获取指定键的值并将其从映射中删除。
func (m *Map[K, V]) Take(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.inner[key]
	delete(m.inner, key)
	return v, ok
}

// Copy 返回内部映射的副本。
func (m *Map[K, V]) Copy() map[K]V {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.inner)
}

// Seq2 返回产出键值对的迭代器，基于调用时的快照。
func (m *Map[K, V]) Seq2() iter.Seq2[K, V] {
	dst := m.Copy()
	return func(yield func(K, V) bool) {
		for k, v := range dst {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Seq 返回产出值的迭代器，基于调用时的快照。
func (m *Map[K, V]) Seq() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.Seq2() {
			if !yield(v) {
				return
			}
		}
	}
}
