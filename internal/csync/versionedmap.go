package csync

import (
	"iter"
	"sync/atomic"
)

// VersionedMap 是一个跟踪版本号的线程安全映射。
// 每次写入都会递增版本号，调用方可以据此判断内容是否变化。
type VersionedMap[K comparable, V any] struct {
	m *Map[K, V]
	v atomic.Uint64
}

// NewVersionedMap 创建一个新的带版本号的线程安全映射。
func NewVersionedMap[K comparable, V any]() *VersionedMap[K, V] {
	return &VersionedMap[K, V]{
		m: NewMap[K, V](),
	}
}

// Get 获取指定键的值。
func (m *VersionedMap[K, V]) Get(key K) (V, bool) {
	return m.m.Get(key)
}

// Set 设置指定键的值并递增版本号。
func (m *VersionedMap[K, V]) Set(key K, value V) {
	m.m.Set(key, value)
	m.v.Add(1)
}

// Del 删除指定键并递增版本号。
func (m *VersionedMap[K, V]) Del(key K) {
	m.m.Del(key)
	m.v.Add(1)
}

// Len 返回映射中的条目数量。
func (m *VersionedMap[K, V]) Len() int {
	return m.m.Len()
}

// Copy 返回内部映射的副本。
func (m *VersionedMap[K, V]) Copy() map[K]V {
	return m.m.Copy()
}

// Seq2 返回产出键值对的迭代器。
func (m *VersionedMap[K, V]) Seq2() iter.Seq2[K, V] {
	return m.m.Seq2()
}

// Version 返回当前版本号。
func (m *VersionedMap[K, V]) Version() uint64 {
	return m.v.Load()
}
