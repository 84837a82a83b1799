// Package env 提供环境变量访问的抽象，便于在测试中替换。
package env

import (
	"fmt"
	"os"
)

// Env 环境变量访问接口
type Env interface {
	// Get 返回指定环境变量的值，不存在时返回空字符串
	Get(key string) string
	// Env 以 key=value 形式返回全部环境变量
	Env() []string
}

// New 返回基于进程环境变量的 Env 实现
func New() Env {
	return &osEnv{}
}

type osEnv struct{}

func (o *osEnv) Get(key string) string {
	return os.Getenv(key)
}

func (o *osEnv) Env() []string {
	return os.Environ()
}

// NewFromMap 返回基于给定映射的 Env 实现，主要用于测试
func NewFromMap(m map[string]string) Env {
	return &mapEnv{m: m}
}

type mapEnv struct {
	m map[string]string
}

func (m *mapEnv) Get(key string) string {
	return m.m[key]
}

func (m *mapEnv) Env() []string {
	if len(m.m) == 0 {
		return []string{}
	}
	env := make([]string, 0, len(m.m))
	for k, v := range m.m {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}
