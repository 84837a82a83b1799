// Package fsext 提供文件系统查找相关的扩展功能。
package fsext

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/purpose168/forge-cn/internal/home"
)

// Lookup 从指定目录开始向上搜索目标文件或目录，直到文件系统根目录。
// 搜索不会跨越所有权边界：所有者不匹配的条目被跳过而不报错。
// 搜索范围包括起始目录本身，返回所有命中的完整路径。
func Lookup(dir string, targets ...string) ([]string, error) {
	if len(targets) == 0 {
		return nil, nil
	}

	var found []string

	err := traverseUp(dir, func(cwd string, owner int) error {
		for _, target := range targets {
			fpath := filepath.Join(cwd, target)
			err := probeEnt(fpath, owner)

			if errors.Is(err, os.ErrNotExist) ||
				errors.Is(err, os.ErrPermission) {
				continue
			}

			if err != nil {
				return fmt.Errorf("探测文件 %s 时出错: %w", fpath, err)
			}

			found = append(found, fpath)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// LookupClosest 从指定目录向上搜索目标，找到第一个命中即停止。
// 到达用户主目录或文件系统根目录后不再继续。
// 返回目标的完整路径和是否找到。搜索范围包括起始目录本身。
func LookupClosest(dir, target string) (string, bool) {
	var found string

	err := traverseUp(dir, func(cwd string, owner int) error {
		fpath := filepath.Join(cwd, target)

		err := probeEnt(fpath, owner)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("探测文件 %s 时出错: %w", fpath, err)
		}

		if cwd == home.Dir() {
			return filepath.SkipAll
		}

		found = fpath
		return filepath.SkipAll
	})

	return found, err == nil && found != ""
}

// traverseUp 从给定目录向上遍历到文件系统根目录，
// 把每一级目录的绝对路径和起始目录的所有者 ID 传给回调。
func traverseUp(dir string, walkFn func(dir string, owner int) error) error {
	cwd, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("无法将目录转换为绝对路径: %w", err)
	}

	owner, err := Owner(dir)
	if err != nil {
		return fmt.Errorf("无法获取所有权: %w", err)
	}

	for {
		err := walkFn(cwd, owner)
		if err == nil || errors.Is(err, filepath.SkipDir) {
			parent := filepath.Dir(cwd)
			if parent == cwd {
				return nil
			}

			cwd = parent
			continue
		}

		if errors.Is(err, filepath.SkipAll) {
			return nil
		}

		return err
	}
}

// probeEnt 检查路径存在且属于给定所有者
func probeEnt(fspath string, owner int) error {
	if _, err := os.Stat(fspath); err != nil {
		return fmt.Errorf("无法获取 %s 的文件状态: %w", fspath, err)
	}

	// 所有权检查被绕过的平台（如 Windows）
	if owner == -1 {
		return nil
	}

	fowner, err := Owner(fspath)
	if err != nil {
		return fmt.Errorf("无法获取 %s 的所有权: %w", fspath, err)
	}

	if fowner != owner {
		return os.ErrPermission
	}

	return nil
}
