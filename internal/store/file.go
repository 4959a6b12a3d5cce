// Package store 把一个集合整体作为一个 JSON 数组文档持久化到文件中
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrCorrupt 文件存在但无法解析为预期的结构
var ErrCorrupt = errors.New("corrupt store file")

// Load 读取 path 上的整个集合
// 文件不存在或内容为空时返回空集合, 无法解析时返回包装了 ErrCorrupt 的错误
func Load[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}

// Save 原子地替换 path 的全部内容: 先写同目录下的临时文件, 再 rename 覆盖
func Save[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	js, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	js = append(js, '\n')

	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(js); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync tmp: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Chmod(tmp, 0o640); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("chmod tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}

	return nil
}

// File 代表一个集合文件, 所有读写都经过同一把读写锁
type File[T any] struct {
	path string
	mu   sync.RWMutex
}

func NewFile[T any](path string) *File[T] {
	return &File[T]{path: path}
}

func (f *File[T]) Path() string {
	return f.path
}

// Read 在读锁下加载整个集合
func (f *File[T]) Read() ([]T, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return Load[T](f.path)
}

// Update 在写锁下完成一次 加载-修改-保存
// fn 返回错误时不会写入文件
func (f *File[T]) Update(fn func(items []T) ([]T, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := Load[T](f.path)
	if err != nil {
		return err
	}

	items, err = fn(items)
	if err != nil {
		return err
	}

	return Save(f.path, items)
}
