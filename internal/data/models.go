package data

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/liliang-cn/catalog/internal/store"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrDuplicateRecord  = errors.New("duplicate record")
	ErrIDSpaceExhausted = errors.New("movie id space exhausted")
	ErrCorruptStore     = store.ErrCorrupt
)

// ValidationError 携带按字段划分的校验错误
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Errors[k]))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

type Models struct {
	Movies MovieModel
	Texts  TextModel
}

// NewModels 在 dir 目录下为每种资源分配一个独立的集合文件
func NewModels(dir string) Models {
	return Models{
		Movies: MovieModel{File: store.NewFile[Movie](filepath.Join(dir, "movies.json"))},
		Texts:  TextModel{File: store.NewFile[Text](filepath.Join(dir, "texts.json"))},
	}
}
